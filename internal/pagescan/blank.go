package pagescan

import "image"

// nearWhiteCutoff is the per-channel 8-bit value above which a pixel counts
// as white. Matches the rasterized-page whiteness check the service has
// always used.
const nearWhiteCutoff = 245

// sampleTargetWidth caps how many columns are sampled per page. Large pages
// are sampled on a stride instead of being resized.
const sampleTargetWidth = 800

// FractionNonWhite returns the fraction of sampled pixels in img that are
// not near-white.
func FractionNonWhite(img image.Image) float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return 0.0
	}

	step := width / sampleTargetWidth
	if step < 1 {
		step = 1
	}

	total := 0
	nonWhite := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, _ := img.At(x, y).RGBA()
			total++
			if !(r>>8 > nearWhiteCutoff && g>>8 > nearWhiteCutoff && b>>8 > nearWhiteCutoff) {
				nonWhite++
			}
		}
	}
	if total == 0 {
		return 0.0
	}
	return float64(nonWhite) / float64(total)
}

// FindFirstBlank returns the index of the first page whose non-white pixel
// fraction is below threshold, or -1 when no page qualifies.
func FindFirstBlank(pages []image.Image, threshold float64) int {
	for i, page := range pages {
		if FractionNonWhite(page) < threshold {
			return i
		}
	}
	return -1
}
