package config

const (
	// DefaultServiceURL is where a locally running `pagectl serve` listens.
	DefaultServiceURL = "http://localhost:5000"

	// DefaultDPI matches the rasterization DPI the service has always used.
	DefaultDPI = 300

	// DefaultBlankThreshold is the non-white pixel fraction below which a
	// page counts as blank.
	DefaultBlankThreshold = 0.02
)

// GetDefaultConfig returns the built-in configuration, before any user or
// project overrides are layered on top.
func GetDefaultConfig() PagectlConfig {
	return PagectlConfig{
		Service: ServiceConfig{
			URL: DefaultServiceURL,
		},
		Serve: ServeConfig{
			Host: "0.0.0.0",
			Port: 5000,
		},
		Convert: ConvertConfig{
			DPI:            DefaultDPI,
			BlankThreshold: DefaultBlankThreshold,
			SofficeBinary:  "soffice",
		},
	}
}
