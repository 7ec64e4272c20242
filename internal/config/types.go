package config

// PagectlConfig is the top-level configuration structure for pagectl.
type PagectlConfig struct {
	Service ServiceConfig `yaml:"service"`
	Serve   ServeConfig   `yaml:"serve"`
	Convert ConvertConfig `yaml:"convert"`
}

// ServiceConfig describes the remote page service the client commands talk to.
type ServiceConfig struct {
	URL string `yaml:"url,omitempty"` // Base URL, e.g. "http://localhost:5000"
}

// ServeConfig describes how `pagectl serve` binds its HTTP listener.
type ServeConfig struct {
	Host string `yaml:"host,omitempty"` // Host to bind to (default: 0.0.0.0)
	Port int    `yaml:"port,omitempty"` // Port for the API endpoint (default: 5000)
}

// ConvertConfig holds the document conversion and blank-detection settings.
type ConvertConfig struct {
	DPI            int     `yaml:"dpi,omitempty"`            // Rasterization DPI (default: 300)
	BlankThreshold float64 `yaml:"blankThreshold,omitempty"` // Non-white fraction below which a page is blank (default: 0.02)
	SofficeBinary  string  `yaml:"sofficeBinary,omitempty"`  // Override for the LibreOffice binary (default: "soffice")
}
