package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Bundled inputs
	ResourceDir       string
	LegendPDFs        []string
	AgencyFile        string
	RoutesFile        string
	ManualColorsFile  string
	NetworkRoutesFile string

	// Output
	OutputFile  string
	OperatorTag string
	Shape       string
	DocxFile    string // optional Word summary

	// Feed matching
	NetworkName    string
	RouteIDPattern string

	// Logging
	LogLevel  string
	LogFormat string

	// Optional read-only HTTP surface, empty disables it.
	ServeAddr string
}

// LoadEnvFile reads a .env file into the process environment. Variables that
// are already set win over the file. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func Load() Config {
	cfg := Config{
		ResourceDir:       envOr("RESOURCE_DIR", "resources"),
		LegendPDFs:        envList("LEGEND_PDFS", []string{"2026_layout_MVV_Regio_0GESAMT.pdf"}),
		AgencyFile:        envOr("AGENCY_FILE", "agency.txt"),
		RoutesFile:        envOr("ROUTES_FILE", "routes.txt"),
		ManualColorsFile:  envOr("MANUAL_COLORS_FILE", "colors_manual.csv"),
		NetworkRoutesFile: envOr("NETWORK_ROUTES_FILE", "mvv_routes.txt"),

		OutputFile:  envOr("OUTPUT_FILE", "mvv_colors.csv"),
		OperatorTag: envOr("OPERATOR_TAG", "mvv-regional-bus"),
		Shape:       envOr("SHAPE", "rectangle"),
		DocxFile:    os.Getenv("DOCX_FILE"),

		NetworkName:    envOr("NETWORK_NAME", "MVV"),
		RouteIDPattern: envOr("ROUTE_ID_PATTERN", `mvv.*\|(Stadt|Regional|Express)`),

		LogLevel:  strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "json")),

		ServeAddr: os.Getenv("SERVE_ADDR"),
	}

	if cfg.LogFormat != "text" {
		cfg.LogFormat = "json"
	}

	return cfg
}

func (c Config) Validate() error {
	if len(c.LegendPDFs) == 0 {
		return fmt.Errorf("LEGEND_PDFS must name at least one document")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("OUTPUT_FILE is required")
	}
	if strings.ContainsAny(c.OperatorTag, ",\r\n") {
		return fmt.Errorf("OPERATOR_TAG must not contain separators: %q", c.OperatorTag)
	}
	if _, err := regexp.Compile(c.RouteIDPattern); err != nil {
		return fmt.Errorf("ROUTE_ID_PATTERN is not a valid expression: %w", err)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %q", c.LogLevel)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envList splits a comma separated variable, dropping empty entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
