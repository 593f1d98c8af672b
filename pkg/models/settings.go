package models

import (
	"os"
	"path/filepath"
	"time"
)

// Settings carries every tunable the organizer components need. It is
// resolved once from the config file/environment by the CLI layer and
// passed into constructors; packages below cmd/ never read config
// state themselves.
type Settings struct {
	// Model is the Ollama model asked for organization plans.
	Model string `yaml:"model" mapstructure:"model"`
	// Endpoint is the base URL of the Ollama server.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// BatchSize is the number of file entries sent per classification
	// call. Folders mode always sends a single batch.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`
	// MaxContentLength caps how many bytes of a file are sampled for
	// the content summary.
	MaxContentLength int `yaml:"max_content_length" mapstructure:"max_content_length"`
	// TextExtensions are treated as text even when the sampled bytes
	// contain a NUL byte.
	TextExtensions []string `yaml:"text_extensions" mapstructure:"text_extensions"`
	// MaxInFlight bounds concurrent classification calls.
	MaxInFlight int `yaml:"max_in_flight" mapstructure:"max_in_flight"`
	// RequestTimeout applies to each classification HTTP call.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	// DataDir holds broom's own state (the audit database).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// DefaultSettings mirrors the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		Model:            "gemma3:12b",
		Endpoint:         "http://localhost:11434",
		BatchSize:        30,
		MaxContentLength: 1024,
		TextExtensions: []string{
			".txt", ".md", ".py", ".js", ".html", ".css", ".json", ".xml", ".csv",
			".sh", ".yaml", ".yml", ".ini", ".log", ".rst", ".tex", ".rtf",
		},
		MaxInFlight:    4,
		RequestTimeout: 5 * time.Minute,
		DataDir:        filepath.Join(os.Getenv("HOME"), ".local", "share", "broom"),
	}
}
