// Package config resolves broom's settings from the config file and
// environment, once, at the CLI boundary. Everything below cmd/
// receives an explicit models.Settings value.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/broomtools/broom/pkg/models"
)

var cfgFile string

// InitConfig wires viper to $HOME/.config/broom/config.yaml (or the
// --config override) and the BROOM_* environment.
func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "broom")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BROOM")

	defaults := models.DefaultSettings()
	viper.SetDefault("model", defaults.Model)
	viper.SetDefault("endpoint", defaults.Endpoint)
	viper.SetDefault("batch_size", defaults.BatchSize)
	viper.SetDefault("max_content_length", defaults.MaxContentLength)
	viper.SetDefault("text_extensions", defaults.TextExtensions)
	viper.SetDefault("max_in_flight", defaults.MaxInFlight)
	viper.SetDefault("request_timeout", defaults.RequestTimeout)
	viper.SetDefault("data_dir", defaults.DataDir)

	// A missing config file is fine; defaults and env cover it.
	_ = viper.ReadInConfig()
}

// LoadSettings returns the resolved settings.
func LoadSettings() models.Settings {
	return models.Settings{
		Model:            viper.GetString("model"),
		Endpoint:         viper.GetString("endpoint"),
		BatchSize:        viper.GetInt("batch_size"),
		MaxContentLength: viper.GetInt("max_content_length"),
		TextExtensions:   viper.GetStringSlice("text_extensions"),
		MaxInFlight:      viper.GetInt("max_in_flight"),
		RequestTimeout:   viper.GetDuration("request_timeout"),
		DataDir:          viper.GetString("data_dir"),
	}
}

// Path returns where the config file lives (or would live).
func Path() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "broom", "config.yaml")
}

// AddGlobalFlags registers the persistent flags every command shares.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/broom/config.yaml)")
}
