// Package conf loads application settings from config.json with sane
// defaults for every field.
package conf

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"yashubustudio/dichos/dichos"
)

// Settings holds the full application configuration.
type Settings struct {
	Debug bool `mapstructure:"debug"`

	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	Ingest struct {
		ChatPath string `mapstructure:"chatPath"`
		// CutoffDate bounds ingestion to messages strictly after it,
		// formatted as 2006-01-02. Empty means no cutoff.
		CutoffDate string `mapstructure:"cutoffDate"`
	} `mapstructure:"ingest"`

	Embedder dichos.EmbedderConfig `mapstructure:"embedder"`

	Assignment dichos.Config `mapstructure:"assignment"`

	Export struct {
		Dir    string `mapstructure:"dir"`
		Format string `mapstructure:"format"`
	} `mapstructure:"export"`

	Report struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"report"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("database.path", "dichos.db")
	v.SetDefault("ingest.chatPath", "")
	v.SetDefault("ingest.cutoffDate", "")
	v.SetDefault("embedder.maxSeqLen", 256)
	v.SetDefault("embedder.cacheDir", ".embcache")
	v.SetDefault("export.dir", "export")
	v.SetDefault("export.format", "csv")
	v.SetDefault("report.dir", "report")
}

// Load reads config.json from the working directory, or from the given
// explicit path when one is set. A missing file is not an error, the
// defaults apply.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	settings.Assignment.ApplyDefaults()
	if err := settings.Assignment.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
