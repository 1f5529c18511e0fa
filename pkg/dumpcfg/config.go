// Package dumpcfg loads the optional YAML configuration file. Flags passed
// on the command line always win over file values.
package dumpcfg

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Defaults used when neither the config file nor a flag sets a value.
const (
	DefaultBind    = "127.0.0.1"
	DefaultPort    = 9337
	DefaultAPIAddr = "127.0.0.1:9338"
)

// Config holds the startup configuration.
type Config struct {
	Bind     string `yaml:"bind"`
	Port     int    `yaml:"port"`
	API      bool   `yaml:"api"`
	APIAddr  string `yaml:"apiAddr"`
	Theme    string `yaml:"theme"`    // "dark", "light" or "" for auto
	LogLevel string `yaml:"logLevel"` // logrus level name
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Bind:    DefaultBind,
		Port:    DefaultPort,
		APIAddr: DefaultAPIAddr,
	}
}

// Load reads a YAML config file and overlays it on the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	dat, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}

	if err := yaml.Unmarshal(dat, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}

	if cfg.Bind == "" {
		cfg.Bind = DefaultBind
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = DefaultAPIAddr
	}

	return cfg, nil
}
