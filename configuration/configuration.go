package configuration

import (
	"bytes"
	"encoding/json"

	"github.com/MERAprojects/ops-utils/netns"
	"github.com/MERAprojects/ops-utils/vrfstore"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// EnvConfig is the environment variable naming the config file.
	EnvConfig = "VRF_CONFIG"

	defaultConfigPath = "/etc/ops-utils/vrf.json"
)

// DefaultConfig is the configuration used when no config file can be read.
var DefaultConfig = Config{
	NetnsDir:        netns.DefaultDir,
	StorePath:       vrfstore.DefaultPath,
	NamespaceNaming: "name",
	DefaultVRFName:  vrfstore.DefaultVRFName,
	LogLevel:        "info",
	LogFormat:       "json",
	LogOutputPaths:  "stderr",
}

type Config struct {
	NetnsDir        string `json:"NetnsDir,omitempty"`
	StorePath       string `json:"StorePath,omitempty"`
	NamespaceNaming string `json:"NamespaceNaming,omitempty"`
	DefaultVRFName  string `json:"DefaultVRFName,omitempty"`
	LogLevel        string `json:"LogLevel,omitempty"`
	LogFormat       string `json:"LogFormat,omitempty"`
	LogOutputPaths  string `json:"LogOutputPaths,omitempty"`
	MetricsTextfile string `json:"MetricsTextfile,omitempty"`
}

// Load reads the config file named by EnvConfig, falling back to
// DefaultConfig when it cannot be read. Environment variables named like
// the keys override both.
func Load(v *viper.Viper, logger *zap.Logger) (*Config, error) {
	v.AutomaticEnv()
	v.SetDefault(EnvConfig, defaultConfigPath)

	b, err := json.Marshal(DefaultConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal default config")
	}
	defaults := map[string]interface{}{}
	if err = json.Unmarshal(b, &defaults); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal default config")
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfgFile := v.GetString(EnvConfig)
	v.SetConfigFile(cfgFile)
	v.SetConfigType("json")

	if err = v.ReadInConfig(); err == nil {
		logger.Debug("Using config file", zap.String("path", v.ConfigFileUsed()))
	} else {
		logger.Debug("Failed to load config, using defaults", zap.String("env", EnvConfig), zap.Error(err))
		if err = v.ReadConfig(bytes.NewBuffer(b)); err != nil {
			return nil, errors.Wrap(err, "failed to read in default config")
		}
	}

	config := &Config{}
	if err = v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	return config, nil
}
