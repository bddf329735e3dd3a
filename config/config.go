package config

import (
	"os"

	"hearthbutler/entity"
	"hearthbutler/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// ReadConfig reads the configuration from the YAML file and applies the
// engine defaults for any tunable the file leaves unset.
func ReadConfig(filePath string) (*entity.Config, error) {
	var config entity.Config

	data, err := os.ReadFile(filePath)
	if err != nil {
		logger.Error("unable to read config file", zap.String("path", filePath), zap.Error(err))
		return nil, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		logger.Error("unable to unmarshal config YAML", zap.Error(err))
		return nil, err
	}

	config.Engine.ApplyDefaults()
	return &config, nil
}
