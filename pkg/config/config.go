package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/types/dynamicpb"
)

var configFilePath = flag.String("config_file", "config.txtpb", "Path to the configuration file.")

// parseConfig decodes the txtpb `configBytes` into a dynamic message of the config schema.
func parseConfig(configBytes []byte) (*dynamicpb.Message, error) {
	conf := dynamicpb.NewMessage(configDescriptor)
	if err := prototext.Unmarshal(configBytes, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// loadConfigFile reads the config file at `path` and applies it to every flag not in `explicitFlags`.
func loadConfigFile(path string, explicitFlags map[ /*flagName*/ string]struct{}) error {
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	conf, err := parseConfig(configBytes)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := setConfigFlags(conf.ProtoReflect(), explicitFlags); err != nil {
		return fmt.Errorf("failed to set flags from config file: %w", err)
	}
	return nil
}

// InitFlags parses the command line flags and then fills the remaining ones from the -config_file.
// It should be called after defining all flags and before using them.
// Assumes config file doesn't have repeated/map fields. Supports nested messages only.
func InitFlags() {
	flag.Parse()

	if *configFilePath == "" {
		slog.Info("Config file not specified. Skipping config initialization.")
		return
	}

	err := loadConfigFile(*configFilePath, explicitlySetFlags())
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Config file does not exist.", "path", *configFilePath, "error", err)
		return
	}
	if err != nil { // If the config file cannot be applied, we skip loading and use default flag values.
		slog.Error("Failed to load config file.", "path", *configFilePath, "error", err)
		return
	}
	slog.Info("Loaded config file.", "path", *configFilePath)
}
