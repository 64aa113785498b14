package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fakalang/faka/pkg/storage/dbconfig"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the default path to the configuration file.
const DefaultConfigPath = "./config/faka.yml"

// Version is the version of the interpreter, set at build time with
// -ldflags "-X github.com/fakalang/faka/pkg/config.Version=...".
var Version string

// Config top level struct representing the config for the interpreter.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
	Interpreter              InterpreterConfiguration `yaml:"Interpreter"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ApplicationConfiguration: ApplicationConfiguration{
			DBConfiguration: dbconfig.DBConfiguration{
				Type: dbconfig.InMemoryDB,
			},
		},
		Interpreter: InterpreterConfiguration{
			StatementCacheSize: DefaultStatementCacheSize,
		},
	}
}

// Load attempts to load the config from the default path. Default
// configuration is returned if there is no file there.
func Load() (Config, error) {
	if _, err := os.Stat(DefaultConfigPath); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return LoadFile(DefaultConfigPath)
}

// LoadFile loads config from the provided path. Missing fields keep their
// default values.
func LoadFile(configPath string) (Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	return Decode(configData)
}

// Decode parses YAML configuration rejecting unknown fields.
func Decode(data []byte) (Config, error) {
	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err := decoder.Decode(&config)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.ApplicationConfiguration.DBConfiguration.Type {
	case dbconfig.InMemoryDB, dbconfig.LevelDB, dbconfig.BoltDB:
	default:
		return fmt.Errorf("unknown DB type: %q", c.ApplicationConfiguration.DBConfiguration.Type)
	}
	if c.Interpreter.StatementCacheSize < 0 {
		return fmt.Errorf("negative StatementCacheSize: %d", c.Interpreter.StatementCacheSize)
	}
	return nil
}
