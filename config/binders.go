package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var osArgs = func() []string {
	return os.Args[1:]
}

// ErrAlreadyParsed is returned when a Parser is asked to parse twice
var ErrAlreadyParsed = errors.New("flags already parsed")

// ErrParseFlags is returned when the command line cannot be parsed
type ErrParseFlags struct {
	Cause error
}

// Error is the implementation of go's error interface for ErrParseFlags
func (e ErrParseFlags) Error() string {
	return "failed to parse flags: " + e.Cause.Error()
}

// ConfigFile is the Binder for the --config flag. When set, the
// file is read and its values become the defaults of every
// other flag
type ConfigFile struct {
	Path string
}

// Bind is the implementation of Binder for ConfigFile
func (c *ConfigFile) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String("config", "",
		"path to a yaml, json or toml file with the configuration")
	return nil
}

// Configure is the implementation of Binder for ConfigFile
func (c *ConfigFile) Configure(v *viper.Viper) error {
	c.Path = v.GetString("config")
	if c.Path == "" {
		return nil
	}

	v.SetConfigFile(c.Path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", c.Path)
	}

	return nil
}
