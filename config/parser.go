package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the configuration of an application. Each of its
// Binders is responsible for a group of flags
type Config interface {
	Use() string
	EnvPrefix() string
	Binders() []Binder
}

// Binder defines a group of flags and reads back their values
type Binder interface {
	// Bind defines the flags on the command and binds them
	// to the viper instance
	Bind(v *viper.Viper, cmd *cobra.Command) error

	// Configure reads the values of the flags once they
	// have been parsed
	Configure(v *viper.Viper) error
}

// Parser parses the command line arguments, the environment
// and the configuration file into a Config
type Parser struct {
	Config Config

	file *ConfigFile

	cmd *cobra.Command
	v   *viper.Viper
}

// Parse parses the arguments of the process
func (p *Parser) Parse() error {
	return p.ParseArgs(osArgs())
}

// ParseArgs parses args, which must not include the name of
// the program. A Parser can only parse once
func (p *Parser) ParseArgs(args []string) error {
	if p.cmd.PersistentFlags().Parsed() {
		return ErrAlreadyParsed
	}

	if err := p.cmd.PersistentFlags().Parse(args); err != nil {
		return ErrParseFlags{err}
	}

	// keep file first so that any parameters read from the file are used
	// as defaults for the other flags
	var binders []Binder
	binders = append(binders, p.file)
	binders = append(binders, p.Config.Binders()...)

	for _, c := range binders {
		if err := c.Configure(p.v); err != nil {
			return err
		}
	}

	return nil
}

// Usage prints the usage of the command
func (p *Parser) Usage() error {
	return p.cmd.Usage()
}

// Generate creates a parser for config. Environment variables
// start with the prefix returned by config.EnvPrefix
func Generate(app string, config Config) (*Parser, error) {
	v := viper.New()
	// all environment variables start with prefix `prefix` and are set
	// by replacing `.` and `-` to _.
	v.SetEnvPrefix(config.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{Use: app}
	if use := config.Use(); use != "" {
		cmd.Short = use
	}

	file := ConfigFile{}
	var binders []Binder
	binders = append(binders, &file)
	binders = append(binders, config.Binders()...)

	for _, c := range binders {
		if err := c.Bind(v, cmd); err != nil {
			return nil, errors.Wrap(err, "failed to bind flags")
		}
	}

	if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
		return nil, errors.Wrap(err, "failed to bind flags")
	}

	return &Parser{file: &file, Config: config, cmd: cmd, v: v}, nil
}
