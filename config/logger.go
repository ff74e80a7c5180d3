package config

import (
	"github.com/eaugeas/bstree/logs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LoggerConfig is the Binder for the logging flags shared by
// all the binaries
type LoggerConfig struct {
	Level  logrus.Level
	Format string
}

// Bind is the implementation of Binder for LoggerConfig
func (c *LoggerConfig) Bind(v *viper.Viper, cmd *cobra.Command) error {
	cmd.PersistentFlags().String("logging.level", "info", "minimum level of the logged messages")
	cmd.PersistentFlags().String("logging.format", "json", "format of the logs, json or text")
	return nil
}

// Configure is the implementation of Binder for LoggerConfig
func (c *LoggerConfig) Configure(v *viper.Viper) error {
	level, err := logrus.ParseLevel(v.GetString("logging.level"))
	if err != nil {
		return errors.Wrap(err, "invalid logging level")
	}

	format := v.GetString("logging.format")
	if format != "json" && format != "text" {
		return errors.Errorf("invalid logging format %q", format)
	}

	c.Level = level
	c.Format = format
	return nil
}

// Logger builds the logger described by the configuration
func (c *LoggerConfig) Logger() logs.Logger {
	var formatter logrus.Formatter = &logrus.JSONFormatter{}
	if c.Format == "text" {
		formatter = &logrus.TextFormatter{DisableColors: true}
	}

	return logs.NewLogrus(logs.LogrusLoggerProperties{
		Level:     c.Level,
		Formatter: formatter,
	})
}
