package bootstrap

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"thoreinstein.com/census/pkg/config"
)

// LocalConfigName is the workspace-local config file merged over the user config.
const LocalConfigName = ".census.toml"

// Loader resolves configuration sources. Fields are overridable in tests.
type Loader struct {
	HomeDir func() (string, error)
	WorkDir func() (string, error)
	Logger  *logrus.Logger
}

// NewLoader creates a loader using the real home and working directories.
func NewLoader(logger *logrus.Logger) *Loader {
	return &Loader{
		HomeDir: os.UserHomeDir,
		WorkDir: os.Getwd,
		Logger:  logger,
	}
}

// InitConfig reads in config file and ENV variables if set.
func (l *Loader) InitConfig(cfgFile string) (*config.Config, error) {
	// Reset Viper state to avoid carrying over stale settings from previous loads.
	viper.Reset()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := l.HomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get home directory")
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "census"))
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer())
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit --config must exist; the default location is optional.
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrapf(err, "failed to read config file")
		}
	} else {
		l.log().WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}

	l.LoadLocalConfig()

	return config.Load()
}

// LoadLocalConfig merges .census.toml from the current directory if present.
func (l *Loader) LoadLocalConfig() {
	cwd, err := l.WorkDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(cwd, LocalConfigName)
	if _, err := os.Stat(configPath); err != nil {
		return
	}

	log := l.log().WithField("file", configPath)

	localViper := viper.New()
	localViper.SetConfigFile(configPath)
	localViper.SetConfigType("toml")
	if err := localViper.ReadInConfig(); err != nil {
		log.WithError(err).Warn("could not read local config")
		return
	}

	if err := viper.MergeConfigMap(localViper.AllSettings()); err != nil {
		log.WithError(err).Warn("could not merge local config")
		return
	}
	log.Debug("using workspace config")
}

func (l *Loader) log() *logrus.Logger {
	if l.Logger == nil {
		return logrus.StandardLogger()
	}
	return l.Logger
}
