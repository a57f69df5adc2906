// Package config initializes viper-backed configuration and constructs the
// service from it.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wedaren/issue-manager/pkg/service"
)

var cfgFile string

// InitConfig wires viper: config file, environment, defaults.
func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "issue-manager")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("IM")

	home, _ := os.UserHomeDir()
	viper.SetDefault("root", filepath.Join(home, "issues"))
	viper.SetDefault("data_dir", filepath.Join(home, ".local", "share", "issue-manager"))
	viper.SetDefault("editor", os.Getenv("EDITOR"))
	viper.SetDefault("quiet_period", "300ms")
	viper.SetDefault("recent_limit", 20)

	// A missing config file is fine; defaults and env carry local mode.
	_ = viper.ReadInConfig()
}

// NewLogger returns the standard stderr logger, quiet unless something is
// wrong.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	return log
}

// InitService builds the service from the active configuration.
func InitService(log *logrus.Logger) (*service.Service, error) {
	quiet, err := time.ParseDuration(viper.GetString("quiet_period"))
	if err != nil {
		quiet = 0
	}

	cfg := &service.Config{
		Root:        viper.GetString("root"),
		DataDir:     viper.GetString("data_dir"),
		Editor:      viper.GetString("editor"),
		QuietPeriod: quiet,
		RecentLimit: viper.GetInt("recent_limit"),
	}
	return service.New(cfg, log)
}

// AddGlobalFlags registers the persistent flags shared by every command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/issue-manager/config.yaml)")
	cmd.PersistentFlags().StringP("root", "R", "", "override the note root directory")
	_ = viper.BindPFlag("root", cmd.PersistentFlags().Lookup("root"))
}
