package main

import (
	"strings"

	"github.com/penny-vault/jtmomentum/cmd"

	"github.com/spf13/viper"
)

func configureViper() {
	// config file locations; the file itself is read once flags are parsed
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath("/etc/jtmomentum/")
	viper.AddConfigPath("$HOME/.config/jtmomentum")
	viper.AddConfigPath(".")

	// JT_STUDY_ANALYSIS_PERIOD, JT_COLUMNS_SECURITY, ...
	viper.SetEnvPrefix("JT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func main() {
	configureViper()
	cmd.Execute()
}
