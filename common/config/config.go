package config

import (
	"strings"

	"github.com/spf13/viper"
)

var Version = "v1.2.0"

var Debug = false

// Database driver flags, set by model.SetupDB from the DSN.
var (
	UsingSQLite     = false
	UsingPostgreSQL = false
	UsingMySQL      = false
)

const (
	ItemsPerPage   = 10
	MaxRecentItems = 100
)

func InitConf() {
	defaultConfig()
	setEnv()

	if viper.GetBool("debug") {
		Debug = true
	}
}

func setEnv() {
	viper.SetEnvPrefix("renthub")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func defaultConfig() {
	viper.SetDefault("port", 3000)
	viper.SetDefault("gin_mode", "release")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_dir", "./logs")
	viper.SetDefault("sql_dsn", "rent-hub.db")
	viper.SetDefault("sql_max_idle_conns", 100)
	viper.SetDefault("sql_max_open_conns", 1000)
	viper.SetDefault("sql_max_lifetime", 60)
	viper.SetDefault("gateway_timeout", 30)
	viper.SetDefault("metrics.user", "")
	viper.SetDefault("metrics.password", "")
}
