package model

import (
	"strings"
	"time"

	"rent-hub/common/config"
	"rent-hub/common/logger"

	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func SetupDB() {
	db, err := chooseDB()
	if err != nil {
		logger.FatalLog("failed to initialize database: " + err.Error())
		return
	}

	DB = db
	sqlDB, err := DB.DB()
	if err != nil {
		logger.FatalLog("failed to connect database: " + err.Error())
		return
	}

	sqlDB.SetMaxIdleConns(viper.GetInt("sql_max_idle_conns"))
	sqlDB.SetMaxOpenConns(viper.GetInt("sql_max_open_conns"))
	sqlDB.SetConnMaxLifetime(time.Second * time.Duration(viper.GetInt("sql_max_lifetime")))

	if err = migrateDB(); err != nil {
		logger.FatalLog("failed to migrate database: " + err.Error())
	}
}

func chooseDB() (*gorm.DB, error) {
	dsn := viper.GetString("sql_dsn")

	gormConfig := &gorm.Config{
		PrepareStmt: true,
	}
	if !config.Debug {
		gormConfig.Logger = gormLogger.Default.LogMode(gormLogger.Silent)
	}

	switch {
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		logger.SysLog("using PostgreSQL as database")
		config.UsingPostgreSQL = true
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}), gormConfig)
	case strings.Contains(dsn, "@tcp("):
		logger.SysLog("using MySQL as database")
		config.UsingMySQL = true
		return gorm.Open(mysql.Open(dsn), gormConfig)
	default:
		logger.SysLog("using SQLite as database")
		config.UsingSQLite = true
		return gorm.Open(sqlite.Open(dsn), gormConfig)
	}
}

func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
