package main

import (
	"rent-hub/cli"
	"rent-hub/common/config"
	"rent-hub/common/logger"
	"rent-hub/middleware"
	"rent-hub/model"
	"rent-hub/router"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

func main() {
	cli.InitCli()
	config.InitConf()
	if viper.GetString("log_level") == "debug" {
		config.Debug = true
	}

	logger.SetupLogger()
	logger.SysLog("Rent Hub " + config.Version + " started")

	model.SetupDB()
	defer model.CloseDB()

	initHttpServer()
}

func initHttpServer() {
	if viper.GetString("gin_mode") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := gin.New()
	server.Use(gin.Recovery())
	server.Use(middleware.RequestId())
	middleware.SetUpLogger(server)

	trustedHeader := viper.GetString("trusted_header")
	if trustedHeader != "" {
		server.TrustedPlatform = trustedHeader
	}

	router.SetRouter(server)
	port := viper.GetString("port")

	err := server.Run(":" + port)
	if err != nil {
		logger.FatalLog("failed to start HTTP server: " + err.Error())
	}
}
