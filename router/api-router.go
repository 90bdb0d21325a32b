package router

import (
	"rent-hub/controller"
	"rent-hub/middleware"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetRouter(server *gin.Engine) {
	server.Use(middleware.CORS())

	server.GET("/metrics", middleware.MetricsWithBasicAuth(), gin.WrapH(promhttp.Handler()))

	api := server.Group("/api")
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	{
		// Webhook deliveries need the raw body; nothing on this route may
		// consume or re-encode it before the gateway sees it.
		api.POST("/payment/webhook/:provider/:company_id", controller.Webhook)

		api.POST("/payment/checkout", controller.CreateCheckout)

		gateway := api.Group("/gateway")
		{
			gateway.GET("/status", controller.GatewayStatus)
			gateway.GET("/configs", controller.GetGatewayConfigs)
			gateway.POST("/configs", controller.CreateGatewayConfig)
			gateway.DELETE("/configs/:id", controller.DeleteGatewayConfig)
		}
	}
}
