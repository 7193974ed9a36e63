package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/daccred/txbuild.attest.so/controllers"
)

func NewRouter(allowOrigins []string, transactionController *controllers.TransactionController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = allowOrigins
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	cfg.AllowCredentials = true
	cfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(cfg))

	transactionController.RegisterRoutes(r)

	return r
}
