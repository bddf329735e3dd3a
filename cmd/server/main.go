package main

import (
	"os"

	"hearthbutler/logger"
	"hearthbutler/route"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger.Init()
	defer logger.Close()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/development.yaml"
	}

	r := gin.Default()
	if err := route.SetupRoutes(r, configPath); err != nil {
		logger.Fatal("server setup failed", zap.Error(err))
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
