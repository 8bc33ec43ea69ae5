package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/config"
	"github.com/JFrunk/bridge-bidding-app-sub011/internal/server"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	manager := server.NewManager(cfg.SessionTTL, log)
	defer manager.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	server.NewHandler(manager, cfg, log).Register(e)

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := e.Start(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
