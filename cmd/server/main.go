package main

import (
	"log"

	_ "taskmarket/docs"
	"taskmarket/internal/config"
	"taskmarket/internal/server"
)

// @title           Task Market API
// @version         1.0
// @description     API for a freelance task marketplace: posting tasks, replying with proposals, and rating counterparties.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
