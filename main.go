package main

import (
	"encoding/gob"
	"log"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/controllers"
	"github.com/synergyx/agency-api/gateway"
	"github.com/synergyx/agency-api/routes"
	"github.com/synergyx/agency-api/utils"
)

func main() {
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Register types for session serialization
	gob.Register(controllers.RegistrationData{})

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	config.InitDB()

	if err := config.SeedProducts(); err != nil {
		utils.LogError("Failed to seed service catalog: %v", err)
		log.Fatal("Failed to seed service catalog:", err)
	}

	controllers.CreateDefaultAdmin()

	config.InitGoogleOAuth()

	if err := gateway.Init(cfg.PayPalClientID, cfg.PayPalClientSecret, cfg.PayPalMode); err != nil {
		utils.LogError("Failed to initialize PayPal gateway: %v", err)
		log.Fatal("Failed to initialize PayPal gateway:", err)
	}

	router := routes.SetupRouter()

	utils.LogInfo("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
