package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms/config"
	"lms/database"
	"lms/server"
	"lms/utils"
)

func main() {
	config.LoadConfig()
	utils.InitErrorReporting(config.AppConfig)
	defer utils.FlushErrorReporting()

	database.ConnectDb()
	if err := database.SeedDefaults(database.Database.Db); err != nil {
		log.Fatalf("Failed to seed defaults: %v", err)
	}

	scheduler := utils.InitializeScheduler(config.AppConfig)

	app := server.NewApp(config.AppConfig)

	go func() {
		log.Printf("Server is running on port %s", config.AppConfig.Port)
		if err := app.Listen(":" + config.AppConfig.Port); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	<-scheduler.Stop().Done()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	database.Close()
}
