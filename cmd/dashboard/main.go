// Package main is the entry point of the MecanumDash dashboard.
// It loads the configuration, builds the drive session and serves the JSON
// API plus the websocket control channel.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"MecanumDash/internal/app"
	"MecanumDash/internal/drive"
	"MecanumDash/internal/util"
)

// main loads configuration, constructs the session and starts the server.
// The program waits for an interrupt signal and performs graceful shutdown,
// which disconnects the robot and sends a final stop command.
func main() {
	util.SetupLogger()

	cfgPath := flag.String("c", "configs/config.yml", "path to configuration file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	log.Printf("[main] Using config: %s", *cfgPath)

	cfg, err := app.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cal, err := drive.LoadCalibration(cfg.Robot.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load calibration: %v", err)
	}

	session := drive.NewSession(cal, cfg.Robot.ConfigFile)
	a := app.NewApp(cfg, session)

	go func() {
		if err := a.Start(*addr); err != nil {
			log.Fatalf("dashboard server: %v", err)
		}
	}()

	// wait for Ctrl+C or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("[main] Shutting down...")
	a.Stop()
	log.Println("[main] Stopped cleanly.")
}
