// Package app implements the dashboard server and API layer for MecanumDash.
// It exposes a JSON API and a websocket control channel; motion intents come
// in over the websocket and status/error notifications go back out.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"gopkg.in/yaml.v3"

	"MecanumDash/internal/drive"
	"MecanumDash/internal/model"
)

type App struct {
	Session *drive.Session
	Cfg     model.Config
	Mux     *http.ServeMux
	Server  *http.Server

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewApp wires the drive session into the HTTP mux and subscribes to its
// status notifications so every websocket client sees connection changes.
func NewApp(cfg model.Config, session *drive.Session) *App {
	a := &App{
		Session: session,
		Cfg:     cfg,
		Mux:     http.NewServeMux(),
		clients: map[*websocket.Conn]bool{},
	}
	session.Notify = a.broadcast
	a.registerRoutes()
	return a
}

// LoadConfig reads the YAML system config at path.
func LoadConfig(path string) (model.Config, error) {
	var cfg model.Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("[app] read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("[app] parse config %s: %w", path, err)
	}
	if cfg.Dashboard.ListenAddr == "" {
		cfg.Dashboard.ListenAddr = ":8080"
	}
	if cfg.Robot.ConfigFile == "" {
		cfg.Robot.ConfigFile = "mecanum_config.json"
	}
	if cfg.Robot.DefaultSpeed == 0 {
		cfg.Robot.DefaultSpeed = 150
	}
	if cfg.Robot.TurnSpeed == 0 {
		cfg.Robot.TurnSpeed = 120
	}
	return cfg, nil
}

// Start launches the dashboard server and blocks until stopped.
func (a *App) Start(addr string) error {
	if addr == "" {
		addr = a.Cfg.Dashboard.ListenAddr
	}

	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	a.Server = &http.Server{
		Addr:    addr,
		Handler: a.Mux,
	}

	log.Printf("[app] Dashboard listening at http://%s", addr)

	if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("[app] HTTP server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the server and disconnects the robot, which also
// sends the final stop command.
func (a *App) Stop() {
	if a == nil {
		return
	}

	if a.Server != nil {
		log.Println("[app] Shutting down dashboard...")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.Server.Shutdown(ctx); err != nil {
			log.Printf("[app] HTTP server shutdown error: %v", err)
		} else {
			log.Println("[app] Dashboard stopped cleanly")
		}
	}

	if a.Session != nil && a.Session.Connected() {
		a.Session.Disconnect()
	}
}
