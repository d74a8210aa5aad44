package app

// registerRoutes sets up all HTTP handlers for the application.
func (a *App) registerRoutes() {
	// Config
	a.Mux.HandleFunc("/api/config", a.handleConfig)
	a.Mux.HandleFunc("/api/config/reset", a.handleResetConfig)

	// Serial session
	a.Mux.HandleFunc("/api/connect", a.handleConnect)
	a.Mux.HandleFunc("/api/disconnect", a.handleDisconnect)
	a.Mux.HandleFunc("/api/status", a.handleStatus)

	// Motion
	a.Mux.HandleFunc("/api/stop", a.handleStop)
	a.Mux.HandleFunc("/api/release", a.handleRelease)
	a.Mux.HandleFunc("/api/move", a.handleMove)
	a.Mux.HandleFunc("/api/test_motor", a.handleTestMotor)

	// Live control channel
	a.Mux.HandleFunc("/ws", a.handleWS)
}
