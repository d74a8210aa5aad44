package app

import (
	"encoding/json"
	"log"
	"net/http"

	"MecanumDash/internal/drive"
	"MecanumDash/internal/model"
)

// apiResponse is the common JSON envelope for action endpoints.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[app] warning: write response: %v", err)
	}
}

func writeResult(w http.ResponseWriter, code int, success bool, msg string) {
	writeJSON(w, code, apiResponse{Success: success, Message: msg})
}

// handleConfig returns the calibration on GET and saves a new one on POST.
func (a *App) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"config":        a.Session.Calibration(),
			"serial_status": a.Session.StatusString(),
		})
	case http.MethodPost:
		var cal model.Calibration
		if err := json.NewDecoder(r.Body).Decode(&cal); err != nil {
			writeResult(w, http.StatusBadRequest, false, "invalid config payload: "+err.Error())
			return
		}
		if err := a.Session.SetCalibration(cal); err != nil {
			writeResult(w, http.StatusBadRequest, false, err.Error())
			return
		}
		if err := a.Session.SaveCalibration(); err != nil {
			writeResult(w, http.StatusInternalServerError, false, "failed to write config file")
			return
		}
		writeResult(w, http.StatusOK, true, "Configuration saved.")
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleResetConfig restores defaults and disconnects any open session.
func (a *App) handleResetConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	log.Printf("[app] resetting calibration to defaults")
	if err := a.Session.ResetCalibration(); err != nil {
		writeResult(w, http.StatusInternalServerError, false, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Configuration reset to defaults.",
		"config":  a.Session.Calibration(),
	})
}

// connectRequest optionally overrides the configured port/baud.
type connectRequest struct {
	Port string `json:"port"`
	Baud int    `json:"baud"`
}

func (a *App) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req connectRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // empty body means use calibration defaults
	}
	if err := a.Session.Connect(req.Port, req.Baud); err != nil {
		writeResult(w, http.StatusBadGateway, false, err.Error())
		return
	}
	writeResult(w, http.StatusOK, true, "Connected to "+a.Session.Port())
}

func (a *App) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.Session.Disconnect()
	writeResult(w, http.StatusOK, true, "Disconnected")
}

func (a *App) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.StatusMessage{
		Type:   "serial_status",
		Status: a.Session.StatusString(),
		Port:   a.Session.Port(),
	})
}

// handleStop engages the emergency stop. The stop command goes out before
// the response is written.
func (a *App) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	log.Printf("[app] emergency stop requested by %s", r.RemoteAddr)
	a.Session.EmergencyStop()
	writeResult(w, http.StatusOK, true, "Emergency stop engaged")
}

func (a *App) handleRelease(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.Session.Release()
	writeResult(w, http.StatusOK, true, "Emergency stop released")
}

// handleMove starts a ramped discrete move in the background.
func (a *App) handleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req model.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, http.StatusBadRequest, false, "invalid move payload: "+err.Error())
		return
	}
	if _, err := a.Session.Move(req); err != nil {
		code := http.StatusBadRequest
		if err == drive.ErrNotConnected {
			code = http.StatusConflict
		}
		writeResult(w, code, false, err.Error())
		return
	}
	writeResult(w, http.StatusAccepted, true, "Move started")
}

// handleTestMotor runs a single motor through the firmware TEST command.
func (a *App) handleTestMotor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req model.TestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResult(w, http.StatusBadRequest, false, "invalid test payload: "+err.Error())
		return
	}
	if req.Speed == 0 {
		req.Speed = 80
	}
	if req.DurationMs == 0 {
		req.DurationMs = 500
	}
	if err := a.Session.TestMotor(req); err != nil {
		code := http.StatusBadRequest
		if err == drive.ErrNotConnected {
			code = http.StatusConflict
		}
		writeResult(w, code, false, err.Error())
		return
	}
	writeResult(w, http.StatusOK, true, "Test command sent")
}
