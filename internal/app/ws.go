package app

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"MecanumDash/internal/model"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// handleWS upgrades HTTP to websocket, registers the client for status
// broadcasts and reads control events until the client goes away.
func (a *App) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	a.mu.Lock()
	a.clients[conn] = true
	a.mu.Unlock()

	log.Printf("[app] control client connected from %s", r.RemoteAddr)

	// Greet with the current serial state so the UI reflects reality.
	a.send(conn, model.StatusMessage{
		Type:   "serial_status",
		Status: a.Session.StatusString(),
		Port:   a.Session.Port(),
	})

	go func() {
		defer func() {
			a.mu.Lock()
			delete(a.clients, conn)
			a.mu.Unlock()
			if err := conn.Close(); err != nil {
				log.Printf("[app] warning: failed to close websocket: %v", err)
			}
			log.Printf("[app] control client disconnected")
		}()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var ev model.ControlEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				a.send(conn, model.StatusMessage{Type: "error", Message: "invalid control event"})
				continue
			}
			a.dispatch(conn, ev)
		}
	}()
}

// dispatch applies one control event to the drive session. Continuous "move"
// events go through the smoother; discrete direction actions send directly at
// the configured speeds, matching the button-style UI.
func (a *App) dispatch(conn *websocket.Conn, ev model.ControlEvent) {
	spd := a.Cfg.Robot.DefaultSpeed
	turn := a.Cfg.Robot.TurnSpeed

	var err error
	switch ev.Action {
	case "move":
		err = a.Session.Tick(model.MotionIntent{VX: ev.VX, VY: ev.VY, Omega: ev.Omega})
	case "stop":
		err = a.Session.Send(model.MotionIntent{})
	case "forward":
		err = a.Session.Send(model.MotionIntent{VX: spd})
	case "backward":
		err = a.Session.Send(model.MotionIntent{VX: -spd})
	case "left":
		err = a.Session.Send(model.MotionIntent{VY: spd})
	case "right":
		err = a.Session.Send(model.MotionIntent{VY: -spd})
	case "rotate_left":
		err = a.Session.Send(model.MotionIntent{Omega: turn})
	case "rotate_right":
		err = a.Session.Send(model.MotionIntent{Omega: -turn})
	case "diag_fl":
		err = a.Session.Send(model.MotionIntent{VX: spd, VY: spd})
	case "diag_fr":
		err = a.Session.Send(model.MotionIntent{VX: spd, VY: -spd})
	case "diag_rl":
		err = a.Session.Send(model.MotionIntent{VX: -spd, VY: spd})
	case "diag_rr":
		err = a.Session.Send(model.MotionIntent{VX: -spd, VY: -spd})
	default:
		a.send(conn, model.StatusMessage{Type: "error", Message: "invalid control action: " + ev.Action})
		return
	}

	if err != nil {
		a.send(conn, model.StatusMessage{Type: "error", Message: err.Error()})
	}
}

// send writes one message to a single client.
func (a *App) send(conn *websocket.Conn, msg model.StatusMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

// broadcast sends a status message to all connected websocket clients.
// Wired as the drive session's Notify callback.
func (a *App) broadcast(msg model.StatusMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for c := range a.clients {
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}
