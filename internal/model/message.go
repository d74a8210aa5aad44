// Package model defines shared message structures for MecanumDash.
package model

// MotionIntent is a high-level motion request built per control tick from
// UI input and discarded after translation. Sign convention:
// positive VX = forward, positive VY = strafe left, positive Omega = rotate
// counter-clockwise. Each value is nominally in [-255,255].
type MotionIntent struct {
	VX    int `json:"vx"`
	VY    int `json:"vy"`
	Omega int `json:"omega"`
}

// IsZero reports whether the intent commands no motion on any axis.
func (m MotionIntent) IsZero() bool {
	return m.VX == 0 && m.VY == 0 && m.Omega == 0
}

// WheelCommand holds four signed PWM values in [-255,255].
// Order matches the Arduino firmware: FL, FR, RL, RR.
type WheelCommand struct {
	FrontLeft  int `json:"front_left"`
	FrontRight int `json:"front_right"`
	RearLeft   int `json:"rear_left"`
	RearRight  int `json:"rear_right"`
}

// IsStop reports whether the command is the universal all-zero stop.
func (w WheelCommand) IsStop() bool {
	return w.FrontLeft == 0 && w.FrontRight == 0 && w.RearLeft == 0 && w.RearRight == 0
}

// ControlEvent is received from the dashboard over the websocket.
// Action is one of: move, stop, forward, backward, left, right,
// rotate_left, rotate_right, diag_fl, diag_fr, diag_rl, diag_rr.
type ControlEvent struct {
	Action string `json:"action"`
	VX     int    `json:"vx"`
	VY     int    `json:"vy"`
	Omega  int    `json:"omega"`
}

// StatusMessage is broadcast to websocket clients whenever the serial
// connection state changes or an error happens.
type StatusMessage struct {
	Type    string `json:"type"`   // "serial_status" or "error"
	Status  string `json:"status"` // "Connected", "Disconnected", "Error"
	Port    string `json:"port,omitempty"`
	Message string `json:"message,omitempty"`
}

// MoveRequest asks for a ramped discrete move of a number of units in a
// fixed direction.
type MoveRequest struct {
	VX    int `json:"vx"`
	VY    int `json:"vy"`
	Omega int `json:"omega"`
	Units int `json:"units"`
}

// TestRequest asks the firmware to run a single motor.
type TestRequest struct {
	Index      int `json:"index"`
	Speed      int `json:"speed"`
	DurationMs int `json:"duration_ms"`
}
