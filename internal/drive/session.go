package drive

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"MecanumDash/internal/device"
	"MecanumDash/internal/model"
	"MecanumDash/internal/parser"
)

// ErrNotConnected is returned when a command is attempted without an open
// serial session. Callers surface this instead of retrying.
var ErrNotConnected = errors.New("serial not connected")

// StopLine is the universal all-zero stop command. It must be sendable at any
// time regardless of other state.
const StopLine = "0,0,0,0"

// Dialer opens a serial device. Tests substitute a mock here.
type Dialer func(port string, baud int) (device.Device, error)

// Session owns one serial connection to the motor controller and all mutable
// drive state: the last-sent line used for de-duplication, the smoothing
// accumulators and the emergency-stop flag. All writes to the device go
// through one mutex so concurrent callers (HTTP handlers, websocket events,
// the background move worker) cannot interleave half-written lines.
type Session struct {
	mu        sync.Mutex
	dev       device.Device
	port      string
	baud      int
	connected bool
	lastSent  string
	estop     bool
	cal       model.Calibration
	calPath   string
	smoother  *Smoother

	moveMu     sync.Mutex
	moveCancel chan struct{}

	// Dialer opens the serial device; defaults to a real port.
	Dialer Dialer

	// Notify, when set, receives status/error events (serial connected,
	// disconnected, write failures). Used by the dashboard to push state to
	// websocket clients.
	Notify func(model.StatusMessage)

	// Ramp parameters for discrete moves.
	RampSteps   int
	RampDelay   time.Duration
	TimePerUnit time.Duration
	MoveSpeed   int
}

// NewSession creates a disconnected session with the given calibration.
// calPath is where an explicit save writes the calibration back.
func NewSession(cal model.Calibration, calPath string) *Session {
	return &Session{
		cal:      cal,
		calPath:  calPath,
		smoother: NewSmoother(),
		Dialer: func(port string, baud int) (device.Device, error) {
			return device.NewSerialDevice(port, baud)
		},
		RampSteps:   4,
		RampDelay:   50 * time.Millisecond,
		TimePerUnit: 30 * time.Millisecond,
		MoveSpeed:   150,
	}
}

// Connect opens the serial port. Connecting again with the same port and baud
// is idempotent; a different port or baud closes the old handle first so the
// session never holds two open devices.
func (s *Session) Connect(port string, baud int) error {
	if port == "" {
		port = s.cal.SerialPort
	}
	if baud <= 0 {
		baud = s.cal.BaudRate
	}

	s.mu.Lock()
	if s.connected && s.port == port && s.baud == baud {
		s.mu.Unlock()
		log.Printf("[drive] already connected to %s at %d baud", port, baud)
		s.notify(model.StatusMessage{Type: "serial_status", Status: "Connected", Port: port,
			Message: fmt.Sprintf("Already connected to %s", port)})
		return nil
	}
	if s.connected {
		log.Printf("[drive] closing %s@%d to connect to %s@%d", s.port, s.baud, port, baud)
		s.closeLocked()
	}

	dev, err := s.Dialer(port, baud)
	if err != nil {
		s.mu.Unlock()
		s.notify(model.StatusMessage{Type: "serial_status", Status: "Error", Port: port,
			Message: fmt.Sprintf("connect failed: %v", err)})
		return fmt.Errorf("connect %s: %w", port, err)
	}

	s.dev = dev
	s.port = port
	s.baud = baud
	s.connected = true
	s.lastSent = ""
	s.mu.Unlock()

	log.Printf("[drive] connected to %s at %d baud", port, baud)
	s.notify(model.StatusMessage{Type: "serial_status", Status: "Connected", Port: port,
		Message: fmt.Sprintf("Connected to %s", port)})
	return nil
}

// Disconnect sends a best-effort final stop, closes the port and clears the
// de-duplication state.
func (s *Session) Disconnect() {
	s.CancelMove()

	s.mu.Lock()
	port := s.port
	if s.connected {
		_ = s.dev.WriteLine(StopLine) // best effort before close
		s.closeLocked()
	}
	s.mu.Unlock()

	log.Printf("[drive] disconnected from %s", port)
	s.notify(model.StatusMessage{Type: "serial_status", Status: "Disconnected", Port: port,
		Message: fmt.Sprintf("Disconnected from %s", port)})
}

// closeLocked closes the device and resets connection state. Caller holds mu.
func (s *Session) closeLocked() {
	if s.dev != nil {
		if err := s.dev.Close(); err != nil {
			log.Printf("[drive] warning: close serial: %v", err)
		}
	}
	s.dev = nil
	s.connected = false
	s.lastSent = ""
}

// Send translates a motion intent and writes the resulting wheel command.
// While the emergency stop is engaged every intent is force-replaced with the
// all-zero command.
func (s *Session) Send(intent model.MotionIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd := WheelSpeeds(intent)
	phys := ApplyCalibration(s.cal, cmd)
	return s.writeLocked(parser.WheelToCSV(phys))
}

// Tick advances the smoother one step toward target and sends the result.
// Used by continuous control: identical consecutive stop lines are suppressed
// by the de-duplication in writeLocked, so releasing all keys sends exactly
// one stop once the ramp-down reaches zero.
func (s *Session) Tick(target model.MotionIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.smoother.Step(target)
	cmd := WheelSpeeds(cur)
	phys := ApplyCalibration(s.cal, cmd)
	return s.writeLocked(parser.WheelToCSV(phys))
}

// TestMotor asks the firmware to run a single motor. The request is validated
// before anything touches the wire.
func (s *Session) TestMotor(req model.TestRequest) error {
	line, err := parser.TestToCSV(req)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(line)
}

// writeLocked formats and writes one line. Caller holds mu. The critical
// section is exactly format-and-write so no caller blocks long.
//
// Rules:
//   - emergency stop replaces any non-stop line with StopLine
//   - identical consecutive stop lines are suppressed to avoid flooding
//   - a write error closes the handle and marks the session disconnected so
//     the next attempt fails fast instead of retrying silently
func (s *Session) writeLocked(line string) error {
	if s.estop && line != StopLine {
		line = StopLine
	}
	if !s.connected {
		return ErrNotConnected
	}
	if line == StopLine && s.lastSent == StopLine {
		return nil
	}
	if err := s.dev.WriteLine(line); err != nil {
		port := s.port
		s.closeLocked()
		log.Printf("[drive] serial write failed on %s: %v", port, err)
		s.notify(model.StatusMessage{Type: "error", Status: "Disconnected", Port: port,
			Message: fmt.Sprintf("serial write failed: %v", err)})
		return fmt.Errorf("serial write: %w", err)
	}
	s.lastSent = line
	return nil
}

// EmergencyStop cancels any running move, zeroes the smoother and writes the
// stop command twice for reliability. All further non-zero intents are
// replaced with stops until Release is called.
func (s *Session) EmergencyStop() {
	s.CancelMove()

	s.mu.Lock()
	s.estop = true
	s.smoother.Reset()
	// Best effort, even if disconnected: the link may partially recover.
	if s.connected {
		s.lastSent = "" // defeat dedupe so the stop actually goes out
		_ = s.writeLocked(StopLine)
		s.lastSent = ""
		_ = s.writeLocked(StopLine)
	}
	s.mu.Unlock()

	log.Printf("[drive] emergency stop engaged")
	s.notify(model.StatusMessage{Type: "serial_status", Status: s.StatusString(), Port: s.Port(),
		Message: "Emergency stop engaged"})
}

// Release clears the emergency stop.
func (s *Session) Release() {
	s.mu.Lock()
	s.estop = false
	s.mu.Unlock()
	log.Printf("[drive] emergency stop released")
}

// Stopped reports whether the emergency stop is engaged.
func (s *Session) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.estop
}

// Connected reports whether the serial session is open.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Port returns the configured or connected serial port path.
func (s *Session) Port() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port != "" {
		return s.port
	}
	return s.cal.SerialPort
}

// StatusString returns "Connected" or "Disconnected" for UI display.
func (s *Session) StatusString() string {
	if s.Connected() {
		return "Connected"
	}
	return "Disconnected"
}

// Calibration returns a copy of the active calibration.
func (s *Session) Calibration() model.Calibration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cal
}

// SetCalibration validates and swaps the active calibration. If the serial
// port or baud changed the session disconnects; the caller must reconnect.
func (s *Session) SetCalibration(cal model.Calibration) error {
	if err := ValidateCalibration(cal); err != nil {
		return err
	}

	s.mu.Lock()
	changed := s.connected && (cal.SerialPort != s.port || cal.BaudRate != s.baud)
	s.cal = cal
	s.mu.Unlock()

	if changed {
		log.Printf("[drive] serial settings changed, closing connection")
		s.Disconnect()
	}
	return nil
}

// SaveCalibration writes the active calibration back to its file.
func (s *Session) SaveCalibration() error {
	return SaveCalibration(s.calPath, s.Calibration())
}

// ResetCalibration restores the default calibration and saves it. The session
// disconnects if the defaults point at a different serial port.
func (s *Session) ResetCalibration() error {
	if err := s.SetCalibration(DefaultCalibration()); err != nil {
		return err
	}
	return s.SaveCalibration()
}

// notify forwards a status message if a listener is attached.
func (s *Session) notify(msg model.StatusMessage) {
	if s.Notify != nil {
		s.Notify(msg)
	}
}
