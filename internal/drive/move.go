package drive

import (
	"errors"
	"fmt"
	"log"
	"time"

	"MecanumDash/internal/model"
)

// ErrMoveInProgress is returned when a ramped move is requested while another
// one is still running.
var ErrMoveInProgress = errors.New("move already in progress")

// Move runs a ramped discrete move in the background: speed ramps up over
// RampSteps steps with RampDelay between each, holds at the commanded speed
// for units*TimePerUnit, ramps back down and stops. The returned channel is
// closed when the sequence (including the final stop) has finished.
//
// The sequence checks for cancellation between every step and during the
// full-speed hold, so CancelMove or EmergencyStop takes effect immediately,
// mid-ramp.
func (s *Session) Move(req model.MoveRequest) (<-chan struct{}, error) {
	if req.Units <= 0 {
		return nil, fmt.Errorf("invalid move units %d", req.Units)
	}
	target := model.MotionIntent{VX: req.VX, VY: req.VY, Omega: req.Omega}
	if target.IsZero() {
		return nil, errors.New("move needs a non-zero direction")
	}
	if !s.Connected() {
		return nil, ErrNotConnected
	}
	if s.Stopped() {
		return nil, errors.New("emergency stop engaged")
	}

	s.moveMu.Lock()
	if s.moveCancel != nil {
		s.moveMu.Unlock()
		return nil, ErrMoveInProgress
	}
	cancel := make(chan struct{})
	s.moveCancel = cancel
	s.moveMu.Unlock()

	done := make(chan struct{})
	go s.runMove(target, req.Units, cancel, done)
	return done, nil
}

// CancelMove aborts a running move sequence and immediately issues a stop
// through the lock-guarded writer, regardless of what the background worker
// is doing.
func (s *Session) CancelMove() {
	s.moveMu.Lock()
	if s.moveCancel != nil {
		close(s.moveCancel)
		s.moveCancel = nil
	}
	s.moveMu.Unlock()

	s.mu.Lock()
	if s.connected {
		s.lastSent = "" // force the stop out even if one was just sent
		_ = s.writeLocked(StopLine)
	}
	s.mu.Unlock()
}

// MoveActive reports whether a ramped move is currently running.
func (s *Session) MoveActive() bool {
	s.moveMu.Lock()
	defer s.moveMu.Unlock()
	return s.moveCancel != nil
}

func (s *Session) runMove(target model.MotionIntent, units int, cancel chan struct{}, done chan<- struct{}) {
	defer func() {
		s.moveMu.Lock()
		if s.moveCancel == cancel {
			s.moveCancel = nil
		}
		s.moveMu.Unlock()

		if err := s.Send(model.MotionIntent{}); err != nil && !errors.Is(err, ErrNotConnected) {
			log.Printf("[drive] move: final stop failed: %v", err)
		}
		close(done)
	}()

	holdFor := time.Duration(units) * s.TimePerUnit

	// Ramp up
	for step := 1; step <= s.RampSteps; step++ {
		if cancelled(cancel) {
			return
		}
		if err := s.Send(scaleIntent(target, step, s.RampSteps)); err != nil {
			log.Printf("[drive] move aborted during ramp up: %v", err)
			return
		}
		if !sleepInterruptible(s.RampDelay, cancel) {
			return
		}
	}

	// Full speed hold
	if err := s.Send(target); err != nil {
		log.Printf("[drive] move aborted at full speed: %v", err)
		return
	}
	if !sleepInterruptible(holdFor, cancel) {
		return
	}

	// Ramp down
	for step := s.RampSteps - 1; step >= 0; step-- {
		if cancelled(cancel) {
			return
		}
		if err := s.Send(scaleIntent(target, step, s.RampSteps)); err != nil {
			log.Printf("[drive] move aborted during ramp down: %v", err)
			return
		}
		if !sleepInterruptible(s.RampDelay, cancel) {
			return
		}
	}
}

// scaleIntent scales all three axes by step/steps.
func scaleIntent(in model.MotionIntent, step, steps int) model.MotionIntent {
	return model.MotionIntent{
		VX:    in.VX * step / steps,
		VY:    in.VY * step / steps,
		Omega: in.Omega * step / steps,
	}
}

// sleepInterruptible sleeps for d but wakes immediately on cancellation.
// Reports false if cancelled.
func sleepInterruptible(d time.Duration, cancel <-chan struct{}) bool {
	select {
	case <-time.After(d):
		return true
	case <-cancel:
		return false
	}
}

func cancelled(cancel <-chan struct{}) bool {
	select {
	case <-cancel:
		return true
	default:
		return false
	}
}
