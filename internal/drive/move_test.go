package drive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MecanumDash/internal/model"
)

// fastRamp shrinks the ramp timing so move tests run in milliseconds.
func fastRamp(s *Session) {
	s.RampSteps = 4
	s.RampDelay = 5 * time.Millisecond
	s.TimePerUnit = 5 * time.Millisecond
}

func TestMoveRampsUpHoldsAndRampsDown(t *testing.T) {
	s, mock := newTestSession(t)
	fastRamp(s)

	done, err := s.Move(model.MoveRequest{VX: 200, Units: 4})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("move did not finish")
	}

	lines := mock.Lines()
	require.NotEmpty(t, lines)

	// ramp up: 50, 100, 150, 200
	assert.Equal(t, "50,50,50,50", lines[0])
	assert.Equal(t, "200,200,200,200", lines[3])
	// final command is the stop
	assert.Equal(t, StopLine, lines[len(lines)-1])
	assert.False(t, s.MoveActive())
}

func TestMoveCancellationLatency(t *testing.T) {
	s, mock := newTestSession(t)
	s.RampSteps = 4
	s.RampDelay = 40 * time.Millisecond
	s.TimePerUnit = 40 * time.Millisecond

	done, err := s.Move(model.MoveRequest{VX: 200, Units: 100}) // would hold for 4s
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond) // land mid-ramp
	start := time.Now()
	s.CancelMove()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("cancellation was not observed within one polling interval")
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	lines := mock.Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, StopLine, lines[len(lines)-1])
}

func TestMoveRejectsSecondConcurrentMove(t *testing.T) {
	s, _ := newTestSession(t)
	fastRamp(s)

	done, err := s.Move(model.MoveRequest{VX: 100, Units: 20})
	require.NoError(t, err)

	_, err = s.Move(model.MoveRequest{VX: 100, Units: 1})
	assert.ErrorIs(t, err, ErrMoveInProgress)

	s.CancelMove()
	<-done
}

func TestMoveValidation(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Move(model.MoveRequest{VX: 100, Units: 0})
	assert.Error(t, err)

	_, err = s.Move(model.MoveRequest{Units: 3})
	assert.Error(t, err, "zero direction is not a move")

	disconnected := NewSession(DefaultCalibration(), "")
	_, err = disconnected.Move(model.MoveRequest{VX: 100, Units: 1})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestMoveBlockedDuringEmergencyStop(t *testing.T) {
	s, _ := newTestSession(t)
	fastRamp(s)

	s.EmergencyStop()
	_, err := s.Move(model.MoveRequest{VX: 100, Units: 1})
	assert.Error(t, err)
}

func TestEmergencyStopCancelsRunningMove(t *testing.T) {
	s, mock := newTestSession(t)
	s.RampSteps = 4
	s.RampDelay = 30 * time.Millisecond
	s.TimePerUnit = 100 * time.Millisecond

	done, err := s.Move(model.MoveRequest{VX: 200, Units: 50})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	s.EmergencyStop()

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("emergency stop did not cancel the move promptly")
	}

	lines := mock.Lines()
	assert.Equal(t, StopLine, lines[len(lines)-1])
}
