// Package parser converts the motor controller wire format to structured
// types and vice-versa.
//
// Drive wire format (host -> firmware):
//
//	FL,FR,RL,RR
//
// where each value is a base-10 signed PWM integer in [-255,255].
// The line order FL,FR,RL,RR is a contract with the Arduino firmware and
// must not change.
//
// Motor test wire format (host -> firmware):
//
//	TEST,INDEX,SPEED,DURATION_MS
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"MecanumDash/internal/model"
)

// MaxSpeed is the PWM magnitude limit accepted by the firmware.
const MaxSpeed = 255

// NumMotors is the number of physical motor channels on the controller.
const NumMotors = 4

// WheelToCSV converts a WheelCommand into the CSV line sent over serial.
// Format: FL,FR,RL,RR
func WheelToCSV(w model.WheelCommand) string {
	return fmt.Sprintf("%d,%d,%d,%d", w.FrontLeft, w.FrontRight, w.RearLeft, w.RearRight)
}

// ParseWheelCSV parses a CSV drive line back into a WheelCommand.
// Returns error on invalid format or out-of-range values.
func ParseWheelCSV(line string) (model.WheelCommand, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 4 {
		return model.WheelCommand{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}

	vals := make([]int, 4)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return model.WheelCommand{}, fmt.Errorf("invalid wheel speed %q", f)
		}
		if v < -MaxSpeed || v > MaxSpeed {
			return model.WheelCommand{}, fmt.Errorf("wheel speed %d out of range", v)
		}
		vals[i] = v
	}

	return model.WheelCommand{
		FrontLeft:  vals[0],
		FrontRight: vals[1],
		RearLeft:   vals[2],
		RearRight:  vals[3],
	}, nil
}

// TestToCSV converts a single-motor test request into the CSV line sent over
// serial. Format: TEST,INDEX,SPEED,DURATION_MS
func TestToCSV(t model.TestRequest) (string, error) {
	if t.Index < 0 || t.Index >= NumMotors {
		return "", fmt.Errorf("motor index %d out of range 0-%d", t.Index, NumMotors-1)
	}
	if t.Speed < -MaxSpeed || t.Speed > MaxSpeed {
		return "", fmt.Errorf("test speed %d out of range", t.Speed)
	}
	if t.DurationMs <= 0 {
		return "", errors.New("test duration must be positive")
	}
	return fmt.Sprintf("TEST,%d,%d,%d", t.Index, t.Speed, t.DurationMs), nil
}

// ParseTestCSV parses a TEST line back into a TestRequest.
func ParseTestCSV(line string) (model.TestRequest, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 4 || fields[0] != "TEST" {
		return model.TestRequest{}, errors.New("not a TEST command")
	}

	idx, err := strconv.Atoi(fields[1])
	if err != nil {
		return model.TestRequest{}, errors.New("invalid motor index")
	}
	spd, err := strconv.Atoi(fields[2])
	if err != nil {
		return model.TestRequest{}, errors.New("invalid speed")
	}
	dur, err := strconv.Atoi(fields[3])
	if err != nil {
		return model.TestRequest{}, errors.New("invalid duration")
	}

	t := model.TestRequest{Index: idx, Speed: spd, DurationMs: dur}
	if _, err := TestToCSV(t); err != nil {
		return model.TestRequest{}, err
	}
	return t, nil
}
