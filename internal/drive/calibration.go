// Calibration handling for the drive package: loading and saving the JSON
// calibration file and applying per-wheel correction to a wheel command.
package drive

import (
	"encoding/json"
	"fmt"
	"os"

	"MecanumDash/internal/model"
	"MecanumDash/internal/parser"
)

// Logical wheel names used as keys in the calibration file. The order here
// matches the wire order expected by the firmware.
var WheelNames = []string{"front_left", "front_right", "rear_left", "rear_right"}

// DefaultCalibration returns the calibration used when no file exists:
// identity mapping, unit multipliers and a pass-through deadzone range.
func DefaultCalibration() model.Calibration {
	return model.Calibration{
		SerialPort: "/dev/ttyACM0",
		BaudRate:   9600,
		Mapping: map[string]int{
			"front_left": 0, "front_right": 1, "rear_left": 2, "rear_right": 3,
		},
		Calibration: map[string]float64{
			"front_left": 1.0, "front_right": 1.0, "rear_left": 1.0, "rear_right": 1.0,
		},
		Scaling: model.ScalingConfig{DeadzoneMin: 0, DeadzoneMax: MaxSpeed},
	}
}

// LoadCalibration reads the calibration file at path, merging missing keys
// with defaults. If the file does not exist, defaults are written to path and
// returned.
func LoadCalibration(path string) (model.Calibration, error) {
	def := DefaultCalibration()

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if werr := SaveCalibration(path, def); werr != nil {
			return def, fmt.Errorf("write default calibration: %w", werr)
		}
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("read calibration %s: %w", path, err)
	}

	var cal model.Calibration
	if err := json.Unmarshal(b, &cal); err != nil {
		return def, fmt.Errorf("parse calibration %s: %w", path, err)
	}

	// Merge with defaults so a partial file still yields a usable config.
	if cal.SerialPort == "" {
		cal.SerialPort = def.SerialPort
	}
	if cal.BaudRate == 0 {
		cal.BaudRate = def.BaudRate
	}
	if cal.Mapping == nil {
		cal.Mapping = def.Mapping
	}
	if cal.Calibration == nil {
		cal.Calibration = def.Calibration
	}
	for _, name := range WheelNames {
		if _, ok := cal.Mapping[name]; !ok {
			cal.Mapping[name] = def.Mapping[name]
		}
		if _, ok := cal.Calibration[name]; !ok {
			cal.Calibration[name] = 1.0
		}
	}
	if cal.Scaling.DeadzoneMax == 0 {
		cal.Scaling = def.Scaling
	}

	if err := ValidateCalibration(cal); err != nil {
		return def, err
	}
	return cal, nil
}

// SaveCalibration writes the calibration file as indented JSON.
func SaveCalibration(path string, cal model.Calibration) error {
	b, err := json.MarshalIndent(cal, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("save calibration %s: %w", path, err)
	}
	return nil
}

// ValidateCalibration rejects configs that could put malformed data on the
// wire: out-of-range motor indices, duplicate indices, inverted deadzone.
func ValidateCalibration(cal model.Calibration) error {
	seen := map[int]string{}
	for _, name := range WheelNames {
		idx, ok := cal.Mapping[name]
		if !ok || idx == -1 {
			continue // unmapped wheel stays at zero
		}
		if idx < 0 || idx >= parser.NumMotors {
			return fmt.Errorf("motor index %d for %s out of range 0-%d", idx, name, parser.NumMotors-1)
		}
		if other, dup := seen[idx]; dup {
			return fmt.Errorf("motor index %d mapped to both %s and %s", idx, other, name)
		}
		seen[idx] = name
	}
	if cal.BaudRate <= 0 {
		return fmt.Errorf("invalid baud rate %d", cal.BaudRate)
	}
	s := cal.Scaling
	if s.DeadzoneMin < 0 || s.DeadzoneMax > MaxSpeed || s.DeadzoneMin >= s.DeadzoneMax {
		return fmt.Errorf("invalid deadzone range [%d,%d]", s.DeadzoneMin, s.DeadzoneMax)
	}
	return nil
}

// ApplyCalibration maps logical wheel speeds to physical motor slots,
// applying the per-wheel multiplier and the deadzone remap. The returned
// command is in wire order (physical slots 0..3).
func ApplyCalibration(cal model.Calibration, cmd model.WheelCommand) model.WheelCommand {
	logical := map[string]int{
		"front_left":  cmd.FrontLeft,
		"front_right": cmd.FrontRight,
		"rear_left":   cmd.RearLeft,
		"rear_right":  cmd.RearRight,
	}

	var phys [parser.NumMotors]int
	for _, name := range WheelNames {
		idx, ok := cal.Mapping[name]
		if !ok || idx < 0 || idx >= parser.NumMotors {
			continue // unmapped wheel, motor stays at zero
		}
		factor, ok := cal.Calibration[name]
		if !ok {
			factor = 1.0
		}
		calibrated := int(float64(logical[name])*factor + signOf(logical[name])*0.5) // round half away from zero
		scaled := scaleSpeed(calibrated, cal.Scaling.DeadzoneMin, cal.Scaling.DeadzoneMax)
		phys[idx] = clampSpeed(scaled)
	}

	return model.WheelCommand{
		FrontLeft:  phys[0],
		FrontRight: phys[1],
		RearLeft:   phys[2],
		RearRight:  phys[3],
	}
}

// scaleSpeed remaps a non-zero magnitude from [1,MaxSpeed] into
// [deadzoneMin,deadzoneMax] so motors that stall below some minimum PWM still
// move at low commanded speeds. A genuine stop (speed 0) always maps to 0.
func scaleSpeed(speed, deadzoneMin, deadzoneMax int) int {
	if speed == 0 {
		return 0
	}
	if deadzoneMin <= 0 && deadzoneMax >= MaxSpeed {
		return speed // full range configured, nothing to remap
	}
	sign := 1
	if speed < 0 {
		sign = -1
	}
	abs := speed * sign

	if deadzoneMin < 0 {
		deadzoneMin = 0
	}
	if deadzoneMin > MaxSpeed-1 {
		deadzoneMin = MaxSpeed - 1
	}
	if deadzoneMax < deadzoneMin+1 {
		deadzoneMax = deadzoneMin + 1
	}
	if deadzoneMax > MaxSpeed {
		deadzoneMax = MaxSpeed
	}

	scaled := deadzoneMin + (abs-1)*(deadzoneMax-deadzoneMin)/(MaxSpeed-1)
	if scaled < deadzoneMin {
		scaled = deadzoneMin
	}
	if scaled > deadzoneMax {
		scaled = deadzoneMax
	}
	return sign * scaled
}

func signOf(v int) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
