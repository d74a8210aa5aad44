package drive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MecanumDash/internal/model"
)

func TestLoadCalibrationCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mecanum_config.json")

	cal, err := LoadCalibration(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCalibration(), cal)

	// the defaults were written out
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoadCalibrationMergesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mecanum_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"serial_port":"/dev/ttyUSB0"}`), 0o644))

	cal, err := LoadCalibration(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cal.SerialPort)
	assert.Equal(t, 9600, cal.BaudRate)
	assert.Equal(t, 1, cal.Mapping["front_right"])
	assert.Equal(t, 1.0, cal.Calibration["rear_left"])
	assert.Equal(t, MaxSpeed, cal.Scaling.DeadzoneMax)
}

func TestSaveLoadCalibrationRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mecanum_config.json")

	cal := DefaultCalibration()
	cal.SerialPort = "/dev/ttyACM1"
	cal.BaudRate = 115200
	cal.Calibration["front_left"] = 0.9
	cal.Scaling = model.ScalingConfig{DeadzoneMin: 80, DeadzoneMax: 240}
	require.NoError(t, SaveCalibration(path, cal))

	got, err := LoadCalibration(path)
	require.NoError(t, err)
	assert.Equal(t, cal, got)
}

func TestValidateCalibrationRejectsBadConfigs(t *testing.T) {
	bad := DefaultCalibration()
	bad.Mapping["front_left"] = 7
	assert.Error(t, ValidateCalibration(bad))

	dup := DefaultCalibration()
	dup.Mapping["front_left"] = 1 // collides with front_right
	assert.Error(t, ValidateCalibration(dup))

	dz := DefaultCalibration()
	dz.Scaling = model.ScalingConfig{DeadzoneMin: 200, DeadzoneMax: 100}
	assert.Error(t, ValidateCalibration(dz))

	baud := DefaultCalibration()
	baud.BaudRate = 0
	assert.Error(t, ValidateCalibration(baud))
}

func TestApplyCalibrationIdentity(t *testing.T) {
	cmd := model.WheelCommand{FrontLeft: 100, FrontRight: -100, RearLeft: 50, RearRight: 0}
	got := ApplyCalibration(DefaultCalibration(), cmd)
	assert.Equal(t, cmd, got)
}

func TestApplyCalibrationZeroStaysZero(t *testing.T) {
	cal := DefaultCalibration()
	cal.Scaling = model.ScalingConfig{DeadzoneMin: 100, DeadzoneMax: 255}

	got := ApplyCalibration(cal, model.WheelCommand{})
	assert.True(t, got.IsStop(), "deadzone floor must not apply to a genuine stop")
}

func TestApplyCalibrationDeadzoneRemap(t *testing.T) {
	cal := DefaultCalibration()
	cal.Scaling = model.ScalingConfig{DeadzoneMin: 100, DeadzoneMax: 255}

	got := ApplyCalibration(cal, model.WheelCommand{FrontLeft: 1, FrontRight: -1, RearLeft: 255, RearRight: -255})
	assert.Equal(t, 100, got.FrontLeft, "minimum speed maps to deadzone floor")
	assert.Equal(t, -100, got.FrontRight)
	assert.Equal(t, 255, got.RearLeft, "full speed maps to deadzone ceiling")
	assert.Equal(t, -255, got.RearRight)
}

func TestApplyCalibrationMultiplier(t *testing.T) {
	cal := DefaultCalibration()
	cal.Calibration["front_left"] = 0.5

	got := ApplyCalibration(cal, model.WheelCommand{FrontLeft: 200, FrontRight: 200, RearLeft: 200, RearRight: 200})
	assert.Equal(t, 100, got.FrontLeft)
	assert.Equal(t, 200, got.FrontRight)
}

func TestApplyCalibrationRemapsPhysicalSlots(t *testing.T) {
	cal := DefaultCalibration()
	// front_left motor is wired to slot 3, rear_right to slot 0
	cal.Mapping["front_left"] = 3
	cal.Mapping["rear_right"] = 0

	got := ApplyCalibration(cal, model.WheelCommand{FrontLeft: 10, FrontRight: 20, RearLeft: 30, RearRight: 40})
	assert.Equal(t, model.WheelCommand{FrontLeft: 40, FrontRight: 20, RearLeft: 30, RearRight: 10}, got)
}

func TestApplyCalibrationUnmappedWheelStaysZero(t *testing.T) {
	cal := DefaultCalibration()
	cal.Mapping["front_left"] = -1

	got := ApplyCalibration(cal, model.WheelCommand{FrontLeft: 100, FrontRight: 100, RearLeft: 100, RearRight: 100})
	assert.Zero(t, got.FrontLeft)
	assert.Equal(t, 100, got.FrontRight)
}

func TestApplyCalibrationClampsOverdrivenWheel(t *testing.T) {
	cal := DefaultCalibration()
	cal.Calibration["front_left"] = 2.0

	got := ApplyCalibration(cal, model.WheelCommand{FrontLeft: 200})
	assert.Equal(t, MaxSpeed, got.FrontLeft)
}
