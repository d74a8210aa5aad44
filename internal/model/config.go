// Package model defines shared configuration structures used to initialize the MecanumDash system.
// It includes the YAML system config and the JSON robot calibration file.
package model

// Config represents the root structure loaded from configs/config.yml.
// It contains the dashboard listen address and robot serial defaults.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
	Robot     RobotConfig     `yaml:"robot"`
}

// DashboardConfig defines settings for the dashboard process.
type DashboardConfig struct {
	ListenAddr string `yaml:"listen_addr"` // address for the dashboard server (e.g. ":8080")
}

// RobotConfig defines serial defaults and where the calibration file lives.
type RobotConfig struct {
	SerialPort   string `yaml:"serial_port"`   // default serial device (e.g. /dev/ttyACM0)
	BaudRate     int    `yaml:"baud_rate"`     // default baudrate
	ConfigFile   string `yaml:"config_file"`   // path to mecanum_config.json
	DefaultSpeed int    `yaml:"default_speed"` // linear speed for discrete direction commands
	TurnSpeed    int    `yaml:"turn_speed"`    // rotational speed for discrete direction commands
}

// Calibration is the robot calibration file (mecanum_config.json).
// It is read on every command translation and written back only on an
// explicit save.
type Calibration struct {
	SerialPort  string             `json:"serial_port"`
	BaudRate    int                `json:"baud_rate"`
	Mapping     map[string]int     `json:"mapping"`     // logical wheel name -> physical motor index (0..3), -1 = unmapped
	Calibration map[string]float64 `json:"calibration"` // logical wheel name -> speed multiplier
	Scaling     ScalingConfig      `json:"scaling"`
}

// ScalingConfig holds the deadzone remap range. Commanded magnitudes in
// [1,255] are rescaled into [DeadzoneMin,DeadzoneMax]; zero always stays zero.
type ScalingConfig struct {
	DeadzoneMin int `json:"deadzone_min"`
	DeadzoneMax int `json:"deadzone_max"`
}
