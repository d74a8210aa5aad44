// Package drive translates high-level motion intents into safe, rate-limited
// wheel commands for a four-wheel mecanum robot and writes them to the
// Arduino motor controller through a lock-guarded serial session.
package drive

import (
	"MecanumDash/internal/model"
	"MecanumDash/internal/parser"
)

// MaxSpeed is the PWM magnitude limit per wheel.
const MaxSpeed = parser.MaxSpeed

// WheelSpeeds computes the four wheel speeds for a motion intent.
//
// Sign convention (easy to invert by accident, keep consistent everywhere):
// positive vx = forward, positive vy = strafe LEFT, positive omega = rotate
// counter-clockwise. Wheel layout is the standard X roller configuration.
//
//	fl = vx - vy - omega
//	fr = vx + vy + omega
//	rl = vx + vy - omega
//	rr = vx - vy + omega
//
// If any raw magnitude exceeds MaxSpeed, all four values are scaled by the
// same factor so the relative ratios are preserved. Per-wheel clamping alone
// would distort the turn radius.
func WheelSpeeds(in model.MotionIntent) model.WheelCommand {
	fl := in.VX - in.VY - in.Omega
	fr := in.VX + in.VY + in.Omega
	rl := in.VX + in.VY - in.Omega
	rr := in.VX - in.VY + in.Omega

	maxAbs := absInt(fl)
	for _, v := range []int{fr, rl, rr} {
		if absInt(v) > maxAbs {
			maxAbs = absInt(v)
		}
	}

	if maxAbs > MaxSpeed {
		// multiply before dividing so the saturated wheel lands on
		// exactly ±MaxSpeed instead of one short from float rounding
		fl = int(float64(fl) * MaxSpeed / float64(maxAbs))
		fr = int(float64(fr) * MaxSpeed / float64(maxAbs))
		rl = int(float64(rl) * MaxSpeed / float64(maxAbs))
		rr = int(float64(rr) * MaxSpeed / float64(maxAbs))
	}

	// Final safety net for rounding overshoot.
	return model.WheelCommand{
		FrontLeft:  clampSpeed(fl),
		FrontRight: clampSpeed(fr),
		RearLeft:   clampSpeed(rl),
		RearRight:  clampSpeed(rr),
	}
}

// clampSpeed limits v to [-MaxSpeed, MaxSpeed].
func clampSpeed(v int) int {
	if v > MaxSpeed {
		return MaxSpeed
	}
	if v < -MaxSpeed {
		return -MaxSpeed
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
