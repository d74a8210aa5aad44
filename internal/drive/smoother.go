package drive

import "MecanumDash/internal/model"

// Default smoothing parameters for continuous keyboard/slider control.
const (
	DefaultAlpha    = 0.6
	DefaultDeadzone = 10
)

// Smoother blends successive motion intents so speed changes ramp gradually
// instead of jumping, reducing mechanical jolt and wheel slip.
type Smoother struct {
	Alpha    float64 // blend factor per tick, 0 < Alpha <= 1
	Deadzone int     // axis magnitudes below this snap to zero

	cur model.MotionIntent
}

// NewSmoother returns a Smoother with the default blend factor and deadzone.
func NewSmoother() *Smoother {
	return &Smoother{Alpha: DefaultAlpha, Deadzone: DefaultDeadzone}
}

// Step advances the smoothed state one tick toward target using
// current = current*(1-alpha) + target*alpha, then snaps any axis below the
// deadzone to zero so near-zero jitter commands are not sent.
func (s *Smoother) Step(target model.MotionIntent) model.MotionIntent {
	s.cur.VX = blend(s.cur.VX, target.VX, s.Alpha)
	s.cur.VY = blend(s.cur.VY, target.VY, s.Alpha)
	s.cur.Omega = blend(s.cur.Omega, target.Omega, s.Alpha)

	if absInt(s.cur.VX) < s.Deadzone {
		s.cur.VX = 0
	}
	if absInt(s.cur.VY) < s.Deadzone {
		s.cur.VY = 0
	}
	if absInt(s.cur.Omega) < s.Deadzone {
		s.cur.Omega = 0
	}
	return s.cur
}

// Current returns the smoothed state without advancing it.
func (s *Smoother) Current() model.MotionIntent { return s.cur }

// Reset zeroes the smoothed state immediately (used by emergency stop so the
// smoother does not keep ramping down after motors were cut).
func (s *Smoother) Reset() { s.cur = model.MotionIntent{} }

func blend(cur, target int, alpha float64) int {
	return int(float64(cur)*(1-alpha) + float64(target)*alpha)
}
