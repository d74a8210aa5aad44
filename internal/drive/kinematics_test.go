package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MecanumDash/internal/model"
)

func TestWheelSpeedsPureMotions(t *testing.T) {
	tests := []struct {
		name   string
		intent model.MotionIntent
		want   model.WheelCommand
	}{
		{
			name:   "forward",
			intent: model.MotionIntent{VX: 100},
			want:   model.WheelCommand{FrontLeft: 100, FrontRight: 100, RearLeft: 100, RearRight: 100},
		},
		{
			name:   "strafe left",
			intent: model.MotionIntent{VY: 100},
			want:   model.WheelCommand{FrontLeft: -100, FrontRight: 100, RearLeft: 100, RearRight: -100},
		},
		{
			name:   "rotate ccw",
			intent: model.MotionIntent{Omega: 100},
			want:   model.WheelCommand{FrontLeft: -100, FrontRight: 100, RearLeft: -100, RearRight: 100},
		},
		{
			name:   "backward",
			intent: model.MotionIntent{VX: -150},
			want:   model.WheelCommand{FrontLeft: -150, FrontRight: -150, RearLeft: -150, RearRight: -150},
		},
		{
			name:   "stop",
			intent: model.MotionIntent{},
			want:   model.WheelCommand{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WheelSpeeds(tt.intent))
		})
	}
}

func TestWheelSpeedsScalingPreservesRatios(t *testing.T) {
	// forward + rotation saturates: raw fl = 200-0-200 = 0, fr = 400
	got := WheelSpeeds(model.MotionIntent{VX: 200, Omega: 200})

	require.Equal(t, 0, got.FrontLeft)
	require.Equal(t, MaxSpeed, got.FrontRight)
	require.Equal(t, 0, got.RearLeft)
	require.Equal(t, MaxSpeed, got.RearRight)
}

func TestWheelSpeedsScaledMaxIsExactly255(t *testing.T) {
	got := WheelSpeeds(model.MotionIntent{VX: 250, VY: 120, Omega: 60})

	maxAbs := 0
	for _, v := range []int{got.FrontLeft, got.FrontRight, got.RearLeft, got.RearRight} {
		if absInt(v) > maxAbs {
			maxAbs = absInt(v)
		}
	}
	assert.Equal(t, MaxSpeed, maxAbs)
}

func TestWheelSpeedsScalingRatio(t *testing.T) {
	// raw: fl=100, fr=500, rl=300, rr=300 -> scale 255/500
	got := WheelSpeeds(model.MotionIntent{VX: 300, VY: 100, Omega: 100})

	assert.Equal(t, 51, got.FrontLeft)   // 100 * 255/500
	assert.Equal(t, 255, got.FrontRight) // 500 * 255/500
	assert.Equal(t, 153, got.RearLeft)   // 300 * 255/500
	assert.Equal(t, 153, got.RearRight)
}

func TestWheelSpeedsClampInvariant(t *testing.T) {
	adversarial := []model.MotionIntent{
		{VX: 10000, VY: -10000, Omega: 10000},
		{VX: -255, VY: -255, Omega: -255},
		{VX: 1 << 20},
		{VY: -(1 << 20), Omega: 3},
		{VX: 255, VY: 255, Omega: 255},
	}

	for _, in := range adversarial {
		got := WheelSpeeds(in)
		for _, v := range []int{got.FrontLeft, got.FrontRight, got.RearLeft, got.RearRight} {
			assert.GreaterOrEqual(t, v, -MaxSpeed, "intent %+v", in)
			assert.LessOrEqual(t, v, MaxSpeed, "intent %+v", in)
		}
	}
}
