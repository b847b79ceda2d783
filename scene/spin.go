package scene

import "math"

// Spin is the idle showcase motion: a steady turn about Y plus a vertical bob.
type Spin struct {
	// Rate in radians per second.
	Rate float64
	// BobAmplitude in scene units.
	BobAmplitude float64
	// BobFrequency in radians per second.
	BobFrequency float64
}

// DefaultSpin turns 0.01 rad per frame at 60 fps and bobs ±0.1 at 1 rad/s.
var DefaultSpin = Spin{Rate: 0.6, BobAmplitude: 0.1, BobFrequency: 1}

// At returns the rotation angle and bob offset after elapsed seconds.
func (s Spin) At(elapsed float64) (angle, bob float64) {
	angle = s.Rate * elapsed
	bob = s.BobAmplitude * math.Sin(elapsed*s.BobFrequency)
	return angle, bob
}
