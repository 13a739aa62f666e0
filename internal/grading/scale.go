package grading

// BandMax is the top of the reporting scale.
const BandMax = 9.0

// Band maps raw accuracy onto the 0-9 band scale. This is a linear
// mapping, not a calibrated psychometric scale.
func Band(awarded, possible float64) float64 {
	if possible <= 0 {
		return 0
	}
	return (awarded / possible) * BandMax
}
