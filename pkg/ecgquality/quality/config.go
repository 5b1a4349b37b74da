package quality

// EngineConfig holds the window geometry and classification thresholds for
// one scan. Callers normally start from DefaultEngineConfig and override
// individual fields; every window in a scan shares the same config.
type EngineConfig struct {
	// WindowSeconds is the width of each analysis window.
	WindowSeconds int
	// StrideSeconds is the step between consecutive window starts. Stride
	// smaller than width makes windows overlap by construction.
	StrideSeconds int
	// MinPeaks is the minimum beat count below which a window is classified
	// UNRELIABLE without computing any derived metric. At least 2 intervals
	// are needed for a variability estimate; 3 keeps a safety margin.
	MinPeaks int

	// ArtifactKurtosis: windows with kSQI below this are REJECTED. Flat or
	// noise-dominated segments have low peakedness.
	ArtifactKurtosis float64
	// UnreliableMorphology: windows with mSQI below this are UNRELIABLE.
	UnreliableMorphology float64
	// CleanKurtosis: together with StrongMorphology marks the gold-standard
	// GOOD tier.
	CleanKurtosis float64
	// StrongMorphology: windows above this with only moderate kurtosis are
	// classified GOOD (Baseline Wander).
	StrongMorphology float64
	// WanderKurtosis bounds the secondary acceptable-windows audit count.
	WanderKurtosis float64
}

// DefaultEngineConfig returns the standard 10 s / 1 s geometry and the
// clinical thresholds used by the service.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		WindowSeconds:        10,
		StrideSeconds:        1,
		MinPeaks:             3,
		ArtifactKurtosis:     3.0,
		UnreliableMorphology: 0.5,
		CleanKurtosis:        5.0,
		StrongMorphology:     0.8,
		WanderKurtosis:       4.0,
	}
}

func (c EngineConfig) windowSamples(samplingRate int) int {
	return c.WindowSeconds * samplingRate
}

func (c EngineConfig) strideSamples(samplingRate int) int {
	return c.StrideSeconds * samplingRate
}
