// Package detect implements the default R-peak detector and the signal
// conditioning used before quality assessment. The detector follows the
// classic energy-based recipe: band-pass the QRS band, differentiate,
// square, integrate over a short window, then pick integrated-energy bursts
// above an adaptive threshold.
package detect

import (
	"errors"
	"math"

	"github.com/kianyew1/ecgquality/pkg/ecgquality/stats"
)

// Detector locates R-peaks in a cleaned single-lead ECG trace.
type Detector struct {
	// LowHz..HighHz bounds the QRS energy band.
	LowHz  float64
	HighHz float64
	// IntegrationSeconds is the moving-window integration width.
	IntegrationSeconds float64
	// RefractorySeconds is the minimum spacing between reported beats.
	RefractorySeconds float64
}

// NewDetector returns a detector with the standard QRS parameters
// (5-15 Hz band, 150 ms integration, 200 ms refractory period).
func NewDetector() *Detector {
	return &Detector{
		LowHz:              5.0,
		HighHz:             15.0,
		IntegrationSeconds: 0.150,
		RefractorySeconds:  0.200,
	}
}

// DetectPeaks returns ascending sample indices of detected beats. An empty
// result with a nil error means the trace contained no detectable beats.
func (d *Detector) DetectPeaks(signal []float64, samplingRate int) ([]int, error) {
	if samplingRate <= 0 {
		return nil, errors.New("sampling rate must be positive")
	}
	if len(signal) < samplingRate {
		return nil, errors.New("signal shorter than one second")
	}

	band := Bandpass(signal, samplingRate, d.LowHz, d.HighHz)

	// Squared derivative emphasizes the steep QRS slopes over P/T waves.
	energy := make([]float64, len(band))
	for i := 1; i < len(band); i++ {
		diff := band[i] - band[i-1]
		energy[i] = diff * diff
	}

	integWindow := int(d.IntegrationSeconds * float64(samplingRate))
	if integWindow < 1 {
		integWindow = 1
	}
	integrated := movingAverage(energy, integWindow)

	// Adaptive threshold between the energy floor and the burst level.
	floor := stats.Percentile(integrated, 50)
	burst := stats.Percentile(integrated, 98)
	threshold := floor + 0.25*(burst-floor)
	if !(threshold > 0) {
		return []int{}, nil
	}

	refractory := int(d.RefractorySeconds * float64(samplingRate))
	candidates := d.energyBursts(integrated, threshold, refractory)

	peaks := d.refinePeaks(signal, candidates, samplingRate, refractory)
	return peaks, nil
}

// energyBursts returns the argmax of each above-threshold region, merging
// regions closer than the refractory period by keeping the stronger one.
func (d *Detector) energyBursts(integrated []float64, threshold float64, refractory int) []int {
	var bursts []int
	inBurst := false
	burstMax := math.Inf(-1)
	burstIdx := 0

	flush := func() {
		if !inBurst {
			return
		}
		if n := len(bursts); n > 0 && burstIdx-bursts[n-1] < refractory {
			if integrated[burstIdx] > integrated[bursts[n-1]] {
				bursts[n-1] = burstIdx
			}
		} else {
			bursts = append(bursts, burstIdx)
		}
		inBurst = false
		burstMax = math.Inf(-1)
	}

	for i, v := range integrated {
		if v > threshold {
			inBurst = true
			if v > burstMax {
				burstMax = v
				burstIdx = i
			}
			continue
		}
		flush()
	}
	flush()
	return bursts
}

// refinePeaks moves each energy burst to the largest-magnitude sample of the
// original trace within ±100 ms, then drops refinements that collapsed onto
// a neighbor.
func (d *Detector) refinePeaks(signal []float64, candidates []int, samplingRate, refractory int) []int {
	search := samplingRate / 10
	peaks := make([]int, 0, len(candidates))
	for _, c := range candidates {
		lo := c - search
		if lo < 0 {
			lo = 0
		}
		hi := c + search + 1
		if hi > len(signal) {
			hi = len(signal)
		}
		best := lo
		for i := lo; i < hi; i++ {
			if math.Abs(signal[i]) > math.Abs(signal[best]) {
				best = i
			}
		}
		if n := len(peaks); n > 0 && best-peaks[n-1] < refractory {
			if math.Abs(signal[best]) > math.Abs(signal[peaks[n-1]]) {
				peaks[n-1] = best
			}
			continue
		}
		peaks = append(peaks, best)
	}
	return peaks
}
