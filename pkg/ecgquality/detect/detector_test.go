package detect

import (
	"math"
	"testing"
)

// syntheticECG builds a trace with one narrow beat every beatInterval
// samples on a flat baseline. Beats are triangular bumps 40 ms wide, which
// keeps their energy inside the QRS band.
func syntheticECG(length, beatInterval, samplingRate int) ([]float64, []int) {
	signal := make([]float64, length)
	halfWidth := samplingRate / 50
	var beats []int
	for center := beatInterval; center+halfWidth < length; center += beatInterval {
		for i := -halfWidth; i <= halfWidth; i++ {
			amp := 1.0 - math.Abs(float64(i))/float64(halfWidth+1)
			signal[center+i] += amp
		}
		beats = append(beats, center)
	}
	return signal, beats
}

func TestDetectPeaks(t *testing.T) {
	const rate = 500
	signal, beats := syntheticECG(15*rate, rate, rate)

	d := NewDetector()
	peaks, err := d.DetectPeaks(signal, rate)
	if err != nil {
		t.Fatalf("DetectPeaks failed: %v", err)
	}
	if len(peaks) == 0 {
		t.Fatal("no peaks detected in a clean beat train")
	}

	// Ascending order
	for i := 1; i < len(peaks); i++ {
		if peaks[i] <= peaks[i-1] {
			t.Fatalf("peaks not strictly ascending at %d: %v <= %v", i, peaks[i], peaks[i-1])
		}
	}

	// Roughly one detection per true beat
	if len(peaks) < len(beats)-2 || len(peaks) > len(beats)+2 {
		t.Errorf("detected %d peaks, expected about %d", len(peaks), len(beats))
	}

	// Each detection lands near a true beat (within 100 ms)
	tolerance := rate / 10
	for _, p := range peaks {
		nearest := math.MaxInt
		for _, b := range beats {
			if d := abs(p - b); d < nearest {
				nearest = d
			}
		}
		if nearest > tolerance {
			t.Errorf("peak at %d is %d samples from any true beat", p, nearest)
		}
	}

	t.Logf("detected %d/%d beats", len(peaks), len(beats))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestDetectPeaksRespectsRefractory(t *testing.T) {
	const rate = 500
	signal, _ := syntheticECG(15*rate, rate, rate)

	d := NewDetector()
	peaks, err := d.DetectPeaks(signal, rate)
	if err != nil {
		t.Fatalf("DetectPeaks failed: %v", err)
	}

	refractory := int(d.RefractorySeconds * float64(rate))
	for i := 1; i < len(peaks); i++ {
		if peaks[i]-peaks[i-1] < refractory {
			t.Errorf("peaks %d and %d are %d samples apart, closer than the %d-sample refractory period",
				peaks[i-1], peaks[i], peaks[i]-peaks[i-1], refractory)
		}
	}
}

func TestDetectPeaksFlatSignal(t *testing.T) {
	d := NewDetector()

	flat := make([]float64, 5000)
	peaks, err := d.DetectPeaks(flat, 500)
	if err != nil {
		t.Fatalf("DetectPeaks on flat signal errored: %v", err)
	}
	if len(peaks) != 0 {
		t.Errorf("detected %d peaks in a flat signal, want 0", len(peaks))
	}
}

func TestDetectPeaksInputValidation(t *testing.T) {
	d := NewDetector()

	if _, err := d.DetectPeaks(make([]float64, 5000), 0); err == nil {
		t.Error("expected error for non-positive sampling rate")
	}
	if _, err := d.DetectPeaks(make([]float64, 100), 500); err == nil {
		t.Error("expected error for signal shorter than one second")
	}
}
