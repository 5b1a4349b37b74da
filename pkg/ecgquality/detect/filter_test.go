package detect

import (
	"math"
	"testing"
)

func sine(length, samplingRate int, freqHz, amp float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freqHz*float64(i)/float64(samplingRate))
	}
	return out
}

func rms(signal []float64) float64 {
	sum := 0.0
	for _, v := range signal {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(signal)))
}

func TestLowpassAttenuatesHighFrequency(t *testing.T) {
	const rate = 500
	low := sine(rate*4, rate, 5, 1.0)
	high := sine(rate*4, rate, 100, 1.0)

	mixed := make([]float64, len(low))
	for i := range mixed {
		mixed[i] = low[i] + high[i]
	}

	filtered := Lowpass(mixed, rate, 40)

	// The 100 Hz component should be gone, leaving roughly the 5 Hz sine.
	residual := make([]float64, len(filtered))
	for i := range filtered {
		residual[i] = filtered[i] - low[i]
	}
	if r := rms(residual); r > 0.05 {
		t.Errorf("residual RMS after low-pass = %v, want near 0", r)
	}
}

func TestBandpassRemovesDC(t *testing.T) {
	const rate = 500
	signal := sine(rate*4, rate, 10, 1.0)
	for i := range signal {
		signal[i] += 5.0
	}

	filtered := Bandpass(signal, rate, 5, 15)

	mean := 0.0
	for _, v := range filtered {
		mean += v
	}
	mean /= float64(len(filtered))
	if math.Abs(mean) > 1e-6 {
		t.Errorf("mean after band-pass = %v, want 0 (DC removed)", mean)
	}
}

func TestDetrendRemovesOffsetAndDrift(t *testing.T) {
	const rate = 500
	signal := make([]float64, rate*4)
	for i := range signal {
		// Constant offset plus slow linear drift
		signal[i] = 3.0 + 0.001*float64(i)
	}

	detrended := Detrend(signal, int(0.6*rate))

	// Away from the edges the baseline estimate matches the trend exactly
	for i := rate; i < len(detrended)-rate; i++ {
		if math.Abs(detrended[i]) > 1e-9 {
			t.Fatalf("detrended[%d] = %v, want 0", i, detrended[i])
		}
	}
}

func TestCleanEmptyInput(t *testing.T) {
	if got := Clean(nil, 500); got != nil {
		t.Errorf("Clean(nil) = %v, want nil", got)
	}
}

func TestMovingAverageTrailing(t *testing.T) {
	signal := []float64{1, 2, 3, 4}
	got := movingAverage(signal, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("movingAverage[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
