package detect

import (
	"github.com/mjibson/go-dsp/fft"
)

// Bandpass keeps frequency content between lowHz and highHz using a
// frequency-domain mask. Zero-phase, so peak positions are not shifted.
func Bandpass(signal []float64, samplingRate int, lowHz, highHz float64) []float64 {
	return applyFrequencyMask(signal, samplingRate, func(freq float64) bool {
		return freq >= lowHz && freq <= highHz
	})
}

// Lowpass removes frequency content above cutoffHz.
func Lowpass(signal []float64, samplingRate int, cutoffHz float64) []float64 {
	return applyFrequencyMask(signal, samplingRate, func(freq float64) bool {
		return freq <= cutoffHz
	})
}

// applyFrequencyMask transforms the signal, zeroes every bin whose frequency
// fails keep, and transforms back. Both halves of the spectrum are masked
// together so the output stays real.
func applyFrequencyMask(signal []float64, samplingRate int, keep func(freq float64) bool) []float64 {
	n := len(signal)
	if n == 0 {
		return nil
	}

	spectrum := fft.FFTReal(signal)
	binHz := float64(samplingRate) / float64(n)
	for k := 0; k <= n/2; k++ {
		freq := float64(k) * binHz
		if keep(freq) {
			continue
		}
		spectrum[k] = 0
		if k > 0 && n-k < n {
			spectrum[n-k] = 0
		}
	}

	inverse := fft.IFFT(spectrum)
	out := make([]float64, n)
	for i, c := range inverse {
		out[i] = real(c)
	}
	return out
}

// Detrend subtracts a moving-average baseline with the given window size in
// samples. Window edges use a clamped average.
func Detrend(signal []float64, window int) []float64 {
	n := len(signal)
	if n == 0 {
		return nil
	}
	if window < 1 {
		window = 1
	}

	half := window / 2
	out := make([]float64, n)

	// Prefix sums keep the baseline O(n) regardless of window size.
	prefix := make([]float64, n+1)
	for i, v := range signal {
		prefix[i+1] = prefix[i] + v
	}
	for i := range signal {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > n {
			hi = n
		}
		baseline := (prefix[hi] - prefix[lo]) / float64(hi-lo)
		out[i] = signal[i] - baseline
	}
	return out
}

// Clean prepares a raw ECG trace for peak detection and quality assessment:
// moving-average detrending (0.6 s window) followed by a 40 Hz low-pass.
func Clean(signal []float64, samplingRate int) []float64 {
	if len(signal) == 0 {
		return nil
	}
	window := int(0.6 * float64(samplingRate))
	detrended := Detrend(signal, window)
	return Lowpass(detrended, samplingRate, 40.0)
}

func movingAverage(signal []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	n := len(signal)
	out := make([]float64, n)
	prefix := make([]float64, n+1)
	for i, v := range signal {
		prefix[i+1] = prefix[i] + v
	}
	for i := range signal {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		out[i] = (prefix[i+1] - prefix[lo]) / float64(i+1-lo)
	}
	return out
}
