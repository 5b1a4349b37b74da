package signalio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// ReadWAV decodes a PCM WAV capture into mono float64 samples normalized to
// [-1,1] and returns the file's sample rate. Multi-channel files are mixed
// down by averaging.
func ReadWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening WAV file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, errors.New("not a valid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decoding PCM data: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, errors.New("WAV file contains no samples")
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, 0, errors.New("WAV file reports no channels")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch]) * scale
		}
		samples[i] = sum / float64(channels)
	}

	return samples, buf.Format.SampleRate, nil
}
