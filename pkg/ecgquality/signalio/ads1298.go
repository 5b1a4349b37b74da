// Package signalio decodes uploaded recordings into waveforms: ADS1298
// text exports and 16-bit PCM WAV captures.
package signalio

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ChannelNames lists the eight ADS1298 channels in column order.
var ChannelNames = []string{"CH1", "CH2", "CH3", "CH4", "CH5", "CH6", "CH7", "CH8"}

var dateLine = regexp.MustCompile(`^\d+/\d+/\d+`)

// ADS1298Recording is a parsed ADS1298 text export: header metadata plus one
// sample column per channel, scaled to millivolts.
type ADS1298Recording struct {
	RecordNumber string
	DateTime     string
	Notes        string
	Gain         string
	Channels     map[string][]float64
	SampleCount  int
}

// ParseADS1298 reads an ADS1298 .txt export. The file carries free-form
// header lines (Record #, date, Notes, Gain) followed by a "CH1 ..." column
// header and tab-separated rows of eight amplitudes. Values are scaled by
// 1000 into millivolts.
func ParseADS1298(path string) (*ADS1298Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	rec := &ADS1298Recording{
		Channels: make(map[string][]float64, len(ChannelNames)),
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// Header section ends at the channel column header.
	inData := false
	expectNotes := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if !inData {
			switch {
			case expectNotes:
				rec.Notes = trimmed
				expectNotes = false
			case strings.Contains(line, "Record #:"):
				if _, after, ok := strings.Cut(line, ":"); ok {
					rec.RecordNumber = strings.TrimSpace(after)
				}
			case strings.Contains(line, "Notes") && strings.Contains(line, ":"):
				expectNotes = true
			case strings.Contains(line, "Gain"):
				rec.Gain = trimmed
			case dateLine.MatchString(trimmed):
				rec.DateTime = trimmed
			case strings.HasPrefix(trimmed, "CH1"):
				inData = true
			}
			continue
		}

		if trimmed == "" {
			continue
		}
		fields := strings.Split(trimmed, "\t")
		if len(fields) != len(ChannelNames) {
			return nil, fmt.Errorf("line %d: expected %d channels, got %d", lineNo, len(ChannelNames), len(fields))
		}
		for i, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parsing %s: %w", lineNo, ChannelNames[i], err)
			}
			rec.Channels[ChannelNames[i]] = append(rec.Channels[ChannelNames[i]], v*1000.0)
		}
		rec.SampleCount++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading recording: %w", err)
	}

	if !inData {
		return nil, fmt.Errorf("no channel data found in %s", path)
	}
	return rec, nil
}

// SelectChannel returns the first preferred channel that has data. An empty
// preference list falls back to the natural channel order.
func (r *ADS1298Recording) SelectChannel(preferred []string) (string, []float64, error) {
	if len(preferred) == 0 {
		preferred = ChannelNames
	}
	for _, name := range preferred {
		if samples, ok := r.Channels[name]; ok && len(samples) > 0 {
			return name, samples, nil
		}
	}
	return "", nil, fmt.Errorf("none of the requested channels %v are available", preferred)
}

// AvailableChannels returns the preferred channels present in the recording,
// preserving preference order.
func (r *ADS1298Recording) AvailableChannels(preferred []string) []string {
	if len(preferred) == 0 {
		preferred = ChannelNames
	}
	var available []string
	for _, name := range preferred {
		if samples, ok := r.Channels[name]; ok && len(samples) > 0 {
			available = append(available, name)
		}
	}
	return available
}
