package quality

import (
	"encoding/json"
	"fmt"
)

// Tier is the classification outcome for one window.
type Tier int

const (
	// TierRejected marks windows dominated by non-physiological noise or
	// motion artifact.
	TierRejected Tier = iota
	// TierUnreliable marks windows with too few beats or inconsistent beat
	// shapes.
	TierUnreliable
	// TierAcceptable marks windows usable for rate estimation but not for
	// fine morphology.
	TierAcceptable
	// TierGood marks high-consistency, high-peakedness windows.
	TierGood
	// TierGoodBaselineWander marks windows with consistent beat shapes but
	// moderate kurtosis, attributable to low-frequency motion rather than
	// high-frequency artifact.
	TierGoodBaselineWander
)

var tierNames = map[Tier]string{
	TierRejected:           "REJECTED",
	TierUnreliable:         "UNRELIABLE",
	TierAcceptable:         "ACCEPTABLE",
	TierGood:               "GOOD",
	TierGoodBaselineWander: "GOOD (Baseline Wander)",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// IsGood reports whether a window of this tier qualifies for best-segment
// selection. Both GOOD and GOOD (Baseline Wander) qualify; ACCEPTABLE does
// not, though it still counts as usable in the summary.
func (t Tier) IsGood() bool {
	return t == TierGood || t == TierGoodBaselineWander
}

// IsRejectable reports whether a window of this tier contributes its sample
// range to the rejected-segments list.
func (t Tier) IsRejectable() bool {
	return t == TierRejected || t == TierUnreliable
}

// MarshalJSON encodes the tier as its display name.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a tier from its display name.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for tier, name := range tierNames {
		if name == s {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown quality tier %q", s)
}

// Status is the overall outcome of one assessment.
type Status string

const (
	// StatusSuccess means at least one good window was found.
	StatusSuccess Status = "SUCCESS"
	// StatusWarning means a best segment was selected but overall quality is
	// low.
	StatusWarning Status = "WARNING"
	// StatusFailed means no segment selection is possible (input too short
	// or no windows analyzed).
	StatusFailed Status = "FAILED"
)
