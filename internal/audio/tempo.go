package audio

import (
	"fmt"
	"strings"
)

const (
	maxTempo = 2.0
	minTempo = 0.5
)

// TempoChain splits ratio into atempo factors each within [0.5, 2.0] whose
// product is ratio. Non-positive ratios yield [1.0].
func TempoChain(ratio float64) []float64 {
	if ratio <= 0 {
		return []float64{1.0}
	}
	var chain []float64
	f := ratio
	for f > maxTempo {
		chain = append(chain, maxTempo)
		f /= maxTempo
	}
	for f < minTempo {
		chain = append(chain, minTempo)
		f /= minTempo
	}
	return append(chain, f)
}

// StretchFilter builds the filter graph that retimes a clip of actual
// seconds to exactly desired seconds.
func StretchFilter(actual, desired float64) string {
	chain := TempoChain(actual / desired)
	parts := make([]string, 0, len(chain)+2)
	for _, factor := range chain {
		parts = append(parts, fmt.Sprintf("atempo=%.6f", factor))
	}
	parts = append(parts, "apad", fmt.Sprintf("atrim=duration=%.6f", desired))
	return strings.Join(parts, ",")
}
