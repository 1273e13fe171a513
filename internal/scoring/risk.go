package scoring

import (
	"fmt"
	"math"
)

// RiskLabel is a discrete risk bucket derived from a 0..1 score fraction
type RiskLabel string

const (
	RiskLow      RiskLabel = "low"
	RiskMedium   RiskLabel = "medium"
	RiskHigh     RiskLabel = "high"
	RiskVeryHigh RiskLabel = "very_high"
)

// RiskLevel is the 3-level scheme used on the dashboard and the admin
// assessment list. Boundaries are inclusive on the upper edge.
func RiskLevel(fraction float64) RiskLabel {
	switch {
	case fraction <= 0.3:
		return RiskLow
	case fraction <= 0.6:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ReportRiskLevel is the finer 4-level scheme used on the report page. Kept
// separate from RiskLevel on purpose: the two screens bucket differently and
// tuning one must not shift labels on the other.
func ReportRiskLevel(fraction float64) RiskLabel {
	switch {
	case fraction <= 0.25:
		return RiskLow
	case fraction <= 0.50:
		return RiskMedium
	case fraction <= 0.75:
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}

// ScoreGradient maps a 0-100 percentage to the progress-bar fill color, a
// continuous green-to-red blend with blue fixed at 0.
func ScoreGradient(percentage float64) string {
	green := 255 - percentage*2.55
	if green < 0 {
		green = 0
	}
	red := percentage * 2.55
	if red > 255 {
		red = 255
	}
	return fmt.Sprintf("rgb(%d, %d, 0)", int(math.Round(red)), int(math.Round(green)))
}
