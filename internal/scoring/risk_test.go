package scoring

import "testing"

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		fraction float64
		want     RiskLabel
	}{
		{0, RiskLow},
		{0.3, RiskLow}, // inclusive upper bound
		{0.30000001, RiskMedium},
		{0.6, RiskMedium},
		{0.61, RiskHigh},
		{1, RiskHigh},
	}

	for _, tt := range tests {
		if got := RiskLevel(tt.fraction); got != tt.want {
			t.Errorf("RiskLevel(%v) = %v, want %v", tt.fraction, got, tt.want)
		}
	}
}

func TestReportRiskLevel(t *testing.T) {
	tests := []struct {
		fraction float64
		want     RiskLabel
	}{
		{0.25, RiskLow},
		{0.26, RiskMedium},
		{0.50, RiskMedium},
		{0.75, RiskHigh},
		{0.76, RiskVeryHigh},
		{1, RiskVeryHigh},
	}

	for _, tt := range tests {
		if got := ReportRiskLevel(tt.fraction); got != tt.want {
			t.Errorf("ReportRiskLevel(%v) = %v, want %v", tt.fraction, got, tt.want)
		}
	}
}

func TestScoreGradient(t *testing.T) {
	tests := []struct {
		percentage float64
		want       string
	}{
		{0, "rgb(0, 255, 0)"},
		{25, "rgb(64, 191, 0)"},
		{50, "rgb(128, 128, 0)"},
		{100, "rgb(255, 0, 0)"},
	}

	for _, tt := range tests {
		if got := ScoreGradient(tt.percentage); got != tt.want {
			t.Errorf("ScoreGradient(%v) = %q, want %q", tt.percentage, got, tt.want)
		}
	}
}
