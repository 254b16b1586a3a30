package models

import "testing"

func TestReportStatusLabel(t *testing.T) {
	tests := []struct {
		status ReportStatus
		want   string
	}{
		{StatusPending, "Pending"},
		{StatusVerified, "Verified"},
		{StatusRejected, "Rejected"},
		{ReportStatus("weird"), "Unknown"},
		{ReportStatus(""), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestRiskLevelRank(t *testing.T) {
	if RiskCritical.Rank() <= RiskHigh.Rank() {
		t.Error("critical must rank above high")
	}
	if RiskHigh.Rank() <= RiskMedium.Rank() {
		t.Error("high must rank above medium")
	}
	if RiskMedium.Rank() <= RiskLow.Rank() {
		t.Error("medium must rank above low")
	}
	if got := RiskLevel("nonsense").Rank(); got != 0 {
		t.Errorf("unknown risk Rank() = %d, want 0 (sorts lowest)", got)
	}
}

func TestRiskLevelLabelFallback(t *testing.T) {
	if got := RiskLevel("extreme").Label(); got != "Unknown" {
		t.Errorf("Label() for unknown risk = %q, want \"Unknown\"", got)
	}
	if got := RiskCritical.Label(); got != "Critical" {
		t.Errorf("Label() = %q, want \"Critical\"", got)
	}
}

func TestScamTypeLabel(t *testing.T) {
	if got := ScamPhishing.Label(); got != "Phishing Attack" {
		t.Errorf("Label() = %q, want \"Phishing Attack\"", got)
	}
	// Unknown values surface the raw wire value instead of failing.
	if got := ScamType("pig_butchering").Label(); got != "pig_butchering" {
		t.Errorf("Label() = %q, want raw value passthrough", got)
	}
	if got := ScamType("").Label(); got != "Unknown" {
		t.Errorf("Label() for empty type = %q, want \"Unknown\"", got)
	}
}
