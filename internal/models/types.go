package models

import (
	"strings"
	"time"
)

// ReportStatus is the community-verification state of a report.
type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusVerified ReportStatus = "verified"
	StatusRejected ReportStatus = "rejected"
)

// AllStatuses is the ordered list of known report statuses.
var AllStatuses = []ReportStatus{StatusPending, StatusVerified, StatusRejected}

// Known reports whether s is one of the enumerated statuses.
func (s ReportStatus) Known() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// Label returns a human-readable label, falling back to "Unknown" for
// values outside the enumeration so rendering never fails.
func (s ReportStatus) Label() string {
	if !s.Known() {
		return "Unknown"
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// RiskLevel is the severity classification assigned to a report.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// AllRiskLevels is ordered from least to most severe.
var AllRiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// riskRank orders risk levels for sorting. Unknown values rank below "low".
var riskRank = map[RiskLevel]int{
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     3,
	RiskCritical: 4,
}

// Rank returns the severity rank (critical 4 > high 3 > medium 2 > low 1).
// Unknown values return 0 so they sort as least severe.
func (r RiskLevel) Rank() int {
	return riskRank[r]
}

// Known reports whether r is one of the enumerated risk levels.
func (r RiskLevel) Known() bool {
	return riskRank[r] != 0
}

// Label returns a human-readable label with a safe fallback.
func (r RiskLevel) Label() string {
	if !r.Known() {
		return "Unknown"
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// ScamType categorizes the kind of scam being reported.
type ScamType string

const (
	ScamPhishing          ScamType = "phishing"
	ScamFakeToken         ScamType = "fake_token"
	ScamImpersonation     ScamType = "impersonation"
	ScamMaliciousContract ScamType = "malicious_contract"
	ScamPonzi             ScamType = "ponzi"
	ScamRugPull           ScamType = "rugpull"
	ScamWalletDrain       ScamType = "wallet_drain"
	ScamOther             ScamType = "other"
)

// AllScamTypes is the ordered list of selectable scam types.
var AllScamTypes = []ScamType{
	ScamPhishing,
	ScamFakeToken,
	ScamImpersonation,
	ScamMaliciousContract,
	ScamPonzi,
	ScamRugPull,
	ScamWalletDrain,
	ScamOther,
}

var scamTypeLabels = map[ScamType]string{
	ScamPhishing:          "Phishing Attack",
	ScamFakeToken:         "Fake Token",
	ScamImpersonation:     "Account Impersonation",
	ScamMaliciousContract: "Malicious Smart Contract",
	ScamPonzi:             "Ponzi/Pyramid Scheme",
	ScamRugPull:           "Rug Pull",
	ScamWalletDrain:       "Wallet Drainer",
	ScamOther:             "Other Scam",
}

// Known reports whether t is one of the selectable scam types.
func (t ScamType) Known() bool {
	_, ok := scamTypeLabels[t]
	return ok
}

// Label returns the display label, falling back to the raw value.
func (t ScamType) Label() string {
	if label, ok := scamTypeLabels[t]; ok {
		return label
	}
	if t == "" {
		return "Unknown"
	}
	return string(t)
}

// Report is a remote-owned scam report; the client treats it as a read-only
// projection and only appends a local verification echo after a submit.
type Report struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	Description          string         `json:"description,omitempty"`
	ScamType             ScamType       `json:"scam_type"`
	Status               ReportStatus   `json:"status"`
	RiskLevel            RiskLevel      `json:"risk_level"`
	ReporterAddress      string         `json:"reporter_address"`
	ScammerAddress       string         `json:"scammer_address"`
	ContactInfo          string         `json:"contact_info,omitempty"`
	AdditionalDetails    string         `json:"additional_details,omitempty"`
	TransactionHash      string         `json:"transaction_hash,omitempty"`
	TransactionAmount    float64        `json:"transaction_amount"`
	SuiObjectID          string         `json:"sui_object_id,omitempty"`
	StakeAmount          int64          `json:"stake_amount"`
	VerificationCount    int            `json:"verification_count"`
	RejectionCount       int            `json:"rejection_count"`
	Evidence             []Evidence     `json:"evidence,omitempty"`
	Verifications        []Verification `json:"verifications,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	VerificationDeadline time.Time      `json:"verification_deadline"`
}

// Evidence is a piece of supporting material attached to a report.
type Evidence struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	FileName    string    `json:"file_name,omitempty"`
	Link        string    `json:"link,omitempty"`
	Hash        string    `json:"hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Verification is a community member's confirm/reject vote on a report.
type Verification struct {
	ID              string    `json:"id"`
	Verifier        string    `json:"verifier"`
	Verified        bool      `json:"verified"`
	Comment         string    `json:"comment,omitempty"`
	TransactionHash string    `json:"transaction_hash,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Merchant is a registered API consumer.
type Merchant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	APIKey    string    `json:"api_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardStats is the aggregate view served by /dashboard-stats/.
type DashboardStats struct {
	TotalReports     int    `json:"total_reports"`
	VerifiedReports  int    `json:"verified_reports"`
	PendingReports   int    `json:"pending_reports"`
	RejectedReports  int    `json:"rejected_reports"`
	ActiveVerifiers  int    `json:"active_verifiers"`
	ProtectedWallets int    `json:"protected_wallets"`
	PreventedValue   string `json:"prevented_value"`
}

// ScammerCheck is the result of /scammer-check/?address=.
type ScammerCheck struct {
	Address     string    `json:"address"`
	Reported    bool      `json:"reported"`
	ReportCount int       `json:"report_count"`
	RiskLevel   RiskLevel `json:"risk_level,omitempty"`
}

// ReportPage is one page of the paginated report listing.
type ReportPage struct {
	Results []Report `json:"results"`
	Count   int      `json:"count"`
}
