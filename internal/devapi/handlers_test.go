package devapi

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scamshield/scamshield/internal/api"
	"github.com/scamshield/scamshield/internal/models"
)

func addr(tag string) string {
	h := fmt.Sprintf("%x", []byte(tag))
	for len(h) < 64 {
		h += "0"
	}
	return "0x" + h[:64]
}

type headerIdentity string

func (h headerIdentity) WalletAddress() string { return string(h) }

// newTestServer spins up the router over a temp database and returns a
// client authenticated as wallet.
func newTestServer(t *testing.T, wallet string) (*api.Client, *Store) {
	t.Helper()

	store, err := OpenStore(filepath.Join(t.TempDir(), "devapi.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(NewRouter(store, "localnet"))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL+"/api", headerIdentity(wallet), api.WithRateLimit(1000))
	return client, store
}

func submission(scammer string) api.ReportSubmission {
	return api.ReportSubmission{
		Title:          "Fake validator rewards site",
		ScammerAddress: scammer,
		ScamType:       models.ScamPhishing,
		Description:    "Site promises staking rewards and drains approvals instead.",
		StakeAmount:    10,
		Evidence: []api.EvidenceFile{
			{Name: "landing.png", Data: []byte("fake png bytes")},
		},
	}
}

func TestSubmitAndFetchReport(t *testing.T) {
	reporter := addr("reporter")
	client, _ := newTestServer(t, reporter)
	ctx := context.Background()

	created, err := client.SubmitReport(ctx, submission(addr("scammer")))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if created.ID == "" || created.Status != models.StatusPending {
		t.Fatalf("created = %+v", created)
	}
	if created.ReporterAddress != reporter {
		t.Fatalf("reporter = %q, want %q", created.ReporterAddress, reporter)
	}
	if created.VerificationDeadline.Before(created.CreatedAt) {
		t.Fatal("verification deadline not set")
	}

	got, err := client.GetReport(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Evidence) != 1 || got.Evidence[0].FileName != "landing.png" {
		t.Fatalf("evidence = %+v", got.Evidence)
	}
	if got.Evidence[0].Hash == "" {
		t.Fatal("evidence hash not recorded")
	}

	page, err := client.ListReports(ctx, api.ReportQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Count != 1 || len(page.Results) != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestSubmitValidation(t *testing.T) {
	client, _ := newTestServer(t, addr("reporter"))

	sub := submission(addr("scammer"))
	sub.Title = ""
	sub.Description = "short"
	sub.StakeAmount = 7

	_, err := client.SubmitReport(context.Background(), sub)
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *api.ValidationError", err)
	}
	for _, field := range []string{"title", "description", "stake_amount"} {
		if verr.Fields[field] == "" {
			t.Errorf("no server error for %s: %v", field, verr.Fields)
		}
	}
}

func TestDuplicateReportRejected(t *testing.T) {
	client, _ := newTestServer(t, addr("reporter"))
	ctx := context.Background()
	scammer := addr("scammer")

	if _, err := client.SubmitReport(ctx, submission(scammer)); err != nil {
		t.Fatal(err)
	}
	_, err := client.SubmitReport(ctx, submission(scammer))
	var verr *api.ValidationError
	if !errors.As(err, &verr) || verr.Fields["scammer_address"] == "" {
		t.Fatalf("err = %v, want scammer_address validation error", err)
	}
}

func TestAuthRequiredForWrites(t *testing.T) {
	client, _ := newTestServer(t, "")

	_, err := client.SubmitReport(context.Background(), submission(addr("scammer")))
	if !api.IsAuthError(err) {
		t.Fatalf("err = %v, want auth error", err)
	}
}

func TestVerificationFlow(t *testing.T) {
	reporter := addr("reporter")
	client, store := newTestServer(t, reporter)
	ctx := context.Background()

	created, err := client.SubmitReport(ctx, submission(addr("scammer")))
	if err != nil {
		t.Fatal(err)
	}

	// Reporters cannot vote on their own report.
	_, err = client.VerifyReport(ctx, created.ID, true, "looks real", "")
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("self-verify err = %v, want validation error", err)
	}

	// Three distinct verifiers settle the report.
	for i := 0; i < 3; i++ {
		report, err := store.AddVerification(created.ID, addr(fmt.Sprintf("verifier%d", i)), true, "confirmed", "")
		if err != nil {
			t.Fatalf("verifier %d: %v", i, err)
		}
		if i < 2 && report.Status != models.StatusPending {
			t.Fatalf("settled after %d votes", i+1)
		}
	}

	settled, err := client.GetReport(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if settled.Status != models.StatusVerified || settled.VerificationCount != 3 {
		t.Fatalf("settled = %+v", settled)
	}

	// Settled reports accept no further votes.
	if _, err := store.AddVerification(created.ID, addr("late"), true, "", ""); !errors.Is(err, ErrReportSettled) {
		t.Fatalf("err = %v, want ErrReportSettled", err)
	}

	// Duplicate votes are rejected while pending.
	second, err := client.SubmitReport(ctx, submission(addr("scammer2")))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddVerification(second.ID, addr("verifier0"), true, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddVerification(second.ID, addr("verifier0"), false, "", ""); !errors.Is(err, ErrDuplicateVote) {
		t.Fatalf("err = %v, want ErrDuplicateVote", err)
	}
}

func TestMyReportsAndPendingVerifications(t *testing.T) {
	reporter := addr("reporter")
	client, store := newTestServer(t, reporter)
	ctx := context.Background()

	mine, err := client.SubmitReport(ctx, submission(addr("scammer")))
	if err != nil {
		t.Fatal(err)
	}

	other := models.Report{
		Title:           "Impersonating support staff",
		Description:     "DMs pretending to be wallet support asking for the seed phrase.",
		ScamType:        models.ScamImpersonation,
		ReporterAddress: addr("other"),
		ScammerAddress:  addr("scammer3"),
		StakeAmount:     10,
	}
	if err := store.CreateReport(&other, nil); err != nil {
		t.Fatal(err)
	}

	myPage, err := client.MyReports(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if myPage.Count != 1 || myPage.Results[0].ID != mine.ID {
		t.Fatalf("my reports = %+v", myPage)
	}

	// Only the other wallet's report is votable by this wallet.
	pending, err := client.PendingVerifications(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending.Results) != 1 || pending.Results[0].ID != other.ID {
		t.Fatalf("pending = %+v", pending)
	}
}

func TestDashboardStatsAndScammerCheck(t *testing.T) {
	client, store := newTestServer(t, addr("reporter"))
	ctx := context.Background()
	scammer := addr("scammer")

	sub := submission(scammer)
	sub.TransactionAmount = 2500
	created, err := client.SubmitReport(ctx, sub)
	if err != nil {
		t.Fatal(err)
	}

	clean, err := client.ScammerCheck(ctx, scammer)
	if err != nil {
		t.Fatal(err)
	}
	if clean.Reported {
		t.Fatal("pending report counted as a verified scam")
	}

	for i := 0; i < 3; i++ {
		if _, err := store.AddVerification(created.ID, addr(fmt.Sprintf("v%d", i)), true, "", ""); err != nil {
			t.Fatal(err)
		}
	}

	check, err := client.ScammerCheck(ctx, scammer)
	if err != nil {
		t.Fatal(err)
	}
	if !check.Reported || check.ReportCount != 1 || !check.RiskLevel.Known() {
		t.Fatalf("check = %+v", check)
	}

	stats, err := client.DashboardStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalReports != 1 || stats.VerifiedReports != 1 || stats.ActiveVerifiers != 3 {
		t.Fatalf("stats = %+v", stats)
	}
	if !strings.HasSuffix(stats.PreventedValue, "SUI") {
		t.Fatalf("prevented value = %q", stats.PreventedValue)
	}
}

func TestMerchantAPIKeyRotation(t *testing.T) {
	client, store := newTestServer(t, addr("reporter"))
	ctx := context.Background()

	m, err := store.CreateMerchant("Sui Swap Aggregator")
	if err != nil {
		t.Fatal(err)
	}

	key, err := client.GenerateAPIKey(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(key, "sk_") {
		t.Fatalf("key = %q", key)
	}
	key2, err := client.GenerateAPIKey(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if key == key2 {
		t.Fatal("rotation returned the same key")
	}

	merchants, err := client.Merchants(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(merchants) != 1 || merchants[0].APIKey != "" {
		t.Fatalf("merchants = %+v", merchants)
	}
}

func TestRiskAssessment(t *testing.T) {
	cases := []struct {
		scamType models.ScamType
		amount   float64
		want     models.RiskLevel
	}{
		{models.ScamPhishing, 0, models.RiskMedium},
		{models.ScamWalletDrain, 0, models.RiskHigh},
		{models.ScamMaliciousContract, 50, models.RiskHigh},
		{models.ScamOther, 0, models.RiskLow},
		{models.ScamPhishing, 5000, models.RiskHigh},
		{models.ScamPhishing, 20000, models.RiskCritical},
		{models.ScamWalletDrain, 15000, models.RiskCritical},
	}
	for _, tc := range cases {
		if got := assessRisk(tc.scamType, tc.amount); got != tc.want {
			t.Errorf("assessRisk(%s, %.0f) = %s, want %s", tc.scamType, tc.amount, got, tc.want)
		}
	}
}
