package reports

import (
	"testing"
	"time"

	"github.com/scamshield/scamshield/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func report(id string, mutate func(*models.Report)) models.Report {
	r := models.Report{
		ID:              id,
		Title:           "Report " + id,
		Description:     "A scam report used in pipeline tests.",
		ScamType:        models.ScamPhishing,
		Status:          models.StatusPending,
		RiskLevel:       models.RiskMedium,
		ReporterAddress: "0x" + pad64("aa"),
		ScammerAddress:  "0x" + pad64("bb"),
		CreatedAt:       testNow.AddDate(0, 0, -2),
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func pad64(prefix string) string {
	s := prefix
	for len(s) < 64 {
		s += "0"
	}
	return s
}

func ids(reports []models.Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func assertOrder(t *testing.T, got []models.Report, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestComputeVisibleNoConstraints(t *testing.T) {
	in := []models.Report{report("a", nil), report("b", nil), report("c", nil)}
	out := ComputeVisible(in, DefaultFilters(), "", SortNewest, testNow)
	assertOrder(t, out, "a", "b", "c")
}

func TestComputeVisibleDoesNotMutateInput(t *testing.T) {
	in := []models.Report{
		report("a", func(r *models.Report) { r.CreatedAt = testNow.AddDate(0, 0, -5) }),
		report("b", func(r *models.Report) { r.CreatedAt = testNow.AddDate(0, 0, -1) }),
	}
	out := ComputeVisible(in, DefaultFilters(), "", SortNewest, testNow)
	assertOrder(t, out, "b", "a")
	if in[0].ID != "a" || in[1].ID != "b" {
		t.Fatalf("input slice reordered: %v", ids(in))
	}
}

func TestSearchMatchesAnyField(t *testing.T) {
	in := []models.Report{
		report("title", func(r *models.Report) { r.Title = "Fake NFT Mint" }),
		report("reporter", func(r *models.Report) { r.ReporterAddress = "0x" + pad64("deadbeef") }),
		report("scammer", func(r *models.Report) { r.ScammerAddress = "0x" + pad64("cafe") }),
		report("type", func(r *models.Report) { r.ScamType = models.ScamRugPull }),
		report("desc", func(r *models.Report) { r.Description = "Drained my wallet through a fake airdrop page." }),
		report("digest", func(r *models.Report) { r.TransactionHash = "9pXq4fUvW2mKjR8sT3nY6bC1dE5gH7aL" }),
	}

	cases := []struct {
		term string
		want string
	}{
		{"fake nft", "title"},
		{"DEADBEEF", "reporter"},
		{"cafe", "scammer"},
		{"rugpull", "type"},
		{"airdrop", "desc"},
		{"9pxq4", "digest"},
	}
	for _, tc := range cases {
		out := ComputeVisible(in, DefaultFilters(), tc.term, SortNewest, testNow)
		found := false
		for _, r := range out {
			if r.ID == tc.want {
				found = true
			}
		}
		if !found {
			t.Errorf("term %q: %q not in results %v", tc.term, tc.want, ids(out))
		}
	}
}

func TestSearchNoMatchYieldsEmpty(t *testing.T) {
	in := []models.Report{report("a", nil), report("b", nil)}
	out := ComputeVisible(in, DefaultFilters(), "zzzznotfound", SortNewest, testNow)
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %v", ids(out))
	}
}

func TestFiltersNarrowIndependently(t *testing.T) {
	in := []models.Report{
		report("a", func(r *models.Report) {
			r.ScamType = models.ScamPhishing
			r.Status = models.StatusVerified
			r.RiskLevel = models.RiskHigh
		}),
		report("b", func(r *models.Report) {
			r.ScamType = models.ScamPonzi
			r.Status = models.StatusPending
			r.RiskLevel = models.RiskHigh
		}),
		report("c", func(r *models.Report) {
			r.ScamType = models.ScamPhishing
			r.Status = models.StatusPending
			r.RiskLevel = models.RiskLow
		}),
	}

	f := DefaultFilters()
	f.ScamType = string(models.ScamPhishing)
	assertOrder(t, ComputeVisible(in, f, "", SortNewest, testNow), "a", "c")

	f = DefaultFilters()
	f.Status = string(models.StatusPending)
	assertOrder(t, ComputeVisible(in, f, "", SortNewest, testNow), "b", "c")

	f = DefaultFilters()
	f.RiskLevel = string(models.RiskHigh)
	assertOrder(t, ComputeVisible(in, f, "", SortNewest, testNow), "a", "b")
}

func TestFiltersCombineWithSearch(t *testing.T) {
	in := []models.Report{
		report("a", func(r *models.Report) {
			r.Title = "Phishing site clone"
			r.Status = models.StatusVerified
		}),
		report("b", func(r *models.Report) {
			r.Title = "Phishing wallet popup"
			r.Status = models.StatusPending
		}),
		report("c", func(r *models.Report) {
			r.Title = "Rug pull token"
			r.Status = models.StatusVerified
		}),
	}
	f := DefaultFilters()
	f.Status = string(models.StatusVerified)
	assertOrder(t, ComputeVisible(in, f, "phishing", SortNewest, testNow), "a")
}

func TestDateRangeCutoffs(t *testing.T) {
	in := []models.Report{
		report("hours", func(r *models.Report) { r.CreatedAt = testNow.Add(-6 * time.Hour) }),
		report("days", func(r *models.Report) { r.CreatedAt = testNow.AddDate(0, 0, -3) }),
		report("weeks", func(r *models.Report) { r.CreatedAt = testNow.AddDate(0, 0, -20) }),
		report("months", func(r *models.Report) { r.CreatedAt = testNow.AddDate(0, -3, 0) }),
	}

	cases := []struct {
		dateRange string
		want      []string
	}{
		{RangeDay, []string{"hours"}},
		{RangeWeek, []string{"hours", "days"}},
		{RangeMonth, []string{"hours", "days", "weeks"}},
		{FilterAll, []string{"hours", "days", "weeks", "months"}},
	}
	for _, tc := range cases {
		f := DefaultFilters()
		f.DateRange = tc.dateRange
		out := ComputeVisible(in, f, "", SortNewest, testNow)
		assertOrder(t, out, tc.want...)
	}
}

func TestSortNewestOldest(t *testing.T) {
	in := []models.Report{
		report("mid", func(r *models.Report) { r.CreatedAt = testNow.AddDate(0, 0, -5) }),
		report("new", func(r *models.Report) { r.CreatedAt = testNow.AddDate(0, 0, -1) }),
		report("old", func(r *models.Report) { r.CreatedAt = testNow.AddDate(0, 0, -9) }),
	}
	assertOrder(t, ComputeVisible(in, DefaultFilters(), "", SortNewest, testNow), "new", "mid", "old")
	assertOrder(t, ComputeVisible(in, DefaultFilters(), "", SortOldest, testNow), "old", "mid", "new")
}

func TestSortHighestRiskIsStable(t *testing.T) {
	levels := []models.RiskLevel{models.RiskLow, models.RiskCritical, models.RiskMedium, models.RiskCritical, models.RiskHigh}
	in := make([]models.Report, len(levels))
	for i, lvl := range levels {
		in[i] = report(string(rune('a'+i)), func(r *models.Report) { r.RiskLevel = lvl })
	}
	out := ComputeVisible(in, DefaultFilters(), "", SortHighestRisk, testNow)
	// The two critical reports keep their input order (b before d).
	assertOrder(t, out, "b", "d", "e", "c", "a")
}

func TestSortUnknownRiskSortsLast(t *testing.T) {
	in := []models.Report{
		report("weird", func(r *models.Report) { r.RiskLevel = models.RiskLevel("glowing") }),
		report("low", func(r *models.Report) { r.RiskLevel = models.RiskLow }),
	}
	assertOrder(t, ComputeVisible(in, DefaultFilters(), "", SortHighestRisk, testNow), "low", "weird")
}

func TestSortMostVerifiedAndHighestAmount(t *testing.T) {
	in := []models.Report{
		report("a", func(r *models.Report) { r.VerificationCount = 1; r.TransactionAmount = 500 }),
		report("b", func(r *models.Report) { r.VerificationCount = 7; r.TransactionAmount = 0 }),
		report("c", func(r *models.Report) { r.VerificationCount = 3; r.TransactionAmount = 1200 }),
	}
	assertOrder(t, ComputeVisible(in, DefaultFilters(), "", SortMostVerified, testNow), "b", "c", "a")
	assertOrder(t, ComputeVisible(in, DefaultFilters(), "", SortHighestAmount, testNow), "c", "a", "b")
}

func TestUnknownScamTypeMatchesOnlyAll(t *testing.T) {
	in := []models.Report{
		report("odd", func(r *models.Report) { r.ScamType = models.ScamType("quantum_heist") }),
	}
	f := DefaultFilters()
	f.ScamType = string(models.ScamPhishing)
	if out := ComputeVisible(in, f, "", SortNewest, testNow); len(out) != 0 {
		t.Fatalf("unknown scam type matched a narrowing filter: %v", ids(out))
	}
	assertOrder(t, ComputeVisible(in, DefaultFilters(), "", SortNewest, testNow), "odd")
}

func TestFilterStateActive(t *testing.T) {
	if DefaultFilters().Active() {
		t.Fatal("default filters reported active")
	}
	f := DefaultFilters()
	f.RiskLevel = string(models.RiskHigh)
	if !f.Active() {
		t.Fatal("narrowed filters reported inactive")
	}
}
