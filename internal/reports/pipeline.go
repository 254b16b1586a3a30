// Package reports computes the visible, ordered report list from a fetched
// page plus the current filter and sort selections. The computation is a pure
// function of its inputs so it is safe (and cheap) to rerun on every
// keystroke: a handful of linear passes over a page-sized slice, no I/O.
package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/scamshield/scamshield/internal/models"
)

// FilterAll is the sentinel meaning "no constraint" for every filter field.
const FilterAll = "all"

// Date-range filter values.
const (
	RangeDay   = "day"
	RangeWeek  = "week"
	RangeMonth = "month"
)

// SortKey selects the ordering of the surviving reports.
type SortKey string

const (
	SortNewest        SortKey = "date-desc"
	SortOldest        SortKey = "date-asc"
	SortHighestRisk   SortKey = "risk-desc"
	SortMostVerified  SortKey = "verifications-desc"
	SortHighestAmount SortKey = "amount-desc"
)

// AllSortKeys is the ordered list of selectable sort keys.
var AllSortKeys = []SortKey{SortNewest, SortOldest, SortHighestRisk, SortMostVerified, SortHighestAmount}

// Label returns the display label for a sort key.
func (k SortKey) Label() string {
	switch k {
	case SortNewest:
		return "Newest First"
	case SortOldest:
		return "Oldest First"
	case SortHighestRisk:
		return "Highest Risk"
	case SortMostVerified:
		return "Most Verified"
	case SortHighestAmount:
		return "Highest Amount"
	default:
		return string(k)
	}
}

// FilterState holds the current filter selections. Each value is either
// FilterAll or one of the enumerated values for its field.
type FilterState struct {
	ScamType  string
	Status    string
	RiskLevel string
	DateRange string
}

// DefaultFilters returns the all-pass filter state.
func DefaultFilters() FilterState {
	return FilterState{
		ScamType:  FilterAll,
		Status:    FilterAll,
		RiskLevel: FilterAll,
		DateRange: FilterAll,
	}
}

// Active reports whether any filter narrows the result.
func (f FilterState) Active() bool {
	return f != DefaultFilters()
}

// ComputeVisible applies search, filters, and sort to one fetched page of
// reports, in that fixed order, and returns a new slice. The input slice is
// never mutated. Unknown enumerated values on a record match only FilterAll.
// now anchors the date-range cutoffs.
func ComputeVisible(raw []models.Report, filters FilterState, searchTerm string, sortKey SortKey, now time.Time) []models.Report {
	visible := make([]models.Report, 0, len(raw))
	visible = append(visible, raw...)

	if term := strings.ToLower(strings.TrimSpace(searchTerm)); term != "" {
		visible = keep(visible, func(r models.Report) bool {
			return matchesSearch(r, term)
		})
	}

	if filters.ScamType != FilterAll && filters.ScamType != "" {
		visible = keep(visible, func(r models.Report) bool {
			return string(r.ScamType) == filters.ScamType
		})
	}

	if filters.Status != FilterAll && filters.Status != "" {
		visible = keep(visible, func(r models.Report) bool {
			return string(r.Status) == filters.Status
		})
	}

	if filters.RiskLevel != FilterAll && filters.RiskLevel != "" {
		visible = keep(visible, func(r models.Report) bool {
			return string(r.RiskLevel) == filters.RiskLevel
		})
	}

	if cutoff, ok := rangeCutoff(filters.DateRange, now); ok {
		visible = keep(visible, func(r models.Report) bool {
			return !r.CreatedAt.Before(cutoff)
		})
	}

	sortReports(visible, sortKey)
	return visible
}

// keep filters in place over the already-copied working slice.
func keep(reports []models.Report, pred func(models.Report) bool) []models.Report {
	out := reports[:0]
	for _, r := range reports {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// matchesSearch reports whether the lower-cased term is a substring of any
// searched field: title, reporter address, scammer address, scam type,
// description, or transaction digest.
func matchesSearch(r models.Report, term string) bool {
	for _, field := range []string{
		r.Title,
		r.ReporterAddress,
		r.ScammerAddress,
		string(r.ScamType),
		r.Description,
		r.TransactionHash,
	} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// rangeCutoff translates a date-range selection into a creation-time cutoff.
func rangeCutoff(dateRange string, now time.Time) (time.Time, bool) {
	switch dateRange {
	case RangeDay:
		return now.AddDate(0, 0, -1), true
	case RangeWeek:
		return now.AddDate(0, 0, -7), true
	case RangeMonth:
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}

// sortReports orders the slice by the sort key. The sort is stable: records
// with equal keys preserve their original relative order.
func sortReports(reports []models.Report, key SortKey) {
	switch key {
	case SortNewest:
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].CreatedAt.After(reports[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].CreatedAt.Before(reports[j].CreatedAt)
		})
	case SortHighestRisk:
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].RiskLevel.Rank() > reports[j].RiskLevel.Rank()
		})
	case SortMostVerified:
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].VerificationCount > reports[j].VerificationCount
		})
	case SortHighestAmount:
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].TransactionAmount > reports[j].TransactionAmount
		})
	}
}
