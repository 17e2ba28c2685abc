// Package stats computes the dashboard projections over the full permit
// collection. Everything is recomputed from the snapshot on every call;
// there is no cached denominator.
package stats

import (
	"math"
	"sort"
	"strconv"

	"sipeka/internal/permit/models"
)

// Totals is the portal-wide status summary.
type Totals struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// YearPoint is one year of the growth trend. Total counts every permit in
// the year regardless of status; Approved counts only issued ones.
type YearPoint struct {
	Year     int `json:"year"`
	Total    int `json:"total"`
	Approved int `json:"approved"`
}

// CategoryShare is one research domain's slice of the whole collection.
// Percentage is a fixed-point string with exactly one decimal digit
// ("75.0", "0.0") so renderers never re-round.
type CategoryShare struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// LocationCount is one regency's permit count.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// StatusTotals counts permits by review state over the entire collection.
func StatusTotals(permits []*models.Permit) Totals {
	t := Totals{Total: len(permits)}
	for _, p := range permits {
		switch p.Status {
		case models.StatusApproved:
			t.Approved++
		case models.StatusPending:
			t.Pending++
		case models.StatusRejected:
			t.Rejected++
		}
	}
	return t
}

// YearlyTrend buckets permits into the given ordered year sequence.
func YearlyTrend(permits []*models.Permit, years []int) []YearPoint {
	points := make([]YearPoint, len(years))
	for i, year := range years {
		point := YearPoint{Year: year}
		for _, p := range permits {
			if p.Year != year {
				continue
			}
			point.Total++
			if p.Status == models.StatusApproved {
				point.Approved++
			}
		}
		points[i] = point
	}
	return points
}

// CategoryBreakdown counts permits per category and annotates each with
// its percentage share of the call-time total. Results are sorted
// descending by count; ties keep the category-set order (stable sort).
func CategoryBreakdown(permits []*models.Permit, categories []string) []CategoryShare {
	counts := make(map[string]int, len(categories))
	for _, p := range permits {
		counts[p.Category]++
	}

	total := len(permits)
	shares := make([]CategoryShare, len(categories))
	for i, cat := range categories {
		shares[i] = CategoryShare{
			Category:   cat,
			Count:      counts[cat],
			Percentage: formatPercent(counts[cat], total),
		}
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Count > shares[j].Count
	})
	return shares
}

// LocationBreakdown counts permits per location, sorted descending by
// count with ties keeping the location-set order. Consumers needing only
// the densest N locations take a prefix.
func LocationBreakdown(permits []*models.Permit, locations []string) []LocationCount {
	counts := make(map[string]int, len(locations))
	for _, p := range permits {
		counts[p.ResearchLocation]++
	}

	out := make([]LocationCount, len(locations))
	for i, loc := range locations {
		out[i] = LocationCount{Location: loc, Count: counts[loc]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// formatPercent renders count/total*100 rounded half-up to one decimal
// digit. A zero total yields "0.0", never NaN.
func formatPercent(count, total int) string {
	if total == 0 {
		return "0.0"
	}
	pct := float64(count) / float64(total) * 100
	rounded := math.Round(pct*10) / 10
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}
