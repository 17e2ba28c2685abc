// Package query derives read-only subsets of the permit collection.
// Functions are pure: they take a snapshot from the store and never
// mutate it. Results preserve store insertion order; no secondary sort
// is applied anywhere.
package query

import (
	"strings"

	"sipeka/internal/permit/models"
)

// ArchiveFilter narrows the approved-permit archive. All present filters
// are conjunctive. Nil Year/Location mean "no constraint".
type ArchiveFilter struct {
	Search   string
	Year     *int
	Location *string
}

// Pending returns permits awaiting verification whose applicant name or
// university contains search as a case-insensitive substring. An empty
// search matches all pending permits.
func Pending(permits []*models.Permit, search string) []*models.Permit {
	needle := strings.ToLower(search)
	var out []*models.Permit
	for _, p := range permits {
		if p.Status != models.StatusPending {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.ApplicantName), needle) &&
			!strings.Contains(strings.ToLower(p.University), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Approved returns issued permits matching the filter: a case-insensitive
// substring match against applicant name, university, or research title,
// narrowed by exact year and exact location when given.
func Approved(permits []*models.Permit, filter ArchiveFilter) []*models.Permit {
	needle := strings.ToLower(filter.Search)
	var out []*models.Permit
	for _, p := range permits {
		if p.Status != models.StatusApproved {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.ApplicantName), needle) &&
			!strings.Contains(strings.ToLower(p.University), needle) &&
			!strings.Contains(strings.ToLower(p.ResearchTitle), needle) {
			continue
		}
		if filter.Year != nil && p.Year != *filter.Year {
			continue
		}
		if filter.Location != nil && p.ResearchLocation != *filter.Location {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FindByIdentifier returns the first permit whose national id number or
// permit id equals q. Matching is exact: no digit stripping, and permit
// ids are case-sensitive.
func FindByIdentifier(permits []*models.Permit, q string) (*models.Permit, bool) {
	for _, p := range permits {
		if p.IDNumber == q || p.ID == q {
			return p, true
		}
	}
	return nil, false
}
