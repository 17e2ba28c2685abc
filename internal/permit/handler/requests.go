package handler

import (
	"net/http"
	"strconv"
	"strings"

	"sipeka/internal/permit/models"
	"sipeka/internal/permit/query"
	"sipeka/internal/permit/service"
)

// submitRequest is the public application payload. All identity and
// research fields are required; attachments are optional references.
type submitRequest struct {
	ApplicantName    string `json:"applicant_name"`
	IDNumber         string `json:"id_number"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	University       string `json:"university"`
	ResearchTitle    string `json:"research_title"`
	ResearchLocation string `json:"research_location"`
	Duration         string `json:"duration"`
	Category         string `json:"category"`
	Documents        struct {
		KTP            string `json:"ktp"`
		Proposal       string `json:"proposal"`
		SuratPengantar string `json:"surat_pengantar"`
	} `json:"documents"`
}

func (r submitRequest) toDomain() service.SubmissionRequest {
	return service.SubmissionRequest{
		ApplicantName:    r.ApplicantName,
		IDNumber:         r.IDNumber,
		Email:            r.Email,
		Phone:            r.Phone,
		University:       r.University,
		ResearchTitle:    r.ResearchTitle,
		ResearchLocation: r.ResearchLocation,
		Duration:         r.Duration,
		Category:         r.Category,
		Documents: models.Documents{
			KTP:            r.Documents.KTP,
			Proposal:       r.Documents.Proposal,
			SuratPengantar: r.Documents.SuratPengantar,
		},
	}
}

// reviewRequest carries a staff decision.
type reviewRequest struct {
	Status string `json:"status"`
}

// archiveFilterFromQuery reads the archive filter parameters. Absent year
// and location mean "no constraint"; a non-numeric year is a bad request
// handled by the caller via the ok flag.
func archiveFilterFromQuery(r *http.Request) (query.ArchiveFilter, bool) {
	filter := query.ArchiveFilter{Search: r.URL.Query().Get("search")}

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, false
		}
		filter.Year = &year
	}
	if loc := r.URL.Query().Get("location"); loc != "" {
		filter.Location = &loc
	}
	return filter, true
}

// yearsFromQuery parses the optional comma-separated years parameter,
// skipping entries that do not parse.
func yearsFromQuery(r *http.Request) []int {
	raw := r.URL.Query().Get("years")
	if raw == "" {
		return nil
	}
	var years []int
	for _, part := range strings.Split(raw, ",") {
		if year, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			years = append(years, year)
		}
	}
	return years
}
