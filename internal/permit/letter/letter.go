// Package letter resolves an issued permit into the formal document
// payload rendered by the print template. The core guarantees every
// field a renderer needs is present and non-empty; layout is not its
// concern.
package letter

import (
	"strconv"
	"time"

	"sipeka/internal/permit/models"
	dErrors "sipeka/pkg/domain-errors"
)

// Agency heading lines reproduced on every issued document.
const (
	IssuingProvince = "Pemerintah Provinsi Nusa Tenggara Barat"
	IssuingAgency   = "Badan Kesatuan Bangsa dan Politik Dalam Negeri"
	IssuedPlace     = "Mataram"
)

// Document carries everything the print template needs for one permit.
type Document struct {
	Number           string           `json:"number"`
	PermitID         string           `json:"permit_id"`
	ApplicantName    string           `json:"applicant_name"`
	IDNumber         string           `json:"id_number"`
	University       string           `json:"university"`
	Category         string           `json:"category"`
	ResearchTitle    string           `json:"research_title"`
	ResearchLocation string           `json:"research_location"`
	Duration         string           `json:"duration"`
	IssuedPlace      string           `json:"issued_place"`
	IssuedDate       string           `json:"issued_date"`
	Province         string           `json:"province"`
	Agency           string           `json:"agency"`
	Documents        models.Documents `json:"documents"`
}

// indonesianMonths indexes month names for the id-ID long date format.
var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Build resolves an approved permit into its document payload. Pending
// and rejected permits are refused: only issued permits are printable.
func Build(p *models.Permit) (*Document, error) {
	if p.Status != models.StatusApproved {
		return nil, dErrors.New(dErrors.CodeValidation, "permit is not approved for printing")
	}
	return &Document{
		Number:           Number(p),
		PermitID:         p.ID,
		ApplicantName:    p.ApplicantName,
		IDNumber:         p.IDNumber,
		University:       p.University,
		Category:         p.Category,
		ResearchTitle:    p.ResearchTitle,
		ResearchLocation: p.ResearchLocation,
		Duration:         p.Duration,
		IssuedPlace:      IssuedPlace,
		IssuedDate:       formatDate(p.SubmissionDate),
		Province:         IssuingProvince,
		Agency:           IssuingAgency,
		Documents:        p.Documents,
	}, nil
}

// Number builds the registry number printed in the document header:
// the fixed classification code, the cosmetic last segment of the permit
// id, the agency short name, and the permit year.
func Number(p *models.Permit) string {
	return "070 / " + p.DisplayID() + " / Bakesbangpoldagri / " + strconv.Itoa(p.Year)
}

// formatDate renders an ISO calendar date in the Indonesian long form
// ("17 Agustus 2025"). Dates that do not parse are passed through
// unchanged rather than dropped; the submission date is display-only here.
func formatDate(isoDate string) string {
	for _, layout := range []string{"2006-01-02", "2006-1-2"} {
		if t, err := time.Parse(layout, isoDate); err == nil {
			return strconv.Itoa(t.Day()) + " " + indonesianMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
		}
	}
	return isoDate
}
