package handler

import (
	"sipeka/internal/permit/models"
)

// permitResponse is the public view of one permit. DisplayID is the
// cosmetic id segment tables and printed documents show.
type permitResponse struct {
	ID               string           `json:"id"`
	DisplayID        string           `json:"display_id"`
	ApplicantName    string           `json:"applicant_name"`
	IDNumber         string           `json:"id_number"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	University       string           `json:"university"`
	ResearchTitle    string           `json:"research_title"`
	ResearchLocation string           `json:"research_location"`
	Duration         string           `json:"duration"`
	Category         string           `json:"category"`
	SubmissionDate   string           `json:"submission_date"`
	Status           string           `json:"status"`
	Year             int              `json:"year"`
	Documents        models.Documents `json:"documents"`
}

func fromPermit(p *models.Permit) permitResponse {
	return permitResponse{
		ID:               p.ID,
		DisplayID:        p.DisplayID(),
		ApplicantName:    p.ApplicantName,
		IDNumber:         p.IDNumber,
		Email:            p.Email,
		Phone:            p.Phone,
		University:       p.University,
		ResearchTitle:    p.ResearchTitle,
		ResearchLocation: p.ResearchLocation,
		Duration:         p.Duration,
		Category:         p.Category,
		SubmissionDate:   p.SubmissionDate,
		Status:           string(p.Status),
		Year:             p.Year,
		Documents:        p.Documents,
	}
}

// listResponse wraps filtered permit sequences. Total is the full match
// count; Items may be a truncated prefix of the filtered order (never a
// ranking).
type listResponse struct {
	Total int              `json:"total"`
	Items []permitResponse `json:"items"`
}

func fromPermits(permits []*models.Permit, limit int) listResponse {
	total := len(permits)
	if limit > 0 && len(permits) > limit {
		permits = permits[:limit]
	}
	items := make([]permitResponse, len(permits))
	for i, p := range permits {
		items[i] = fromPermit(p)
	}
	return listResponse{Total: total, Items: items}
}

// reviewResponse confirms an applied decision.
type reviewResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// importResponse reports a completed import batch.
type importResponse struct {
	Imported int `json:"imported"`
}
