// Package models defines the research permit entity and the bounded
// administrative sets it draws from.
package models

import (
	"strings"

	dErrors "sipeka/pkg/domain-errors"
)

// Status is the review state of a permit.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Valid reports whether s is one of the three review states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Regencies is the fixed set of NTB administrative regions a research
// location is drawn from. Order matters: aggregation tie-breaks and
// import defaults both reference it.
var Regencies = []string{
	"Kota Mataram",
	"Lombok Barat",
	"Lombok Tengah",
	"Lombok Timur",
	"Lombok Utara",
	"Sumbawa",
	"Sumbawa Barat",
	"Dompu",
	"Bima",
	"Kota Bima",
}

// Categories is the fixed set of research domains. Order matters for the
// same reasons as Regencies.
var Categories = []string{
	"Sosial & Budaya",
	"Pendidikan",
	"Ekonomi & Bisnis",
	"Agama",
	"Lingkungan Hidup",
	"Politik",
	"Teknologi Informatika",
	"Kesehatan",
}

// KnownRegency reports whether loc is in the Regencies set.
func KnownRegency(loc string) bool {
	for _, r := range Regencies {
		if r == loc {
			return true
		}
	}
	return false
}

// KnownCategory reports whether cat is in the Categories set.
func KnownCategory(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Documents holds named attachment references. Presence only; content is
// opaque to the core.
type Documents struct {
	KTP            string `json:"ktp,omitempty"`
	Proposal       string `json:"proposal,omitempty"`
	SuratPengantar string `json:"surat_pengantar,omitempty"`
}

// Empty reports whether no attachment reference is present.
func (d Documents) Empty() bool {
	return d.KTP == "" && d.Proposal == "" && d.SuratPengantar == ""
}

// Permit is the central entity: one research-permit application or
// issued record.
//
// Invariants:
//   - ID is unique within the store for the process lifetime
//   - Status is the only field that changes after creation, and only via
//     the store's status-transition operation
//   - Year is set at creation and is not necessarily derived from
//     SubmissionDate (imports set it independently)
//
// Status transitions are deliberately unconstrained: staff may re-open a
// rejected permit. Tightening this into a state machine would change
// observable behavior.
type Permit struct {
	ID               string    `json:"id"`
	ApplicantName    string    `json:"applicant_name"`
	IDNumber         string    `json:"id_number"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	University       string    `json:"university"`
	ResearchTitle    string    `json:"research_title"`
	ResearchLocation string    `json:"research_location"`
	Duration         string    `json:"duration"`
	Category         string    `json:"category"`
	SubmissionDate   string    `json:"submission_date"`
	Status           Status    `json:"status"`
	Year             int       `json:"year"`
	Documents        Documents `json:"documents"`
}

// Validate checks the fields required for a permit to enter the store.
func (p *Permit) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return dErrors.New(dErrors.CodeValidation, "permit id is required")
	}
	if strings.TrimSpace(p.ApplicantName) == "" {
		return dErrors.New(dErrors.CodeValidation, "applicant name is required")
	}
	if strings.TrimSpace(p.IDNumber) == "" {
		return dErrors.New(dErrors.CodeValidation, "id number is required")
	}
	if strings.TrimSpace(p.ResearchTitle) == "" {
		return dErrors.New(dErrors.CodeValidation, "research title is required")
	}
	if !p.Status.Valid() {
		return dErrors.New(dErrors.CodeValidation, "invalid status "+string(p.Status))
	}
	return nil
}

// DisplayID is the cosmetic last segment of the permit identifier, used on
// printed documents and archive tables. No other code may rely on the
// internal structure of an ID beyond uniqueness.
func (p *Permit) DisplayID() string {
	if idx := strings.LastIndex(p.ID, "-"); idx != -1 {
		return p.ID[idx+1:]
	}
	return p.ID
}
