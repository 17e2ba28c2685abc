// Package importer converts externally-authored tabular permit data into
// canonical permits. Imports represent already-issued historical permits:
// every normalized record lands APPROVED with no attachments.
package importer

import (
	"strconv"
	"strings"
	"time"

	"sipeka/internal/permit/models"
)

// Row is one loosely-typed source record: column names in natural
// language, arbitrary ordering, some columns absent. Values may be
// strings or numbers depending on how the spreadsheet was exported.
type Row map[string]any

// fieldRule maps one canonical permit field onto a prioritized list of
// source column aliases with a fixed fallback. The table is data, not
// branching code, so extending the alias list never touches parsing.
type fieldRule struct {
	aliases  []string
	fallback string
	assign   func(p *models.Permit, v string)
}

var fieldRules = []fieldRule{
	{
		aliases:  []string{"Nama", "Nama Lengkap"},
		fallback: "Tanpa Nama",
		assign:   func(p *models.Permit, v string) { p.ApplicantName = v },
	},
	{
		aliases:  []string{"NIK"},
		fallback: "0000000000000000",
		assign:   func(p *models.Permit, v string) { p.IDNumber = v },
	},
	{
		aliases:  []string{"Email"},
		fallback: "import@example.com",
		assign:   func(p *models.Permit, v string) { p.Email = v },
	},
	{
		aliases:  []string{"HP", "Telepon"},
		fallback: "0800",
		assign:   func(p *models.Permit, v string) { p.Phone = v },
	},
	{
		aliases:  []string{"Instansi", "Kampus", "Universitas"},
		fallback: "Umum",
		assign:   func(p *models.Permit, v string) { p.University = v },
	},
	{
		aliases:  []string{"Judul", "Judul Penelitian"},
		fallback: "Penelitian Tanpa Judul",
		assign:   func(p *models.Permit, v string) { p.ResearchTitle = v },
	},
	{
		aliases:  []string{"Lokasi", "Kabupaten", "Kota"},
		fallback: "", // filled from the location enumeration below
		assign:   func(p *models.Permit, v string) { p.ResearchLocation = v },
	},
	{
		aliases:  []string{"Durasi"},
		fallback: "3 Bulan",
		assign:   func(p *models.Permit, v string) { p.Duration = v },
	},
	{
		aliases:  []string{"Kategori", "Bidang"},
		fallback: "", // filled from the category enumeration below
		assign:   func(p *models.Permit, v string) { p.Category = v },
	},
}

// Normalizer maps source rows to canonical permits. The clock is
// injectable so ids, default dates, and default years are deterministic
// under test.
type Normalizer struct {
	now func() time.Time
}

// New creates a Normalizer using the wall clock.
func New() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewWithClock creates a Normalizer with a fixed clock.
func NewWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize converts rows into permits. Per-field failures never abort a
// row; they fall back to the documented defaults. Ids are freshly
// generated from the batch timestamp plus the row index, so uniqueness
// never depends on source data.
func (n *Normalizer) Normalize(rows []Row) []*models.Permit {
	now := n.now()
	batch := now.UnixMilli()

	permits := make([]*models.Permit, 0, len(rows))
	for i, row := range rows {
		p := &models.Permit{
			ID:        "IMP-" + strconv.FormatInt(batch, 10) + "-" + strconv.Itoa(i),
			Status:    models.StatusApproved,
			Documents: models.Documents{},
		}

		for _, rule := range fieldRules {
			rule.assign(p, resolve(row, rule.aliases, rule.fallback))
		}
		if p.ResearchLocation == "" {
			p.ResearchLocation = models.Regencies[0]
		}
		if p.Category == "" {
			p.Category = models.Categories[0]
		}

		p.SubmissionDate = resolve(row, []string{"Tanggal"}, now.Format("2006-01-02"))
		p.Year = resolveYear(row, now.Year())

		permits = append(permits, p)
	}
	return permits
}

// resolve tries each alias in order and returns the first non-empty
// value, else the fallback.
func resolve(row Row, aliases []string, fallback string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return fallback
}

// resolveYear parses the Tahun column as an integer, falling back to the
// current calendar year.
func resolveYear(row Row, fallback int) int {
	v, ok := row["Tahun"]
	if !ok {
		return fallback
	}
	year, err := strconv.Atoi(stringify(v))
	if err != nil {
		return fallback
	}
	return year
}

// stringify renders a loosely-typed cell value. Spreadsheet exports turn
// numeric columns (NIK, phone, year) into numbers; render them without an
// exponent or trailing zeros.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case nil:
		return ""
	default:
		return ""
	}
}
