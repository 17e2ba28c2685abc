// Package service orchestrates the permit store, query engine,
// aggregation engine, and import normalizer. Handlers stay thin;
// orchestration and error translation live here.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"sipeka/internal/permit/importer"
	"sipeka/internal/permit/letter"
	"sipeka/internal/permit/metrics"
	"sipeka/internal/permit/models"
	"sipeka/internal/permit/query"
	"sipeka/internal/permit/stats"
	"sipeka/internal/permit/store"
	dErrors "sipeka/pkg/domain-errors"
	"sipeka/pkg/platform/sentinel"
	"sipeka/pkg/requestcontext"
)

// Service coordinates all permit operations over the injected store.
type Service struct {
	store       store.Store
	metrics     *metrics.Metrics
	reportYears []int

	// seq issues year-scoped sequence numbers for submission ids.
	mu  sync.Mutex
	seq map[int]int
}

// New creates a permit service. metrics may be nil in tests.
func New(st store.Store, m *metrics.Metrics, reportYears []int) *Service {
	return &Service{
		store:       st,
		metrics:     m,
		reportYears: reportYears,
		seq:         make(map[int]int),
	}
}

// SubmissionRequest is a fully-populated application from the public
// portal. Partial submissions are rejected, not defaulted: defaults are
// an import concern only.
type SubmissionRequest struct {
	ApplicantName    string
	IDNumber         string
	Email            string
	Phone            string
	University       string
	ResearchTitle    string
	ResearchLocation string
	Duration         string
	Category         string
	Documents        models.Documents
}

func (r SubmissionRequest) validate() error {
	required := []struct {
		value, name string
	}{
		{r.ApplicantName, "applicant name"},
		{r.IDNumber, "id number"},
		{r.Email, "email"},
		{r.Phone, "phone"},
		{r.University, "university"},
		{r.ResearchTitle, "research title"},
		{r.ResearchLocation, "research location"},
		{r.Duration, "duration"},
		{r.Category, "category"},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return dErrors.New(dErrors.CodeValidation, f.name+" is required")
		}
	}
	if !models.KnownRegency(r.ResearchLocation) {
		return dErrors.New(dErrors.CodeValidation, "unknown research location "+r.ResearchLocation)
	}
	if !models.KnownCategory(r.Category) {
		return dErrors.New(dErrors.CodeValidation, "unknown category "+r.Category)
	}
	return nil
}

// Submit creates a new pending permit from a portal application. The id
// is a year-scoped sequence; the submission date and year come from the
// request-scoped clock.
func (s *Service) Submit(ctx context.Context, req SubmissionRequest) (*models.Permit, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	year := now.Year()

	for {
		permit := &models.Permit{
			ID:               fmt.Sprintf("PERMIT-%d-%d", year, s.nextSeq(year)),
			ApplicantName:    req.ApplicantName,
			IDNumber:         req.IDNumber,
			Email:            req.Email,
			Phone:            req.Phone,
			University:       req.University,
			ResearchTitle:    req.ResearchTitle,
			ResearchLocation: req.ResearchLocation,
			Duration:         req.Duration,
			Category:         req.Category,
			SubmissionDate:   now.Format("2006-01-02"),
			Status:           models.StatusPending,
			Year:             year,
			Documents:        req.Documents,
		}

		err := s.store.Append(ctx, permit)
		if err == nil {
			s.metrics.IncrementSubmissions()
			return permit, nil
		}
		// A sequence collision means the counter lags records loaded by
		// other paths; advance and try the next number.
		if errors.Is(err, sentinel.ErrConflict) {
			continue
		}
		return nil, err
	}
}

// Review applies a staff decision to a permit. The boolean reports
// whether a permit with the given id existed; absence is an explicit
// no-result, not an error.
func (s *Service) Review(ctx context.Context, id string, status models.Status) (bool, error) {
	if !status.Valid() {
		return false, dErrors.New(dErrors.CodeValidation, "invalid status "+string(status))
	}
	updated, err := s.store.SetStatus(ctx, id, status)
	if err != nil {
		return false, translate(err)
	}
	if updated {
		s.metrics.IncrementReviews(string(status))
	}
	return updated, nil
}

// PendingQueue returns the verification queue filtered by search text.
func (s *Service) PendingQueue(ctx context.Context, search string) ([]*models.Permit, error) {
	permits, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return query.Pending(permits, search), nil
}

// Archive returns issued permits matching the filter, in insertion order.
func (s *Service) Archive(ctx context.Context, filter query.ArchiveFilter) ([]*models.Permit, error) {
	permits, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return query.Approved(permits, filter), nil
}

// Track looks a permit up by national id number or permit id.
func (s *Service) Track(ctx context.Context, q string) (*models.Permit, bool, error) {
	permits, err := s.store.All(ctx)
	if err != nil {
		return nil, false, err
	}
	permit, found := query.FindByIdentifier(permits, q)
	if found {
		s.metrics.IncrementTrackLookups("found")
	} else {
		s.metrics.IncrementTrackLookups("not_found")
	}
	return permit, found, nil
}

// DashboardReport bundles every aggregation the dashboard renders.
type DashboardReport struct {
	Totals     stats.Totals          `json:"totals"`
	Yearly     []stats.YearPoint     `json:"yearly"`
	Categories []stats.CategoryShare `json:"categories"`
	Locations  []stats.LocationCount `json:"locations"`
}

// Dashboard recomputes all projections over the current snapshot. When
// years is empty the configured report window is used.
func (s *Service) Dashboard(ctx context.Context, years []int) (*DashboardReport, error) {
	start := time.Now()
	permits, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		years = s.reportYears
	}
	report := &DashboardReport{
		Totals:     stats.StatusTotals(permits),
		Yearly:     stats.YearlyTrend(permits, years),
		Categories: stats.CategoryBreakdown(permits, models.Categories),
		Locations:  stats.LocationBreakdown(permits, models.Regencies),
	}
	s.metrics.ObserveDashboard(start)
	return report, nil
}

// Import normalizes externally-authored rows and appends them atomically.
// Returns the number of permits added. Row defaults derive from the
// request-scoped clock so a batch carries one consistent import date.
func (s *Service) Import(ctx context.Context, rows []importer.Row) (int, error) {
	if len(rows) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "import source has no rows")
	}
	normalizer := importer.NewWithClock(func() time.Time { return requestcontext.Now(ctx) })
	permits := normalizer.Normalize(rows)

	if err := s.store.AppendBatch(ctx, permits); err != nil {
		return 0, translate(err)
	}
	s.advanceSeq(permits)
	s.metrics.RecordImport(len(permits))
	return len(permits), nil
}

// Letter resolves an issued permit into its printable document payload.
// The boolean reports whether the permit exists at all.
func (s *Service) Letter(ctx context.Context, id string) (*letter.Document, bool, error) {
	permits, err := s.store.All(ctx)
	if err != nil {
		return nil, false, err
	}
	permit, found := query.FindByIdentifier(permits, id)
	if !found {
		return nil, false, nil
	}
	doc, err := letter.Build(permit)
	if err != nil {
		return nil, true, err
	}
	s.metrics.IncrementLetters()
	return doc, true, nil
}

// Bootstrap loads an initial dataset (the startup seed) and advances the
// submission sequence past any year-scoped ids it contains.
func (s *Service) Bootstrap(ctx context.Context, permits []*models.Permit) error {
	if err := s.store.AppendBatch(ctx, permits); err != nil {
		return translate(err)
	}
	s.advanceSeq(permits)
	return nil
}

func (s *Service) nextSeq(year int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq[year] == 0 {
		s.seq[year] = 1
	}
	n := s.seq[year]
	s.seq[year]++
	return n
}

// advanceSeq moves each year's counter beyond any numeric id suffix in
// the given records, so future submissions never race loaded history.
func (s *Service) advanceSeq(permits []*models.Permit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range permits {
		if n, err := strconv.Atoi(p.DisplayID()); err == nil && n >= s.seq[p.Year] {
			s.seq[p.Year] = n + 1
		}
	}
}

// translate converts store sentinel errors into caller-facing domain
// errors. Identifier conflicts surface as validation failures per the
// store contract.
func translate(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeValidation, err.Error())
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeValidation, err.Error())
	default:
		return err
	}
}
