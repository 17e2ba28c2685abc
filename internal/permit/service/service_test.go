package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sipeka/internal/permit/importer"
	"sipeka/internal/permit/models"
	"sipeka/internal/permit/query"
	"sipeka/internal/permit/store"
	dErrors "sipeka/pkg/domain-errors"
	"sipeka/pkg/requestcontext"
	"sipeka/pkg/testutil"
)

var reportYears = []int{2023, 2024, 2025, 2026}

func newService() *Service {
	return New(store.NewInMemory(), nil, reportYears)
}

func fixedCtx(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func submission() SubmissionRequest {
	return SubmissionRequest{
		ApplicantName:    "Budi Pratama",
		IDNumber:         "5201234567890001",
		Email:            "budi@example.com",
		Phone:            "081234567890",
		University:       "Universitas Mataram",
		ResearchTitle:    "Dampak Pariwisata di Lombok",
		ResearchLocation: "Lombok Barat",
		Duration:         "3 Bulan",
		Category:         "Sosial & Budaya",
	}
}

func storedPermit(id, idNumber string, status models.Status) *models.Permit {
	return &models.Permit{
		ID: id, ApplicantName: "Siti Lestari", IDNumber: idNumber,
		Email: "siti@example.com", Phone: "0812", University: "UIN Mataram",
		ResearchTitle: "Budaya Sasak", ResearchLocation: "Lombok Timur",
		Duration: "3 Bulan", Category: "Sosial & Budaya",
		SubmissionDate: "2025-02-01", Status: status, Year: 2025,
	}
}

func TestSubmit(t *testing.T) {
	ctx := fixedCtx(time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC))

	t.Run("creates a pending permit with a year-scoped id", func(t *testing.T) {
		svc := newService()

		first, err := svc.Submit(ctx, submission())
		require.NoError(t, err)
		assert.Equal(t, "PERMIT-2026-1", first.ID)
		assert.Equal(t, models.StatusPending, first.Status)
		assert.Equal(t, "2026-03-05", first.SubmissionDate)
		assert.Equal(t, 2026, first.Year)

		second, err := svc.Submit(ctx, submission())
		require.NoError(t, err)
		assert.Equal(t, "PERMIT-2026-2", second.ID)
	})

	t.Run("sequence advances past bootstrapped history", func(t *testing.T) {
		svc := newService()
		require.NoError(t, svc.Bootstrap(ctx, []*models.Permit{
			storedPermit("PERMIT-2026-5", "111", models.StatusApproved),
		}))

		p, err := svc.Submit(ctx, submission())
		require.NoError(t, err)
		assert.Equal(t, "PERMIT-2026-6", p.ID)
	})

	t.Run("rejects incomplete or unknown-value submissions", func(t *testing.T) {
		svc := newService()

		partial := submission()
		partial.Email = ""
		_, err := svc.Submit(ctx, partial)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))

		badLocation := submission()
		badLocation.ResearchLocation = "Jakarta Selatan"
		_, err = svc.Submit(ctx, badLocation)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func TestReview(t *testing.T) {
	ctx := context.Background()

	t.Run("missing permit is a no-result", func(t *testing.T) {
		svc := newService()
		updated, err := svc.Review(ctx, "PERMIT-2025-99", models.StatusApproved)
		require.NoError(t, err)
		assert.False(t, updated)
	})

	t.Run("rejects unknown status values", func(t *testing.T) {
		svc := newService()
		_, err := svc.Review(ctx, "PERMIT-2025-1", models.Status("ARCHIVED"))
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

// TestReviewLifecycle walks one permit through verification and checks
// that every read path observes the transition.
func TestReviewLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	testutil.Given(t, "a pending and an issued permit", func(t *testing.T) {
		require.NoError(t, svc.Bootstrap(ctx, []*models.Permit{
			storedPermit("PERMIT-2025-1", "111", models.StatusPending),
			storedPermit("PERMIT-2025-2", "222", models.StatusApproved),
		}))

		report, err := svc.Dashboard(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Totals.Pending)
		assert.Equal(t, 1, report.Totals.Approved)
	})

	testutil.When(t, "staff approve the pending permit", func(t *testing.T) {
		updated, err := svc.Review(ctx, "PERMIT-2025-1", models.StatusApproved)
		require.NoError(t, err)
		assert.True(t, updated)
	})

	testutil.Then(t, "queue, archive, tracking, and totals all agree", func(t *testing.T) {
		pending, err := svc.PendingQueue(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, pending)

		archive, err := svc.Archive(ctx, query.ArchiveFilter{})
		require.NoError(t, err)
		assert.Len(t, archive, 2)

		tracked, found, err := svc.Track(ctx, "111")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, models.StatusApproved, tracked.Status)

		report, err := svc.Dashboard(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Totals.Pending)
		assert.Equal(t, 2, report.Totals.Approved)
	})
}

func TestImport(t *testing.T) {
	ctx := fixedCtx(time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))

	t.Run("normalized rows land issued", func(t *testing.T) {
		svc := newService()
		n, err := svc.Import(ctx, []importer.Row{
			{"Nama": "Siti", "Tahun": "2022"},
			{"Nama": "Agus"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		archive, err := svc.Archive(ctx, query.ArchiveFilter{})
		require.NoError(t, err)
		assert.Len(t, archive, 2)
	})

	t.Run("empty source is a validation error", func(t *testing.T) {
		svc := newService()
		_, err := svc.Import(ctx, nil)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("id conflicts surface as validation errors", func(t *testing.T) {
		svc := newService()
		rows := []importer.Row{{"Nama": "Siti"}}
		_, err := svc.Import(ctx, rows)
		require.NoError(t, err)

		// The pinned clock makes the second batch reuse the same ids.
		_, err = svc.Import(ctx, rows)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func TestLetter(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves issued permits by either identifier", func(t *testing.T) {
		svc := newService()
		require.NoError(t, svc.Bootstrap(ctx, []*models.Permit{
			storedPermit("PERMIT-2025-7", "333", models.StatusApproved),
		}))

		doc, found, err := svc.Letter(ctx, "PERMIT-2025-7")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "070 / 7 / Bakesbangpoldagri / 2025", doc.Number)

		byNIK, found, err := svc.Letter(ctx, "333")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, doc.Number, byNIK.Number)
	})

	t.Run("pending permits exist but are not printable", func(t *testing.T) {
		svc := newService()
		require.NoError(t, svc.Bootstrap(ctx, []*models.Permit{
			storedPermit("PERMIT-2025-8", "444", models.StatusPending),
		}))

		_, found, err := svc.Letter(ctx, "PERMIT-2025-8")
		assert.True(t, found)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("missing permit is a no-result", func(t *testing.T) {
		svc := newService()
		_, found, err := svc.Letter(ctx, "PERMIT-2025-9")
		require.NoError(t, err)
		assert.False(t, found)
	})
}
