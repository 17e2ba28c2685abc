package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sipeka/internal/permit/models"
	"sipeka/internal/permit/service"
	"sipeka/internal/permit/store"
	dErrors "sipeka/pkg/domain-errors"
	"sipeka/pkg/testutil"
)

const adminToken = "secret-token"

func newPermitRouter(t *testing.T) (http.Handler, *service.Service) {
	t.Helper()
	svc := service.New(store.NewInMemory(), nil, []int{2023, 2024, 2025, 2026})
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(svc, logger, adminToken)
	r := chi.NewRouter()
	h.Register(r)
	return r, svc
}

func archived(id, idNumber string, year int, status models.Status) *models.Permit {
	return &models.Permit{
		ID: id, ApplicantName: "Siti Lestari", IDNumber: idNumber,
		Email: "siti@example.com", Phone: "0812", University: "UIN Mataram",
		ResearchTitle: "Budaya Sasak", ResearchLocation: "Lombok Timur",
		Duration: "3 Bulan", Category: "Sosial & Budaya",
		SubmissionDate: "2025-02-01", Status: status, Year: year,
	}
}

func submitPayload() map[string]any {
	return map[string]any{
		"applicant_name":    "Budi Pratama",
		"id_number":         "5201234567890001",
		"email":             "budi@example.com",
		"phone":             "081234567890",
		"university":        "Universitas Mataram",
		"research_title":    "Dampak Pariwisata di Lombok",
		"research_location": "Lombok Barat",
		"duration":          "3 Bulan",
		"category":          "Sosial & Budaya",
	}
}

func TestAdminTokenRequired(t *testing.T) {
	router, _ := newPermitRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/permits/1/status",
		map[string]string{"status": "APPROVED"})
	// No admin token header set
	rec := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
	testutil.AssertErrorCode(t, rec, string(dErrors.CodeUnauthorized))
}

func TestSubmitViaHandler(t *testing.T) {
	router, _ := newPermitRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/permits", submitPayload())
	rec := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	created := testutil.UnmarshalResponse[permitResponse](t, rec)
	assert.Contains(t, created.ID, "PERMIT-")
	assert.Equal(t, "PENDING", created.Status)
	assert.NotEmpty(t, created.SubmissionDate)

	t.Run("incomplete payload is rejected", func(t *testing.T) {
		payload := submitPayload()
		payload["research_title"] = ""
		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/permits", payload))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		testutil.AssertErrorCode(t, rec, string(dErrors.CodeValidation))
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		req := testutil.NewCSVRequest(t, http.MethodPost, "/permits", "not json")
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		testutil.AssertErrorCode(t, rec, string(dErrors.CodeBadRequest))
	})
}

func TestReviewAndLetterFlow(t *testing.T) {
	router, _ := newPermitRouter(t)

	// Submit through the public portal.
	rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/permits", submitPayload()))
	testutil.AssertStatus(t, rec, http.StatusCreated)
	created := testutil.UnmarshalResponse[permitResponse](t, rec)

	// The letter endpoint refuses the permit while it is pending.
	rec = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/permits/"+created.ID+"/letter"))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)

	// Staff approve it.
	req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/permits/"+created.ID+"/status",
		map[string]string{"status": "APPROVED"})
	rec = testutil.DoRequest(router, testutil.WithAdminToken(req, adminToken))
	testutil.AssertStatus(t, rec, http.StatusOK)

	decision := testutil.UnmarshalResponse[reviewResponse](t, rec)
	assert.Equal(t, "APPROVED", decision.Status)

	// Tracking by national id now shows the issued permit.
	rec = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/permits/track?query=5201234567890001"))
	testutil.AssertStatus(t, rec, http.StatusOK)
	tracked := testutil.UnmarshalResponse[permitResponse](t, rec)
	assert.Equal(t, created.ID, tracked.ID)
	assert.Equal(t, "APPROVED", tracked.Status)

	// And the printable document resolves.
	rec = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/permits/"+created.ID+"/letter"))
	testutil.AssertStatus(t, rec, http.StatusOK)

	t.Run("unknown status value is rejected", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/permits/"+created.ID+"/status",
			map[string]string{"status": "ON_HOLD"})
		rec := testutil.DoRequest(router, testutil.WithAdminToken(req, adminToken))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("unknown permit id is not found", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/permits/PERMIT-2026-999/status",
			map[string]string{"status": "REJECTED"})
		rec := testutil.DoRequest(router, testutil.WithAdminToken(req, adminToken))
		testutil.AssertStatus(t, rec, http.StatusNotFound)
		testutil.AssertErrorCode(t, rec, string(dErrors.CodeNotFound))
	})
}

func TestTrackNotFound(t *testing.T) {
	router, _ := newPermitRouter(t)

	rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/permits/track?query=000"))
	testutil.AssertStatus(t, rec, http.StatusNotFound)
	testutil.AssertErrorCode(t, rec, string(dErrors.CodeNotFound))

	t.Run("blank query is a bad request", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/permits/track?query=++"))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestArchiveFilters(t *testing.T) {
	router, svc := newPermitRouter(t)
	require.NoError(t, svc.Bootstrap(context.Background(), []*models.Permit{
		archived("PERMIT-2024-1", "111", 2024, models.StatusApproved),
		archived("PERMIT-2025-1", "222", 2025, models.StatusApproved),
		archived("PERMIT-2025-2", "333", 2025, models.StatusApproved),
		archived("PERMIT-2025-3", "444", 2025, models.StatusPending),
	}))

	t.Run("filters by year", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/permits/archive?year=2025"))
		testutil.AssertStatus(t, rec, http.StatusOK)
		list := testutil.UnmarshalResponse[listResponse](t, rec)
		assert.Equal(t, 2, list.Total, "pending records stay out of the archive")
	})

	t.Run("limit truncates items but not the match count", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/permits/archive?limit=1"))
		testutil.AssertStatus(t, rec, http.StatusOK)
		list := testutil.UnmarshalResponse[listResponse](t, rec)
		assert.Equal(t, 3, list.Total)
		require.Len(t, list.Items, 1)
		assert.Equal(t, "PERMIT-2024-1", list.Items[0].ID, "truncation keeps insertion order")
	})

	t.Run("non-numeric year is a bad request", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/permits/archive?year=dulu"))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		testutil.AssertErrorCode(t, rec, string(dErrors.CodeBadRequest))
	})
}

func TestPendingQueueSearch(t *testing.T) {
	router, svc := newPermitRouter(t)
	require.NoError(t, svc.Bootstrap(context.Background(), []*models.Permit{
		archived("PERMIT-2025-1", "111", 2025, models.StatusPending),
		archived("PERMIT-2025-2", "222", 2025, models.StatusApproved),
	}))

	rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/permits/pending?search=lestari"))
	testutil.AssertStatus(t, rec, http.StatusOK)
	list := testutil.UnmarshalResponse[listResponse](t, rec)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "PERMIT-2025-1", list.Items[0].ID)
}

func TestImportViaHandler(t *testing.T) {
	router, _ := newPermitRouter(t)

	t.Run("CSV body", func(t *testing.T) {
		csv := "Nama,NIK,Tahun\nSiti,111,2022\nAgus,222,2023\n"
		req := testutil.NewCSVRequest(t, http.MethodPost, "/admin/permits/import", csv)
		rec := testutil.DoRequest(router, testutil.WithAdminToken(req, adminToken))
		testutil.AssertStatus(t, rec, http.StatusOK)

		result := testutil.UnmarshalResponse[importResponse](t, rec)
		assert.Equal(t, 2, result.Imported)

		// Imported records land in the archive as issued permits.
		listRec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/permits/archive?search=Siti"))
		list := testutil.UnmarshalResponse[listResponse](t, listRec)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, "APPROVED", list.Items[0].Status)
		assert.Equal(t, 2022, list.Items[0].Year)
	})

	t.Run("JSON body", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/permits/import",
			[]map[string]any{{"Nama": "Baiq Dewi", "Kategori": "Pendidikan"}})
		rec := testutil.DoRequest(router, testutil.WithAdminToken(req, adminToken))
		testutil.AssertStatus(t, rec, http.StatusOK)
	})

	t.Run("unreadable source reports an import parse error", func(t *testing.T) {
		req := testutil.NewCSVRequest(t, http.MethodPost, "/admin/permits/import", "Nama\n\"unterminated")
		rec := testutil.DoRequest(router, testutil.WithAdminToken(req, adminToken))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		testutil.AssertErrorCode(t, rec, string(dErrors.CodeImportParse))
	})

	t.Run("empty source is rejected", func(t *testing.T) {
		req := testutil.NewCSVRequest(t, http.MethodPost, "/admin/permits/import", "Nama\n")
		rec := testutil.DoRequest(router, testutil.WithAdminToken(req, adminToken))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		testutil.AssertErrorCode(t, rec, string(dErrors.CodeValidation))
	})
}

func TestDashboardViaHandler(t *testing.T) {
	router, svc := newPermitRouter(t)
	require.NoError(t, svc.Bootstrap(context.Background(), []*models.Permit{
		archived("PERMIT-2024-1", "111", 2024, models.StatusApproved),
		archived("PERMIT-2025-1", "222", 2025, models.StatusPending),
	}))

	rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/dashboard"))
	testutil.AssertStatus(t, rec, http.StatusOK)

	report := testutil.UnmarshalResponse[service.DashboardReport](t, rec)
	assert.Equal(t, 2, report.Totals.Total)
	assert.Equal(t, 1, report.Totals.Approved)
	require.Len(t, report.Yearly, 4)

	t.Run("explicit years narrow the trend window", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/dashboard?years=2024,2025"))
		testutil.AssertStatus(t, rec, http.StatusOK)
		report := testutil.UnmarshalResponse[service.DashboardReport](t, rec)
		require.Len(t, report.Yearly, 2)
		assert.Equal(t, 2024, report.Yearly[0].Year)
	})
}
