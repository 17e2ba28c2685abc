// Package handler wires the permit HTTP surface: the public portal
// endpoints, the tracking and archive reads, and the token-guarded
// staff endpoints for review and archive import.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"sipeka/internal/permit/importer"
	"sipeka/internal/permit/letter"
	"sipeka/internal/permit/models"
	"sipeka/internal/permit/query"
	"sipeka/internal/permit/service"
	dErrors "sipeka/pkg/domain-errors"
	"sipeka/pkg/platform/httputil"
	"sipeka/pkg/platform/middleware/admin"
	"sipeka/pkg/platform/middleware/metadata"
	"sipeka/pkg/requestcontext"
)

// defaultArchiveLimit caps how many archive rows one response carries.
// Truncation is presentation only; the filter still runs over the full
// dataset and Total reports the real match count.
const defaultArchiveLimit = 50

// Service defines the permit operations the HTTP layer depends on.
type Service interface {
	Submit(ctx context.Context, req service.SubmissionRequest) (*models.Permit, error)
	Review(ctx context.Context, id string, status models.Status) (bool, error)
	PendingQueue(ctx context.Context, search string) ([]*models.Permit, error)
	Archive(ctx context.Context, filter query.ArchiveFilter) ([]*models.Permit, error)
	Track(ctx context.Context, q string) (*models.Permit, bool, error)
	Dashboard(ctx context.Context, years []int) (*service.DashboardReport, error)
	Import(ctx context.Context, rows []importer.Row) (int, error)
	Letter(ctx context.Context, id string) (*letter.Document, bool, error)
}

// Handler wires permit endpoints to the permit service.
type Handler struct {
	service    Service
	logger     *slog.Logger
	adminToken string
}

// New constructs a permit handler with its dependencies.
func New(service Service, logger *slog.Logger, adminToken string) *Handler {
	return &Handler{
		service:    service,
		logger:     logger,
		adminToken: adminToken,
	}
}

// Register mounts permit endpoints on the router. Staff endpoints live
// under /admin behind the shared token check.
func (h *Handler) Register(r chi.Router) {
	r.Post("/permits", h.HandleSubmit)
	r.Get("/permits/pending", h.HandlePending)
	r.Get("/permits/archive", h.HandleArchive)
	r.Get("/permits/track", h.HandleTrack)
	r.Get("/permits/{id}/letter", h.HandleLetter)
	r.Get("/dashboard", h.HandleDashboard)

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(admin.RequireAdminToken(h.adminToken, h.logger))
		ar.Post("/permits/{id}/status", h.HandleReview)
		ar.Post("/permits/import", h.HandleImport)
	})
}

// HandleSubmit handles POST /permits requests from the public portal.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, err := httputil.Decode[submitRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	permit, err := h.service.Submit(ctx, req.toDomain())
	if err != nil {
		h.logger.WarnContext(ctx, "permit submission rejected",
			"request_id", requestID,
			"client_ip", metadata.GetClientIP(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "permit submitted",
		"request_id", requestID,
		"permit_id", permit.ID,
		"category", permit.Category,
		"location", permit.ResearchLocation,
	)
	httputil.WriteJSON(w, http.StatusCreated, fromPermit(permit))
}

// HandlePending handles GET /permits/pending requests for the staff
// verification queue.
func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	permits, err := h.service.PendingQueue(ctx, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.ErrorContext(ctx, "pending queue read failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromPermits(permits, 0))
}

// HandleArchive handles GET /permits/archive requests over issued permits.
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, ok := archiveFilterFromQuery(r)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "year must be a number"))
		return
	}

	limit := defaultArchiveLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive number"))
			return
		}
		if n < limit {
			limit = n
		}
	}

	permits, err := h.service.Archive(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "archive read failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromPermits(permits, limit))
}

// HandleTrack handles GET /permits/track requests from applicants
// checking their application by national id number or permit id.
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := strings.TrimSpace(r.URL.Query().Get("query"))
	if q == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "query parameter is required"))
		return
	}

	permit, found, err := h.service.Track(ctx, q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no permit matches the given identifier"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromPermit(permit))
}

// HandleLetter handles GET /permits/{id}/letter requests for the
// printable permit document.
func (h *Handler) HandleLetter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	doc, found, err := h.service.Letter(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !found {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "permit "+id+" not found"))
		return
	}

	h.logger.InfoContext(ctx, "permit letter issued",
		"request_id", requestcontext.RequestID(ctx),
		"permit_id", id,
		"letter_number", doc.Number,
	)
	httputil.WriteJSON(w, http.StatusOK, doc)
}

// HandleDashboard handles GET /dashboard requests.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.Dashboard(ctx, yearsFromQuery(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "dashboard aggregation failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleReview handles POST /admin/permits/{id}/status requests.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id := chi.URLParam(r, "id")

	req, err := httputil.Decode[reviewRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	status := models.Status(req.Status)
	updated, err := h.service.Review(ctx, id, status)
	if err != nil {
		h.logger.WarnContext(ctx, "permit review rejected",
			"request_id", requestID,
			"permit_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if !updated {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "permit "+id+" not found"))
		return
	}

	h.logger.InfoContext(ctx, "permit reviewed",
		"request_id", requestID,
		"permit_id", id,
		"status", status,
	)
	httputil.WriteJSON(w, http.StatusOK, reviewResponse{ID: id, Status: string(status)})
}

// HandleImport handles POST /admin/permits/import requests. The body is
// either a CSV document or a JSON array of row objects, selected by the
// Content-Type header.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var (
		rows []importer.Row
		err  error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		rows, err = importer.ParseJSON(r.Body)
	} else {
		rows, err = importer.ParseCSV(r.Body)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "import source rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	imported, err := h.service.Import(ctx, rows)
	if err != nil {
		h.logger.WarnContext(ctx, "import batch rejected",
			"request_id", requestID,
			"rows", len(rows),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "archive import completed",
		"request_id", requestID,
		"imported", imported,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, importResponse{Imported: imported})
}
