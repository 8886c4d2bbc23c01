package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"universitas/internal/auth/models"
	id "universitas/pkg/domain"
	dErrors "universitas/pkg/domain-errors"
	"universitas/pkg/platform/httputil"
	"universitas/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the student record operations. The caller's role is read
// from the request context.
type Service interface {
	// Authorize rejects callers who may not touch student records.
	Authorize(ctx context.Context) error
	ListStudents(ctx context.Context) ([]models.StudentRecord, error)
	GetStudent(ctx context.Context, studentID id.UserID) (*models.StudentRecord, error)
	UpdateStudentGrade(ctx context.Context, studentID id.UserID, req *models.GradeUpdateRequest) (*models.StudentRecord, error)
}

type Handler struct {
	students Service
	logger   *slog.Logger
}

func New(students Service, logger *slog.Logger) *Handler {
	return &Handler{
		students: students,
		logger:   logger,
	}
}

// Register registers the student record routes. The parent router must
// apply authentication middleware. The role check runs before the path or
// body is looked at.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuthorized)
		r.Get("/auth/students/", h.HandleList)
		r.Get("/auth/students/{id}/", h.HandleGet)
		r.Patch("/auth/students/{id}/", h.HandleUpdate)
		r.Put("/auth/students/{id}/", h.HandleUpdate)
	})
}

func (h *Handler) requireAuthorized(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.students.Authorize(r.Context()); err != nil {
			httputil.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.students.ListStudents(ctx)
	if err != nil {
		h.logFailure(ctx, "list students failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	studentID, ok := h.studentID(w, r)
	if !ok {
		return
	}

	record, err := h.students.GetStudent(ctx, studentID)
	if err != nil {
		h.logFailure(ctx, "get student failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleUpdate serves PATCH and PUT. Only the grade is writable.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	studentID, ok := h.studentID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeJSON[models.GradeUpdateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.students.UpdateStudentGrade(ctx, studentID, req)
	if err != nil {
		h.logFailure(ctx, "update student grade failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

// studentID parses the {id} path segment. Unparseable ids cannot name a
// student, so they are reported as not found.
func (h *Handler) studentID(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	studentID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "No student matches the given query."))
		return id.UserID{}, false
	}
	return studentID, true
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"error", err,
		"user_id", requestcontext.UserID(ctx).String(),
		"request_id", requestcontext.RequestID(ctx),
	)
}
