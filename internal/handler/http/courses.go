package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// listCoursesResponse is the page envelope of GET /api/courses.
type listCoursesResponse struct {
	Courses      []models.Course `json:"courses"`
	TotalCourses int             `json:"totalCourses"`
	CurrentPage  int             `json:"currentPage"`
	TotalPages   int             `json:"totalPages"`
}

func (h *Handler) listCourses(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptionsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts = opts.Normalize()

	courses, total, err := h.services.CourseService.ListCourses(r.Context(), opts)
	if err != nil {
		h.respondError(w, r, err, "listing courses failed")
		return
	}

	_, _ = utils.WriteJSON(w, listCoursesResponse{
		Courses:      courses,
		TotalCourses: total,
		CurrentPage:  opts.Page,
		TotalPages:   totalPages(total, opts.Limit),
	}, http.StatusOK)
}

func (h *Handler) listCourseCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.services.CourseService.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, r, err, "listing course categories failed")
		return
	}

	_, _ = utils.WriteJSON(w, categories, http.StatusOK)
}

func (h *Handler) getCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.services.CourseService.GetCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err, "getting course failed")
		return
	}

	_, _ = utils.WriteJSON(w, course, http.StatusOK)
}

func (h *Handler) getCourseBySlug(w http.ResponseWriter, r *http.Request) {
	course, err := h.services.CourseService.GetCourseBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.respondError(w, r, err, "getting course by slug failed")
		return
	}

	_, _ = utils.WriteJSON(w, course, http.StatusOK)
}

func (h *Handler) createCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var course models.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	created, err := h.services.CourseService.CreateCourse(ctx, actor, course)
	if err != nil {
		h.respondError(w, r, err, "creating course failed")
		return
	}

	_, _ = utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var course models.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	course.ID = chi.URLParam(r, "id")

	updated, err := h.services.CourseService.UpdateCourse(ctx, actor, course)
	if err != nil {
		h.respondError(w, r, err, "updating course failed")
		return
	}

	_, _ = utils.WriteJSON(w, updated, http.StatusOK)
}

// approveCourseRequest is the body of PUT /api/courses/{id}/approve.
type approveCourseRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

func (h *Handler) approveCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req approveCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	course, err := h.services.CourseService.ApproveCourse(ctx, actor, chi.URLParam(r, "id"), req.Approve, req.Reason)
	if err != nil {
		h.respondError(w, r, err, "reviewing course failed")
		return
	}

	_, _ = utils.WriteJSON(w, course, http.StatusOK)
}

func (h *Handler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.CourseService.DeleteCourse(ctx, actor, chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err, "deleting course failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
