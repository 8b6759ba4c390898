package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/suppertable/experience-service/internal/application/experience"
	"github.com/suppertable/experience-service/internal/domain"
	"github.com/suppertable/experience-service/internal/transport/http/dto"
	"github.com/suppertable/experience-service/internal/transport/http/middleware"
	"github.com/suppertable/experience-service/internal/transport/http/response"
	"github.com/suppertable/experience-service/internal/transport/http/validate"
)

type Clock interface{ Now() time.Time }

type ExperiencesHandler struct {
	svc   *experience.Service
	clock Clock
}

func NewExperiencesHandler(svc *experience.Service, clock Clock) *ExperiencesHandler {
	return &ExperiencesHandler{svc: svc, clock: clock}
}

func experienceID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "experience_id")
	if !validate.IsUUID(id) {
		return "", domain.ErrValidationMeta("invalid path param", map[string]string{
			"experience_id": "must be uuid",
		})
	}
	return id, nil
}

// Public

func (h *ExperiencesHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	var fromPtr, toPtr *time.Time
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"from": "must be RFC3339 timestamp",
			}))
			return
		}
		tt := t.UTC()
		fromPtr = &tt
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"to": "must be RFC3339 timestamp",
			}))
			return
		}
		tt := t.UTC()
		toPtr = &tt
	}

	filter := experience.ListFilter{
		City:     q.Get("city"),
		Cuisine:  q.Get("cuisine"),
		From:     fromPtr,
		To:       toPtr,
		Page:     page,
		PageSize: pageSize,
	}
	if err := filter.Normalize(); err != nil {
		response.Err(w, r, err)
		return
	}

	items, total, err := h.svc.ListPublic(r.Context(), filter)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	now := h.clock.Now().UTC()
	out := make([]dto.ExperienceResp, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToExperienceResp(it, now))
	}

	response.Data(w, http.StatusOK, dto.PageResp[dto.ExperienceResp]{
		Items:    out,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
	})
}

func (h *ExperiencesHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	id, err := experienceID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	e, err := h.svc.GetPublic(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToExperienceResp(e, h.clock.Now().UTC()))
}

// Host

func (h *ExperiencesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExperienceReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "malformed JSON or invalid fields",
		}))
		return
	}
	if err := validate.Struct(req); err != nil {
		response.Err(w, r, err)
		return
	}

	cmd := experience.CreateCmd{
		ActorID:            middleware.UserID(r),
		ActorRole:          middleware.Role(r),
		Title:              req.Title,
		Description:        req.Description,
		City:               req.City,
		Cuisine:            req.Cuisine,
		CancellationPolicy: req.CancellationPolicy,
		StartTime:          req.StartTime,
		DurationMinutes:    req.DurationMinutes,
		Price:              req.Price,
		Capacity:           req.Capacity,
	}
	e, err := h.svc.Create(r.Context(), cmd)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusCreated, dto.ToExperienceResp(e, h.clock.Now().UTC()))
}

func (h *ExperiencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := experienceID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var req dto.UpdateExperienceReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "malformed JSON or invalid fields",
		}))
		return
	}

	cmd := experience.UpdateCmd{
		ActorID:            middleware.UserID(r),
		ActorRole:          middleware.Role(r),
		ExperienceID:       id,
		Title:              req.Title,
		Description:        req.Description,
		City:               req.City,
		Cuisine:            req.Cuisine,
		CancellationPolicy: req.CancellationPolicy,
		StartTime:          req.StartTime,
		DurationMinutes:    req.DurationMinutes,
		Price:              req.Price,
		Capacity:           req.Capacity,
	}

	e, err := h.svc.Update(r.Context(), cmd)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToExperienceResp(e, h.clock.Now().UTC()))
}

func (h *ExperiencesHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := experienceID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	e, err := h.svc.Publish(r.Context(), id, middleware.UserID(r), middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToExperienceResp(e, h.clock.Now().UTC()))
}

func (h *ExperiencesHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	id, err := experienceID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	e, err := h.svc.Unpublish(r.Context(), id, middleware.UserID(r), middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToExperienceResp(e, h.clock.Now().UTC()))
}

func (h *ExperiencesHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	items, total, err := h.svc.ListMine(r.Context(), middleware.UserID(r), page, pageSize)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	now := h.clock.Now().UTC()
	out := make([]dto.ExperienceResp, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToExperienceResp(it, now))
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	response.Data(w, http.StatusOK, dto.PageResp[dto.ExperienceResp]{
		Items:    out,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	})
}

func (h *ExperiencesHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	id, err := experienceID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	e, err := h.svc.GetForHost(r.Context(), id, middleware.UserID(r), middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToExperienceResp(e, h.clock.Now().UTC()))
}

// Capacity

func (h *ExperiencesHandler) CheckCapacity(w http.ResponseWriter, r *http.Request) {
	id, err := experienceID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	report, err := h.svc.CheckCapacity(r.Context(), id, middleware.UserID(r), middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToCapacityReportResp(report))
}

func (h *ExperiencesHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id, err := experienceID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	_, report, err := h.svc.Reconcile(r.Context(), id, middleware.UserID(r), middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToCapacityReportResp(report))
}

func (h *ExperiencesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, err := experienceID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	stats, err := h.svc.Stats(r.Context(), id, middleware.UserID(r), middleware.Role(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToStatsResp(stats))
}
