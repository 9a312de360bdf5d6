package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"starforge/internal/shared/errors"
	"starforge/internal/shared/response"
	"starforge/internal/universe"
)

const maxBodyBytes = 1 << 20 // 1 MB

type UniverseHandler struct {
	service *universe.Service
	logger  *slog.Logger
}

func NewUniverseHandler(service *universe.Service, logger *slog.Logger) *UniverseHandler {
	return &UniverseHandler{
		service: service,
		logger:  logger,
	}
}

// CreateUniverse handles POST /api/universes - Admin only
func (h *UniverseHandler) CreateUniverse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "create_universe")

	var req universe.CreateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	rec, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, rec)
}

// PreviewUniverse handles POST /api/universes/preview. Nothing is stored.
func (h *UniverseHandler) PreviewUniverse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "preview_universe")

	var req universe.PreviewRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	u, err := h.service.Preview(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, u)
}

// GetUniverses handles GET /api/universes
func (h *UniverseHandler) GetUniverses(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_universes")

	filter, err := parseListFilter(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	records, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, records)
}

// GetUniverse handles GET /api/universes/{id}
func (h *UniverseHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_universe")

	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, rec)
}

// GetSnapshot handles GET /api/universes/{id}/snapshot
func (h *UniverseHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_snapshot")

	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	data, err := h.service.Snapshot(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := response.Raw(w, http.StatusOK, data); err != nil {
		logger.Debug("Failed to write snapshot", "universe_id", id, "error", err)
	}
}

// DeleteUniverse handles DELETE /api/universes/{id} - Admin only
func (h *UniverseHandler) DeleteUniverse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "delete_universe")

	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.NoContent(w)
}

// GetPresets handles GET /api/presets
func (h *UniverseHandler) GetPresets(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, map[string][]string{"presets": h.service.Presets()})
}

func parseID(r *http.Request) (uuid.UUID, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return uuid.Nil, errors.Validation("universe ID is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errors.WrapValidation("invalid universe ID format", err)
	}
	return id, nil
}

func parseListFilter(r *http.Request) (universe.ListFilter, error) {
	q := r.URL.Query()
	filter := universe.ListFilter{Presets: q["preset"]}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return filter, errors.Validationf("limit: must be a positive integer, got %q", v)
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.Validationf("offset: must be a non-negative integer, got %q", v)
		}
		filter.Offset = n
	}
	return filter, nil
}
