package transport

import (
	"net/http"
	"strconv"

	"catalogo-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Per-operation success messages for the category resource.
var categoryMessages = map[string]string{
	"index":   "Categorías encontradas exitosamente",
	"store":   "Categoría creada exitosamente",
	"show":    "Categoría encontrada exitosamente",
	"update":  "Categoría actualizada exitosamente",
	"destroy": "Categoría eliminada exitosamente",
}

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	service service.CategoryService
	logger  *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, categoryMessages["index"], categories)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	input := decodeFields(r)

	category, err := h.service.Create(r.Context(), input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Category created", zap.Int64("category_id", category.ID))
	respondSuccess(w, http.StatusCreated, categoryMessages["store"], category)
}

// Show handles GET /api/categories/{id}
func (h *CategoryHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondSuccess(w, http.StatusOK, categoryMessages["show"], category)
}

// Update handles PUT /api/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	input := decodeFields(r)

	category, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Category updated", zap.Int64("category_id", category.ID))
	respondSuccess(w, http.StatusOK, categoryMessages["update"], category)
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Category deleted", zap.Int64("category_id", id))
	respondSuccess(w, http.StatusOK, categoryMessages["destroy"], nil)
}

// parseID extracts the {id} route parameter. A non-numeric identifier
// can never match a store-assigned id, so it resolves to 404.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, notFoundMessage)
		return 0, false
	}
	return id, true
}
