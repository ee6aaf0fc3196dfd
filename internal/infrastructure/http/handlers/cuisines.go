package handlers

import (
	"net/http"

	"github.com/esasma/API-Recettes/internal/ports/inbound"
	"go.uber.org/zap"
)

// CuisineHandlers handles the /cuisines routes
type CuisineHandlers struct {
	responder
	cuisines inbound.CuisineService
}

// NewCuisineHandlers creates the cuisine handlers
func NewCuisineHandlers(cuisines inbound.CuisineService, logger *zap.Logger) *CuisineHandlers {
	return &CuisineHandlers{
		responder: responder{logger: logger.Named("cuisine-handlers")},
		cuisines:  cuisines,
	}
}

// CuisineDeletedResponse is returned by DELETE /cuisines/{cuisineId}/delete
type CuisineDeletedResponse struct {
	Message string `json:"message"`
	*inbound.CuisineDeletionDTO
}

// AddCuisine handles POST /cuisines/add
func (h *CuisineHandlers) AddCuisine(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.AddCuisineCommand
	if err := h.decode(w, r, &cmd); err != nil {
		h.writeError(w, r, err)
		return
	}

	cuisine, err := h.cuisines.AddCuisine(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, cuisine)
}

// DeleteCuisine handles DELETE /cuisines/{cuisineId}/delete
func (h *CuisineHandlers) DeleteCuisine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "cuisineId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.cuisines.DeleteCuisine(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	message := "Cuisine deleted and related recipes updated successfully"
	if !result.Deleted {
		message = "No cuisine with this id, nothing was deleted"
	}
	h.writeJSON(w, http.StatusOK, CuisineDeletedResponse{Message: message, CuisineDeletionDTO: result})
}
