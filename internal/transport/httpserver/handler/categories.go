package handler

import (
	"net/http"

	"family-ledger-go/internal/catalog"
)

type categoryListResponse struct {
	Items []catalog.Category `json:"items"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoryListResponse{Items: catalog.All()})
}
