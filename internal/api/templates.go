package api

import (
	"net/http"

	"github.com/weftworks/weft/internal/templates"
)

// listTemplates returns the built-in starter workflows.
// GET /api/templates
func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, templates.Catalog())
}
