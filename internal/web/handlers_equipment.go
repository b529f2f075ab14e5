package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/inventory/internal/core"
	db "github.com/JonMunkholm/inventory/internal/database"
	"github.com/go-chi/chi/v5"
)

// handleListEquipment lists active records, narrowed by query parameters.
func (s *Server) handleListEquipment(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	items, err := s.service.ListEquipment(r.Context(), filter)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []db.Equipment{}
	}
	writeJSON(w, items)
}

// parseFilter reads list filters from the query string.
func parseFilter(r *http.Request) (core.EquipmentFilter, error) {
	q := r.URL.Query()
	f := core.EquipmentFilter{
		Status:        q.Get("status"),
		EquipmentType: q.Get("equipment_type"),
		UsageType:     q.Get("usage_type"),
		Location:      q.Get("location"),
		PrimaryUser:   q.Get("primary_user"),
		Model:         q.Get("model"),
		SortBy:        q.Get("sort_by"),
		SortDesc:      strings.EqualFold(q.Get("sort_order"), "desc"),
	}

	if f.SortBy != "" && !db.ValidSortColumn(f.SortBy) {
		return f, badRequest("invalid query parameter: cannot sort by %q", f.SortBy)
	}

	var err error
	if f.MinRating, err = intParam(r, "min_rating"); err != nil {
		return f, err
	}
	if f.MaxRating, err = intParam(r, "max_rating"); err != nil {
		return f, err
	}
	if f.IncludeDeleted, err = boolParam(r, "include_deleted"); err != nil {
		return f, err
	}
	return f, nil
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badRequest("invalid query parameter: %s must be an integer", name)
	}
	return &n, nil
}

// boolParam parses an optional boolean query parameter. Absent means false.
func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badRequest("invalid query parameter: %s must be true or false", name)
	}
	return b, nil
}

func (s *Server) handleGetEquipment(w http.ResponseWriter, r *http.Request) {
	e, err := s.service.GetEquipment(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, e)
}

// handleCreateEquipment creates a record from a JSON object of field
// values. The equipment ID is always generated.
func (s *Server) handleCreateEquipment(w http.ResponseWriter, r *http.Request) {
	var data fieldMap
	if err := decodeJSON(w, r, maxJSONBody, &data); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	e, err := s.service.CreateEquipment(r.Context(), data)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, e)
}

// handleUpdateEquipment applies the supplied fields to an existing record.
// Empty values leave a field unchanged.
func (s *Server) handleUpdateEquipment(w http.ResponseWriter, r *http.Request) {
	var data fieldMap
	if err := decodeJSON(w, r, maxJSONBody, &data); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	e, err := s.service.UpdateEquipment(r.Context(), chi.URLParam(r, "identifier"), data)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, e)
}

func (s *Server) handleDeleteEquipment(w http.ResponseWriter, r *http.Request) {
	e, err := s.service.DeleteEquipment(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, e)
}

func (s *Server) handleRestoreEquipment(w http.ResponseWriter, r *http.Request) {
	e, err := s.service.RestoreEquipment(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, e)
}

// handleEquipmentHistory lists past assignments, newest first.
func (s *Server) handleEquipmentHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.service.EquipmentHistory(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if history == nil {
		history = []db.AssignmentHistory{}
	}
	writeJSON(w, history)
}

func (s *Server) handleListDeleted(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListDeleted(r.Context())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []db.Equipment{}
	}
	writeJSON(w, items)
}
