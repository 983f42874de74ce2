package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/daniel/autoapply/internal/types"
)

// handleGetProfile returns the candidate profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Load().UserProfile)
}

// handlePutProfile replaces the candidate profile.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var profile types.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(profile); err != nil {
		s.errorFrom(w, &ErrValidation{Field: "profile", Message: err.Error()})
		return
	}
	if profile.CustomResponses == nil {
		profile.CustomResponses = map[string]string{}
	}

	if err := s.store.Set(types.KeyUserProfile, profile); err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleGetResume returns the master resume.
func (s *Server) handleGetResume(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Load().MasterResume)
}

// handlePutResume replaces the master resume, stamping last_modified.
func (s *Server) handlePutResume(w http.ResponseWriter, r *http.Request) {
	var resume types.MasterResume
	if err := json.NewDecoder(r.Body).Decode(&resume); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	resume.LastModified = types.NowISO()

	if err := s.store.Set(types.KeyMasterResume, resume); err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleGetSettings returns the persisted settings.
func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Load().Settings)
}

// handlePutSettings replaces the persisted settings.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings types.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(settings); err != nil {
		s.errorFrom(w, &ErrValidation{Field: "settings", Message: err.Error()})
		return
	}
	if settings.PreferredLocations == nil {
		settings.PreferredLocations = []string{}
	}

	if err := s.store.Set(types.KeySettings, settings); err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, settings)
}

// handleListActivity returns the activity log, most recent first. The
// limit query parameter caps the number of entries returned.
func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	entries := s.store.Load().ActivityLog

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.errorFrom(w, &ErrValidation{Field: "limit", Message: "limit must be a non-negative integer"})
			return
		}
		if limit < len(entries) {
			entries = entries[:limit]
		}
	}

	s.jsonResponse(w, http.StatusOK, entries)
}

// handleExport streams the full state document as a backup snapshot.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	snapshot, err := s.store.Export()
	if err != nil {
		s.errorFrom(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="autoapply-backup.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(snapshot))
}

// handleImport replaces the state document with a validated snapshot.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := s.store.Import(string(body)); err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "imported"})
}

// handleReset discards all state and restores defaults.
func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	if err := s.store.Reset(); err != nil {
		s.errorFrom(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "reset"})
}
