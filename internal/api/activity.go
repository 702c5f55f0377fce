package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/spltr3/spltr3/internal/middleware"
)

func activityLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

// handleGroupActivity lists a group's feed, newest first. Optional ?limit=.
func (s *Server) handleGroupActivity(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}

	entries, err := s.store.ListActivityByGroup(r.Context(), group.ID, activityLimit(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}

// handleUserActivity lists the feed across all of the caller's groups.
func (s *Server) handleUserActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListActivityByUser(r.Context(), middleware.GetUserID(r.Context()), activityLimit(r))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}
