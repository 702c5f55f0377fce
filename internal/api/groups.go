package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/spltr3/spltr3/internal/middleware"
	"github.com/spltr3/spltr3/internal/models"
)

type groupRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// handleCreateGroup creates a group with the caller as first member.
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	user, err := s.provisionUser(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	group := &models.Group{
		Name:      req.Name,
		Currency:  req.Currency,
		CreatedBy: user.ID,
	}
	if err := s.store.CreateGroup(r.Context(), group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		respondStoreError(w, err)
		return
	}

	s.recordActivity(r, group.ID, models.VerbCreated, models.ObjectGroup, group.ID, group.Name)
	slog.Info("group created", "group_id", group.ID, "user_id", user.ID)
	respondJSON(w, http.StatusCreated, group)
}

// handleListGroups lists the caller's groups.
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ListGroupsByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}

// handleGetGroup retrieves one of the caller's groups.
func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, group)
}

// handleUpdateGroup renames a group or changes its currency.
func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name != "" {
		group.Name = req.Name
	}
	if req.Currency != "" {
		group.Currency = req.Currency
	}

	if err := s.store.UpdateGroup(r.Context(), group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", group.ID, "error", err)
		respondStoreError(w, err)
		return
	}

	s.recordActivity(r, group.ID, models.VerbUpdated, models.ObjectGroup, group.ID, group.Name)
	respondJSON(w, http.StatusOK, group)
}

// handleDeleteGroup deletes a group. Only the creator may do this; it takes
// the whole ledger with it.
func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	if group.CreatedBy != middleware.GetUserID(r.Context()) {
		respondError(w, http.StatusForbidden, errors.New("only the group creator can delete the group"))
		return
	}

	if err := s.store.DeleteGroup(r.Context(), group.ID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", group.ID, "error", err)
		respondStoreError(w, err)
		return
	}
	slog.Info("group deleted", "group_id", group.ID)
	respondJSON(w, http.StatusNoContent, nil)
}

// handleListMembers lists a group's members.
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"members": group.Members})
}

// handleRemoveMember removes a member: members may remove themselves, the
// creator may remove anyone.
func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	group, ok := s.requireGroupMember(w, r, vars["id"])
	if !ok {
		return
	}

	target := vars["userID"]
	caller := middleware.GetUserID(r.Context())
	if target != caller && group.CreatedBy != caller {
		respondError(w, http.StatusForbidden, errors.New("only the group creator can remove other members"))
		return
	}
	if target == group.CreatedBy {
		respondError(w, http.StatusBadRequest, errors.New("the group creator cannot leave the group"))
		return
	}

	if err := s.store.RemoveGroupMember(r.Context(), group.ID, target); err != nil {
		respondStoreError(w, err)
		return
	}

	s.recordActivity(r, group.ID, models.VerbLeft, models.ObjectMember, target, "")
	respondJSON(w, http.StatusNoContent, nil)
}

// recordActivity appends a feed entry, logging rather than failing the
// request if the append itself fails.
func (s *Server) recordActivity(r *http.Request, groupID, verb, objectType, objectID, summary string) {
	entry := &models.Activity{
		GroupID:    groupID,
		ActorID:    middleware.GetUserID(r.Context()),
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID,
		Summary:    summary,
	}
	if err := s.store.AppendActivity(r.Context(), entry); err != nil {
		slog.Warn("failed to record activity", "group_id", groupID, "verb", verb, "error", err)
	}
}
