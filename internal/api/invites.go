package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/spltr3/spltr3/internal/middleware"
	"github.com/spltr3/spltr3/internal/models"
)

type inviteRequest struct {
	Email string `json:"email"`
}

// handleCreateInvite creates a join token for a group. Delivering the link
// to the invitee (email or otherwise) happens outside this backend.
func (s *Server) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	invite := &models.Invite{
		GroupID:   group.ID,
		Email:     req.Email,
		InvitedBy: middleware.GetUserID(r.Context()),
		Status:    models.InvitePending,
	}
	if err := s.store.CreateInvite(r.Context(), invite); err != nil {
		slog.Error("CreateInvite failed", "group_id", group.ID, "error", err)
		respondStoreError(w, err)
		return
	}

	slog.Info("invite created", "invite_id", invite.ID, "group_id", group.ID)
	respondJSON(w, http.StatusCreated, invite)
}

// handleListInvites lists a group's invites.
func (s *Server) handleListInvites(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}

	invites, err := s.store.ListInvitesByGroup(r.Context(), group.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"invites": invites})
}

// handleAcceptInvite consumes a pending invite and adds the caller to the
// group. Possession of the invite ID is what grants entry.
func (s *Server) handleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	invite, err := s.store.GetInvite(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}

	user, err := s.provisionUser(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	// The transition is the gate: a second accept, or accepting a revoked
	// invite, conflicts here before any membership change.
	if err := s.store.TransitionInvite(r.Context(), invite.ID, models.InvitePending, models.InviteAccepted); err != nil {
		respondStoreError(w, err)
		return
	}

	if err := s.store.AddGroupMember(r.Context(), invite.GroupID, user.ID); err != nil {
		slog.Error("AddGroupMember failed after invite accept", "invite_id", invite.ID, "error", err)
		respondStoreError(w, err)
		return
	}

	s.recordActivity(r, invite.GroupID, models.VerbJoined, models.ObjectMember, user.ID, user.DisplayName)
	slog.Info("invite accepted", "invite_id", invite.ID, "group_id", invite.GroupID, "user_id", user.ID)

	group, err := s.store.GetGroup(r.Context(), invite.GroupID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, group)
}

// handleDeclineInvite marks a pending invite declined.
func (s *Server) handleDeclineInvite(w http.ResponseWriter, r *http.Request) {
	invite, err := s.store.GetInvite(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if err := s.store.TransitionInvite(r.Context(), invite.ID, models.InvitePending, models.InviteDeclined); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// handleRevokeInvite lets the inviter or the group creator withdraw a
// pending invite.
func (s *Server) handleRevokeInvite(w http.ResponseWriter, r *http.Request) {
	invite, err := s.store.GetInvite(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return
	}

	group, ok := s.requireGroupMember(w, r, invite.GroupID)
	if !ok {
		return
	}
	caller := middleware.GetUserID(r.Context())
	if caller != invite.InvitedBy && caller != group.CreatedBy {
		respondError(w, http.StatusForbidden, errors.New("only the inviter or group creator can revoke an invite"))
		return
	}

	if err := s.store.TransitionInvite(r.Context(), invite.ID, models.InvitePending, models.InviteRevoked); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
