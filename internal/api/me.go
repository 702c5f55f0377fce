package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spltr3/spltr3/internal/middleware"
	"github.com/spltr3/spltr3/internal/models"
)

// provisionUser makes sure the caller has a user row, refreshing it from
// the verified claims. Identity lives in the external auth service; this is
// just the local mirror other members' display names are read from.
func (s *Server) provisionUser(ctx context.Context) (*models.User, error) {
	claims := middleware.GetClaims(ctx)
	if claims == nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	user := &models.User{
		ID:          claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}
	if err := s.store.UpsertUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// handleMe returns the caller's profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.provisionUser(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
