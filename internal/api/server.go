// Package api exposes the spltr3 REST surface: groups, invites, expenses,
// settlements, balances, and activity, all behind bearer-token auth.
package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spltr3/spltr3/internal/auth"
	"github.com/spltr3/spltr3/internal/middleware"
	"github.com/spltr3/spltr3/internal/models"
	"github.com/spltr3/spltr3/internal/storage"
)

// Server holds the handler dependencies and builds the router.
type Server struct {
	store      storage.Store
	jwtManager *auth.JWTManager
	corsOrigin string
}

// NewServer creates an API server over the given store.
func NewServer(store storage.Store, jwtManager *auth.JWTManager, corsOrigin string) *Server {
	return &Server{
		store:      store,
		jwtManager: jwtManager,
		corsOrigin: corsOrigin,
	}
}

// Handler returns the fully wired HTTP handler: routes, auth on /api,
// metrics and request logging everywhere, CORS outermost so preflight
// never hits auth.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.Metrics)

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireAuth(s.jwtManager))

	api.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)

	api.HandleFunc("/groups", s.handleCreateGroup).Methods(http.MethodPost)
	api.HandleFunc("/groups", s.handleListGroups).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}", s.handleGetGroup).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}", s.handleUpdateGroup).Methods(http.MethodPut)
	api.HandleFunc("/groups/{id}", s.handleDeleteGroup).Methods(http.MethodDelete)
	api.HandleFunc("/groups/{id}/members", s.handleListMembers).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}/members/{userID}", s.handleRemoveMember).Methods(http.MethodDelete)

	api.HandleFunc("/groups/{id}/invites", s.handleCreateInvite).Methods(http.MethodPost)
	api.HandleFunc("/groups/{id}/invites", s.handleListInvites).Methods(http.MethodGet)
	api.HandleFunc("/invites/{id}/accept", s.handleAcceptInvite).Methods(http.MethodPost)
	api.HandleFunc("/invites/{id}/decline", s.handleDeclineInvite).Methods(http.MethodPost)
	api.HandleFunc("/invites/{id}/revoke", s.handleRevokeInvite).Methods(http.MethodPost)

	api.HandleFunc("/groups/{id}/expenses", s.handleCreateExpense).Methods(http.MethodPost)
	api.HandleFunc("/groups/{id}/expenses", s.handleListExpenses).Methods(http.MethodGet)
	api.HandleFunc("/expenses/{id}", s.handleGetExpense).Methods(http.MethodGet)
	api.HandleFunc("/expenses/{id}", s.handleUpdateExpense).Methods(http.MethodPut)
	api.HandleFunc("/expenses/{id}", s.handleDeleteExpense).Methods(http.MethodDelete)

	api.HandleFunc("/groups/{id}/settlements", s.handleCreateSettlement).Methods(http.MethodPost)
	api.HandleFunc("/groups/{id}/settlements", s.handleListSettlements).Methods(http.MethodGet)
	api.HandleFunc("/settlements/{id}/complete", s.handleCompleteSettlement).Methods(http.MethodPost)
	api.HandleFunc("/settlements/{id}/cancel", s.handleCancelSettlement).Methods(http.MethodPost)

	api.HandleFunc("/groups/{id}/balances", s.handleGroupBalances).Methods(http.MethodGet)
	api.HandleFunc("/balances", s.handleUserBalances).Methods(http.MethodGet)

	api.HandleFunc("/groups/{id}/activity", s.handleGroupActivity).Methods(http.MethodGet)
	api.HandleFunc("/activity", s.handleUserActivity).Methods(http.MethodGet)

	return middleware.CORS(s.corsOrigin)(middleware.Logging(router))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireGroupMember loads a group and checks the caller belongs to it.
// On failure it writes the response and returns ok=false.
func (s *Server) requireGroupMember(w http.ResponseWriter, r *http.Request, groupID string) (*models.Group, bool) {
	group, err := s.store.GetGroup(r.Context(), groupID)
	if err != nil {
		respondStoreError(w, err)
		return nil, false
	}
	userID := middleware.GetUserID(r.Context())
	if !group.HasMember(userID) {
		respondError(w, http.StatusForbidden, errors.New("you must be a member of this group"))
		return nil, false
	}
	return group, true
}
