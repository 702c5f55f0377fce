package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/spltr3/spltr3/internal/ledger"
	"github.com/spltr3/spltr3/internal/middleware"
	"github.com/spltr3/spltr3/internal/models"
)

type groupBalancesResponse struct {
	GroupID  string                 `json:"group_id"`
	Currency string                 `json:"currency"`
	Balances []ledger.MemberBalance `json:"balances"`

	// SuggestedSettlements is the simplified debt matrix: the minimal
	// greedy set of transfers that would square the group.
	SuggestedSettlements []ledger.Transfer `json:"suggested_settlements"`
}

// handleGroupBalances projects a group's balances from its ledger.
func (s *Server) handleGroupBalances(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}

	balances, err := s.groupBalances(r, group)
	if err != nil {
		slog.Error("GroupBalances failed", "group_id", group.ID, "error", err)
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, groupBalancesResponse{
		GroupID:              group.ID,
		Currency:             group.Currency,
		Balances:             balances,
		SuggestedSettlements: ledger.Simplify(balances),
	})
}

func (s *Server) groupBalances(r *http.Request, group *models.Group) ([]ledger.MemberBalance, error) {
	expenses, err := s.store.ListExpensesByGroup(r.Context(), group.ID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlementsByGroup(r.Context(), group.ID)
	if err != nil {
		return nil, err
	}
	return ledger.Balances(expenses, settlements), nil
}

type userGroupBalance struct {
	GroupID   string          `json:"group_id"`
	GroupName string          `json:"group_name"`
	Currency  string          `json:"currency"`
	Net       decimal.Decimal `json:"net"`
}

type userBalancesResponse struct {
	// TotalNet is the caller's net across all groups. Meaningful when the
	// groups share a currency; mixed-currency groups are still listed
	// individually.
	TotalNet decimal.Decimal    `json:"total_net"`
	Groups   []userGroupBalance `json:"groups"`
}

// handleUserBalances reports the caller's net position in each group.
func (s *Server) handleUserBalances(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groups, err := s.store.ListGroupsByUser(r.Context(), userID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	resp := userBalancesResponse{TotalNet: decimal.Zero, Groups: []userGroupBalance{}}
	for _, group := range groups {
		balances, err := s.groupBalances(r, group)
		if err != nil {
			slog.Error("UserBalances failed", "group_id", group.ID, "error", err)
			respondStoreError(w, err)
			return
		}

		net := decimal.Zero
		for _, b := range balances {
			if b.UserID == userID {
				net = b.Net
				break
			}
		}
		resp.TotalNet = resp.TotalNet.Add(net)
		resp.Groups = append(resp.Groups, userGroupBalance{
			GroupID:   group.ID,
			GroupName: group.Name,
			Currency:  group.Currency,
			Net:       net,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}
