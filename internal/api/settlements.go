package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/spltr3/spltr3/internal/ledger"
	"github.com/spltr3/spltr3/internal/middleware"
	"github.com/spltr3/spltr3/internal/models"
)

type settlementRequest struct {
	PayerID string                  `json:"payer_id"`
	PayeeID string                  `json:"payee_id"`
	Amount  decimal.Decimal         `json:"amount"`
	Method  models.SettlementMethod `json:"method"`
	Note    string                  `json:"note"`
}

// handleCreateSettlement records a payment between two members. Cash
// settlements already happened and are created completed; external ones
// stay pending until the payee confirms.
func (s *Server) handleCreateSettlement(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req settlementRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if !req.Method.Valid() {
		respondError(w, http.StatusBadRequest, errors.New("method must be cash or external"))
		return
	}
	if !req.Amount.IsPositive() || !req.Amount.Round(2).Equal(req.Amount) {
		respondError(w, http.StatusBadRequest, ledger.ErrInvalidTotal)
		return
	}
	if req.PayerID == req.PayeeID {
		respondError(w, http.StatusBadRequest, errors.New("payer and payee must differ"))
		return
	}
	if !group.HasMember(req.PayerID) || !group.HasMember(req.PayeeID) {
		respondError(w, http.StatusBadRequest, errors.New("payer and payee must be group members"))
		return
	}

	status := models.SettlementPending
	if req.Method == models.MethodCash {
		status = models.SettlementCompleted
	}

	settlement := &models.Settlement{
		GroupID:   group.ID,
		PayerID:   req.PayerID,
		PayeeID:   req.PayeeID,
		Amount:    req.Amount,
		Currency:  group.Currency,
		Method:    req.Method,
		Status:    status,
		Note:      req.Note,
		CreatedBy: middleware.GetUserID(r.Context()),
	}
	if err := s.store.CreateSettlement(r.Context(), settlement); err != nil {
		slog.Error("CreateSettlement failed", "group_id", group.ID, "error", err)
		respondStoreError(w, err)
		return
	}

	if status == models.SettlementCompleted {
		middleware.SettlementsCompleted.Inc()
	}
	s.recordActivity(r, group.ID, models.VerbCreated, models.ObjectSettlement, settlement.ID, settlementSummary(settlement))
	slog.Info("settlement created",
		"settlement_id", settlement.ID,
		"group_id", group.ID,
		"status", settlement.Status,
	)
	respondJSON(w, http.StatusCreated, settlement)
}

func settlementSummary(s *models.Settlement) string {
	return fmt.Sprintf("%s %s from %s to %s", s.Amount.StringFixed(2), s.Currency, s.PayerID, s.PayeeID)
}

// handleListSettlements lists a group's settlements, newest first.
func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroupMember(w, r, mux.Vars(r)["id"])
	if !ok {
		return
	}

	settlements, err := s.store.ListSettlementsByGroup(r.Context(), group.ID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", group.ID, "error", err)
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"settlements": settlements})
}

// getMemberSettlement loads a settlement and checks the caller can see it.
func (s *Server) getMemberSettlement(w http.ResponseWriter, r *http.Request) (*models.Settlement, bool) {
	settlement, err := s.store.GetSettlement(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondStoreError(w, err)
		return nil, false
	}
	if _, ok := s.requireGroupMember(w, r, settlement.GroupID); !ok {
		return nil, false
	}
	return settlement, true
}

// handleCompleteSettlement confirms receipt of a pending settlement. Only
// the payee can confirm money arrived.
func (s *Server) handleCompleteSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, ok := s.getMemberSettlement(w, r)
	if !ok {
		return
	}
	if middleware.GetUserID(r.Context()) != settlement.PayeeID {
		respondError(w, http.StatusForbidden, errors.New("only the payee can complete a settlement"))
		return
	}

	if err := s.store.TransitionSettlement(r.Context(), settlement.ID, models.SettlementPending, models.SettlementCompleted); err != nil {
		respondStoreError(w, err)
		return
	}
	settlement.Status = models.SettlementCompleted

	middleware.SettlementsCompleted.Inc()
	s.recordActivity(r, settlement.GroupID, models.VerbCompleted, models.ObjectSettlement, settlement.ID, settlementSummary(settlement))
	slog.Info("settlement completed", "settlement_id", settlement.ID)
	respondJSON(w, http.StatusOK, settlement)
}

// handleCancelSettlement cancels a pending settlement. Either party can
// back out before the payee confirms.
func (s *Server) handleCancelSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, ok := s.getMemberSettlement(w, r)
	if !ok {
		return
	}
	caller := middleware.GetUserID(r.Context())
	if caller != settlement.PayerID && caller != settlement.PayeeID {
		respondError(w, http.StatusForbidden, errors.New("only the payer or payee can cancel a settlement"))
		return
	}

	if err := s.store.TransitionSettlement(r.Context(), settlement.ID, models.SettlementPending, models.SettlementCanceled); err != nil {
		respondStoreError(w, err)
		return
	}
	settlement.Status = models.SettlementCanceled

	s.recordActivity(r, settlement.GroupID, models.VerbCanceled, models.ObjectSettlement, settlement.ID, settlementSummary(settlement))
	respondJSON(w, http.StatusOK, settlement)
}
