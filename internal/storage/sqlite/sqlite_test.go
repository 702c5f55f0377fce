package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spltr3/spltr3/internal/models"
	"github.com/spltr3/spltr3/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createTestGroup(t *testing.T, store *SQLiteStore, members ...string) *models.Group {
	t.Helper()
	ctx := context.Background()
	group := &models.Group{Name: "Roommates", CreatedBy: members[0]}
	require.NoError(t, store.CreateGroup(ctx, group))
	for _, m := range members[1:] {
		require.NoError(t, store.AddGroupMember(ctx, group.ID, m))
	}
	return group
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("upsert creates then refreshes", func(t *testing.T) {
		user := &models.User{ID: "u1", Email: "alice@example.com", DisplayName: "Alice"}
		require.NoError(t, store.UpsertUser(ctx, user))
		require.NotZero(t, user.CreatedAt)

		user.DisplayName = "Alice B"
		require.NoError(t, store.UpsertUser(ctx, user))

		got, err := store.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Alice B", got.DisplayName)
		assert.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("missing user is ErrNotFound", func(t *testing.T) {
		_, err := store.GetUser(ctx, "nope")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create seeds id, currency, and creator membership", func(t *testing.T) {
		group := &models.Group{Name: "Trip", CreatedBy: "alice"}
		require.NoError(t, store.CreateGroup(ctx, group))
		assert.NotEmpty(t, group.ID)
		assert.Equal(t, "USD", group.Currency)

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, got.Members, 1)
		assert.Equal(t, "alice", got.Members[0].UserID)
	})

	t.Run("add member is idempotent", func(t *testing.T) {
		group := createTestGroup(t, store, "alice")
		require.NoError(t, store.AddGroupMember(ctx, group.ID, "bob"))
		require.NoError(t, store.AddGroupMember(ctx, group.ID, "bob"))

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Len(t, got.Members, 2)
	})

	t.Run("remove member", func(t *testing.T) {
		group := createTestGroup(t, store, "alice", "bob")
		require.NoError(t, store.RemoveGroupMember(ctx, group.ID, "bob"))
		require.ErrorIs(t, store.RemoveGroupMember(ctx, group.ID, "bob"), storage.ErrNotFound)
	})

	t.Run("list groups by user", func(t *testing.T) {
		store := newTestStore(t)
		createTestGroup(t, store, "carol", "dave")
		createTestGroup(t, store, "carol")
		createTestGroup(t, store, "dave")

		carols, err := store.ListGroupsByUser(ctx, "carol")
		require.NoError(t, err)
		assert.Len(t, carols, 2)

		daves, err := store.ListGroupsByUser(ctx, "dave")
		require.NoError(t, err)
		assert.Len(t, daves, 2)
	})

	t.Run("update and delete", func(t *testing.T) {
		group := createTestGroup(t, store, "alice")
		group.Name = "Renamed"
		group.Currency = "EUR"
		require.NoError(t, store.UpdateGroup(ctx, group))

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, "EUR", got.Currency)

		require.NoError(t, store.DeleteGroup(ctx, group.ID))
		_, err = store.GetGroup(ctx, group.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createTestGroup(t, store, "alice", "bob", "carol")

	newExpense := func() *models.Expense {
		return &models.Expense{
			GroupID:     group.ID,
			PayerID:     "alice",
			Description: "Groceries",
			Total:       dec("10.00"),
			Currency:    "USD",
			SplitType:   models.SplitEqual,
			CreatedBy:   "alice",
			Shares: []models.Share{
				{UserID: "alice", Value: dec("0"), Amount: dec("3.33")},
				{UserID: "bob", Value: dec("0"), Amount: dec("3.33")},
				{UserID: "carol", Value: dec("0"), Amount: dec("3.34")},
			},
		}
	}

	t.Run("create and get preserves share order and amounts", func(t *testing.T) {
		expense := newExpense()
		require.NoError(t, store.CreateExpense(ctx, expense))
		require.NotEmpty(t, expense.ID)

		got, err := store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.True(t, got.Total.Equal(dec("10.00")))
		require.Len(t, got.Shares, 3)
		// Share order carries the residual rule; it must survive storage.
		assert.Equal(t, "alice", got.Shares[0].UserID)
		assert.Equal(t, "carol", got.Shares[2].UserID)
		assert.True(t, got.Shares[2].Amount.Equal(dec("3.34")))
	})

	t.Run("update replaces shares atomically", func(t *testing.T) {
		expense := newExpense()
		require.NoError(t, store.CreateExpense(ctx, expense))

		expense.Total = dec("20.00")
		expense.SplitType = models.SplitExact
		expense.Shares = []models.Share{
			{UserID: "bob", Value: dec("15.00"), Amount: dec("15.00")},
			{UserID: "carol", Value: dec("5.00"), Amount: dec("5.00")},
		}
		require.NoError(t, store.UpdateExpense(ctx, expense))

		got, err := store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SplitExact, got.SplitType)
		require.Len(t, got.Shares, 2)
		assert.Equal(t, "bob", got.Shares[0].UserID)
		assert.True(t, got.Shares[0].Value.Equal(dec("15.00")))
	})

	t.Run("list by group newest first", func(t *testing.T) {
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.NotEmpty(t, expenses)
		for _, e := range expenses {
			assert.NotEmpty(t, e.Shares)
		}
	})

	t.Run("delete", func(t *testing.T) {
		expense := newExpense()
		require.NoError(t, store.CreateExpense(ctx, expense))
		require.NoError(t, store.DeleteExpense(ctx, expense.ID))
		_, err := store.GetExpense(ctx, expense.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)
		require.ErrorIs(t, store.DeleteExpense(ctx, expense.ID), storage.ErrNotFound)
	})
}

func TestSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createTestGroup(t, store, "alice", "bob")

	newSettlement := func(status models.SettlementStatus) *models.Settlement {
		s := &models.Settlement{
			GroupID:   group.ID,
			PayerID:   "bob",
			PayeeID:   "alice",
			Amount:    dec("12.50"),
			Currency:  "USD",
			Method:    models.MethodExternal,
			Status:    status,
			CreatedBy: "bob",
		}
		require.NoError(t, store.CreateSettlement(ctx, s))
		return s
	}

	t.Run("round trip", func(t *testing.T) {
		s := newSettlement(models.SettlementPending)
		got, err := store.GetSettlement(ctx, s.ID)
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(dec("12.50")))
		assert.Equal(t, models.SettlementPending, got.Status)
	})

	t.Run("pending completes once", func(t *testing.T) {
		s := newSettlement(models.SettlementPending)
		require.NoError(t, store.TransitionSettlement(ctx, s.ID, models.SettlementPending, models.SettlementCompleted))

		err := store.TransitionSettlement(ctx, s.ID, models.SettlementPending, models.SettlementCompleted)
		require.ErrorIs(t, err, storage.ErrConflict)

		got, err := store.GetSettlement(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SettlementCompleted, got.Status)
	})

	t.Run("pending cancels", func(t *testing.T) {
		s := newSettlement(models.SettlementPending)
		require.NoError(t, store.TransitionSettlement(ctx, s.ID, models.SettlementPending, models.SettlementCanceled))
	})

	t.Run("completed is terminal", func(t *testing.T) {
		s := newSettlement(models.SettlementCompleted)
		err := store.TransitionSettlement(ctx, s.ID, models.SettlementPending, models.SettlementCanceled)
		require.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("missing settlement is ErrNotFound", func(t *testing.T) {
		err := store.TransitionSettlement(ctx, "nope", models.SettlementPending, models.SettlementCompleted)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestInvites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group := createTestGroup(t, store, "alice")

	t.Run("create defaults to pending", func(t *testing.T) {
		invite := &models.Invite{GroupID: group.ID, InvitedBy: "alice", Email: "bob@example.com"}
		require.NoError(t, store.CreateInvite(ctx, invite))

		got, err := store.GetInvite(ctx, invite.ID)
		require.NoError(t, err)
		assert.Equal(t, models.InvitePending, got.Status)
		assert.Equal(t, "bob@example.com", got.Email)
		assert.Zero(t, got.RespondedAt)
	})

	t.Run("accept stamps responded_at and is one-shot", func(t *testing.T) {
		invite := &models.Invite{GroupID: group.ID, InvitedBy: "alice"}
		require.NoError(t, store.CreateInvite(ctx, invite))

		require.NoError(t, store.TransitionInvite(ctx, invite.ID, models.InvitePending, models.InviteAccepted))

		got, err := store.GetInvite(ctx, invite.ID)
		require.NoError(t, err)
		assert.Equal(t, models.InviteAccepted, got.Status)
		assert.NotZero(t, got.RespondedAt)

		err = store.TransitionInvite(ctx, invite.ID, models.InvitePending, models.InviteDeclined)
		require.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("list by group", func(t *testing.T) {
		invites, err := store.ListInvitesByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Len(t, invites, 2)
	})
}

func TestActivity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	groupA := createTestGroup(t, store, "alice", "bob")
	groupB := createTestGroup(t, store, "carol")

	appendEntry := func(groupID, actor, verb string) {
		require.NoError(t, store.AppendActivity(ctx, &models.Activity{
			GroupID:    groupID,
			ActorID:    actor,
			Verb:       verb,
			ObjectType: models.ObjectExpense,
			ObjectID:   "e1",
			Summary:    "Groceries ($10.00)",
		}))
	}

	appendEntry(groupA.ID, "alice", models.VerbCreated)
	appendEntry(groupA.ID, "bob", models.VerbUpdated)
	appendEntry(groupB.ID, "carol", models.VerbCreated)

	t.Run("list by group", func(t *testing.T) {
		entries, err := store.ListActivityByGroup(ctx, groupA.ID, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("list by user spans the user's groups only", func(t *testing.T) {
		entries, err := store.ListActivityByUser(ctx, "bob", 0)
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		entries, err = store.ListActivityByUser(ctx, "carol", 0)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("limit applies", func(t *testing.T) {
		entries, err := store.ListActivityByGroup(ctx, groupA.ID, 1)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
