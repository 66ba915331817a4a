package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frieren/internal/domain"
	"frieren/internal/services"
)

func newOrderService(store *memStore) *services.OrderService {
	svc := services.NewOrderService(store)
	n := 0
	svc.NewID = func() string {
		n++
		return fmt.Sprintf("ord-%d", n)
	}
	return svc
}

func fullInput() domain.OrderInput {
	return domain.OrderInput{
		ClientName:  "  Asha Rao ",
		ClientEmail: " Asha@Example.com",
		ClientPhone: "9876543210",
		Services: domain.Services{
			Frontend: domain.FrontendService{Tier: "animations", Price: 1},
			Backend:  domain.BackendService{Tier: "modern", Price: 1},
			Database: domain.DatabaseService{Features: []string{"user", "gridfs"}, Price: 1},
			Payment:  domain.PaymentService{Included: true, Price: 1},
		},
	}
}

func TestSubmitPricesServerSide(t *testing.T) {
	store := newMemStore()
	svc := newOrderService(store)

	claimed := 100.0
	in := fullInput()
	in.TotalPrice = &claimed

	r, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, r.Overridden)
	assert.Equal(t, int64(17000), r.Order.TotalPrice)
	assert.Equal(t, []string{"combo"}, r.Order.Services.Database.Features)
	assert.Equal(t, int64(5000), r.Order.Services.Database.Price)
	assert.Equal(t, int64(6000), r.Order.Services.Frontend.Price)
	assert.Equal(t, domain.StatusPending, r.Order.Status)
	assert.Equal(t, "Asha Rao", r.Order.ClientName)
	assert.Equal(t, "asha@example.com", r.Order.ClientEmail)

	stored := store.orders[r.Order.ID]
	assert.Equal(t, int64(17000), stored.TotalPrice)
}

func TestSubmitMatchingTotalIsNotOverride(t *testing.T) {
	svc := newOrderService(newMemStore())
	claimed := 17000.0
	in := fullInput()
	in.TotalPrice = &claimed
	r, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, r.Overridden)
}

func TestSubmitTwiceYieldsDistinctRecords(t *testing.T) {
	store := newMemStore()
	svc := newOrderService(store)

	a, err := svc.Submit(context.Background(), fullInput())
	require.NoError(t, err)
	b, err := svc.Submit(context.Background(), fullInput())
	require.NoError(t, err)

	assert.NotEqual(t, a.Order.ID, b.Order.ID)
	assert.Equal(t, a.Order.TotalPrice, b.Order.TotalPrice)
	assert.Len(t, store.orders, 2)
}

func TestSubmitRejectsMissingBackend(t *testing.T) {
	store := newMemStore()
	svc := newOrderService(store)
	in := fullInput()
	in.Services.Backend = domain.BackendService{}

	_, err := svc.Submit(context.Background(), in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "services.backend")
	assert.Zero(t, store.calls)
}

func TestSubmitPersistenceFailure(t *testing.T) {
	store := newMemStore()
	store.failErr = errors.New("connection refused")
	svc := newOrderService(store)

	_, err := svc.Submit(context.Background(), fullInput())
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
}

func TestAdminOperationsRequireActorBeforeStore(t *testing.T) {
	store := newMemStore()
	svc := newOrderService(store)
	ctx := context.Background()

	_, err := svc.Get(ctx, nil, "x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.UpdateStatus(ctx, nil, "x", "completed")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, nil, "x"), domain.ErrUnauthorized)
	_, err = svc.List(ctx, nil, domain.OrderQuery{Page: 1, Limit: 20})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Zero(t, store.calls)
}

func TestAdminOperations(t *testing.T) {
	store := newMemStore()
	svc := newOrderService(store)
	ctx := context.Background()
	actor := &domain.Actor{ID: "a1", Username: "frieren", Role: domain.RoleAdmin}

	r, err := svc.Submit(ctx, fullInput())
	require.NoError(t, err)
	id := r.Order.ID

	got, err := svc.Get(ctx, actor, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = svc.UpdateStatus(ctx, actor, id, "shipped")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")

	got, err = svc.UpdateStatus(ctx, actor, id, "in-progress")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)

	_, err = svc.UpdateStatus(ctx, actor, "missing", "completed")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := svc.List(ctx, actor, domain.OrderQuery{Page: 1, Limit: 20, Filter: domain.OrderFilter{Status: domain.StatusInProgress}})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 1)

	require.NoError(t, svc.Delete(ctx, actor, id))
	assert.ErrorIs(t, svc.Delete(ctx, actor, id), domain.ErrNotFound)
}
