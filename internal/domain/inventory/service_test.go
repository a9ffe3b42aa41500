package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
)

// mockRepo is an in-memory product store recording every decrement.
type mockRepo struct {
	products map[id.ID]*Product

	decrements []DebitLine
	// failGuardFor simulates a concurrent debit: the conditional decrement
	// reports no row matched for this product.
	failGuardFor map[id.ID]bool
}

func newMockRepo(products ...*Product) *mockRepo {
	m := &mockRepo{
		products:     make(map[id.ID]*Product),
		failGuardFor: make(map[id.ID]bool),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockRepo) Create(ctx context.Context, product *Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, productID id.ID) (*Product, error) {
	return m.GetByID(ctx, productID)
}

func (m *mockRepo) Update(ctx context.Context, product *Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, productID id.ID) error {
	delete(m.products, productID)
	return nil
}

func (m *mockRepo) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	out := make([]*Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockRepo) DecrementStock(ctx context.Context, productID id.ID, quantity int) (bool, error) {
	if m.failGuardFor[productID] {
		return false, nil
	}
	p, ok := m.products[productID]
	if !ok || p.Stock < quantity {
		return false, nil
	}
	p.Stock -= quantity
	m.decrements = append(m.decrements, DebitLine{ProductID: productID, Quantity: quantity})
	return true, nil
}

func (m *mockRepo) IncrementStock(ctx context.Context, productID id.ID, quantity int) error {
	m.products[productID].Stock += quantity
	return nil
}

type txStub struct{}

func (txStub) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func product(name string, stock int) *Product {
	return &Product{ID: id.New(), Name: name, Stock: stock}
}

func TestDebitStock_HappyPath(t *testing.T) {
	aspirin := product("Aspirin", 10)
	ibuprofen := product("Ibuprofen", 5)
	repo := newMockRepo(aspirin, ibuprofen)
	svc := NewService(repo, txStub{})

	err := svc.DebitStock(context.Background(), []DebitLine{
		{ProductID: aspirin.ID, Quantity: 3},
		{ProductID: ibuprofen.ID, Quantity: 5},
	})

	require.NoError(t, err)
	assert.Equal(t, 7, aspirin.Stock)
	assert.Equal(t, 0, ibuprofen.Stock)
}

func TestDebitStock_InsufficientOnLaterLine_NothingDebited(t *testing.T) {
	aspirin := product("Aspirin", 10)
	ibuprofen := product("Ibuprofen", 2)
	repo := newMockRepo(aspirin, ibuprofen)
	svc := NewService(repo, txStub{})

	err := svc.DebitStock(context.Background(), []DebitLine{
		{ProductID: aspirin.ID, Quantity: 3},
		{ProductID: ibuprofen.ID, Quantity: 5},
	})

	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Contains(t, err.Error(), "Ibuprofen")

	// The pre-check failed before any decrement was issued.
	assert.Empty(t, repo.decrements)
	assert.Equal(t, 10, aspirin.Stock)
	assert.Equal(t, 2, ibuprofen.Stock)
}

func TestDebitStock_UnknownProduct(t *testing.T) {
	aspirin := product("Aspirin", 10)
	repo := newMockRepo(aspirin)
	svc := NewService(repo, txStub{})

	err := svc.DebitStock(context.Background(), []DebitLine{
		{ProductID: aspirin.ID, Quantity: 1},
		{ProductID: id.New(), Quantity: 1},
	})

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, repo.decrements)
}

func TestDebitStock_GuardFailure(t *testing.T) {
	// The pre-check passes but the conditional decrement reports a
	// concurrent debit took the stock first.
	aspirin := product("Aspirin", 10)
	repo := newMockRepo(aspirin)
	repo.failGuardFor[aspirin.ID] = true
	svc := NewService(repo, txStub{})

	err := svc.DebitStock(context.Background(), []DebitLine{
		{ProductID: aspirin.ID, Quantity: 3},
	})

	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestDebitStock_Validation(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, txStub{})

	err := svc.DebitStock(context.Background(), nil)
	require.Error(t, err)

	err = svc.DebitStock(context.Background(), []DebitLine{
		{ProductID: id.New(), Quantity: 0},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReceiveStock(t *testing.T) {
	aspirin := product("Aspirin", 2)
	repo := newMockRepo(aspirin)
	svc := NewService(repo, txStub{})

	require.NoError(t, svc.ReceiveStock(context.Background(), aspirin.ID, 8))
	assert.Equal(t, 10, aspirin.Stock)

	err := svc.ReceiveStock(context.Background(), aspirin.ID, 0)
	require.Error(t, err)
}
