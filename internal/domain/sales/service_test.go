package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/appctx"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/inventory"
	"pharmapos/internal/domain/ledger"
)

// mockRepo is an in-memory sale store. txStub snapshots it before running a
// unit and restores the snapshot when the unit fails, so writes from an
// aborted transaction are never visible to later reads.
type mockRepo struct {
	sales     map[id.ID]*Sale
	items     map[id.ID][]SaleItem
	payments  map[id.ID][]DuePayment
	customers []*Customer

	updateBalanceErr error

	snapshot *mockRepo
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		sales:    make(map[id.ID]*Sale),
		items:    make(map[id.ID][]SaleItem),
		payments: make(map[id.ID][]DuePayment),
	}
}

func (m *mockRepo) Create(ctx context.Context, sale *Sale) error {
	cp := *sale
	m.sales[sale.ID] = &cp
	return nil
}

func (m *mockRepo) SaveItems(ctx context.Context, saleID id.ID, items []SaleItem) error {
	m.items[saleID] = items
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	s, ok := m.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	cp := *s
	return &cp, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, saleID id.ID) (*Sale, error) {
	return m.GetByID(ctx, saleID)
}

func (m *mockRepo) begin() {
	snap := &mockRepo{
		sales:     make(map[id.ID]*Sale, len(m.sales)),
		items:     make(map[id.ID][]SaleItem, len(m.items)),
		payments:  make(map[id.ID][]DuePayment, len(m.payments)),
		customers: append([]*Customer(nil), m.customers...),
	}
	for k, v := range m.sales {
		cp := *v
		snap.sales[k] = &cp
	}
	for k, v := range m.items {
		snap.items[k] = append([]SaleItem(nil), v...)
	}
	for k, v := range m.payments {
		snap.payments[k] = append([]DuePayment(nil), v...)
	}
	m.snapshot = snap
}

func (m *mockRepo) rollback() {
	m.sales = m.snapshot.sales
	m.items = m.snapshot.items
	m.payments = m.snapshot.payments
	m.customers = m.snapshot.customers
	m.snapshot = nil
}

func (m *mockRepo) UpdateBalance(ctx context.Context, saleID id.ID, update BalanceUpdate) error {
	if m.updateBalanceErr != nil {
		return m.updateBalanceErr
	}
	s, ok := m.sales[saleID]
	if !ok {
		return apperror.NewNotFound("sale", saleID.String())
	}
	s.PaidAmount = update.PaidAmount
	s.Status = update.Status
	s.HasDue = update.HasDue
	return nil
}

func (m *mockRepo) SetHasDue(ctx context.Context, saleID id.ID, hasDue bool) error {
	s, ok := m.sales[saleID]
	if !ok {
		return apperror.NewNotFound("sale", saleID.String())
	}
	s.HasDue = hasDue
	return nil
}

func (m *mockRepo) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	out := make([]*Sale, 0, len(m.sales))
	for _, s := range m.sales {
		if filter.HasDue != nil && s.HasDue != *filter.HasDue {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRepo) GetItems(ctx context.Context, saleID id.ID) ([]SaleItem, error) {
	return m.items[saleID], nil
}

func (m *mockRepo) CreateCustomer(ctx context.Context, customer *Customer) error {
	m.customers = append(m.customers, customer)
	return nil
}

func (m *mockRepo) CreateDuePayment(ctx context.Context, payment *DuePayment) error {
	m.payments[payment.SaleID] = append(m.payments[payment.SaleID], *payment)
	return nil
}

func (m *mockRepo) SumDuePayments(ctx context.Context, saleID id.ID) (types.Money, error) {
	sum := types.Zero()
	for _, p := range m.payments[saleID] {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (m *mockRepo) ListDuePayments(ctx context.Context, saleID id.ID) ([]DuePayment, error) {
	return m.payments[saleID], nil
}

// mockDebiter records debit calls and can be primed to fail.
type mockDebiter struct {
	calls [][]inventory.DebitLine
	err   error
}

func (m *mockDebiter) DebitStock(ctx context.Context, lines []inventory.DebitLine) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, lines)
	return nil
}

// txStub mimics the transactional contract: on failure every write made
// inside the unit is discarded.
type txStub struct {
	repo *mockRepo
}

func (t txStub) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.repo != nil {
		t.repo.begin()
	}
	err := fn(ctx)
	if t.repo != nil {
		if err != nil {
			t.repo.rollback()
		} else {
			t.repo.snapshot = nil
		}
	}
	return err
}

func money(s string) types.Money {
	return decimal.RequireFromString(s)
}

func authedCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: id.New().String(),
		Name:   "Counter Staff",
		Role:   appctx.RoleUser,
	})
}

func validCreateInput() CreateInput {
	return CreateInput{
		Items: []CreateItemInput{
			{ProductID: id.New(), Quantity: 2, Price: money("50")},
		},
		Total:      money("100"),
		PaidAmount: money("100"),
	}
}

func TestCreate_FullyPaid(t *testing.T) {
	repo := newMockRepo()
	debiter := &mockDebiter{}
	svc := NewService(repo, debiter, txStub{repo: repo})

	sale, err := svc.Create(authedCtx(), validCreateInput())

	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, sale.Status)
	assert.False(t, sale.HasDue)
	assert.True(t, sale.PendingAmount().IsZero())
	require.Len(t, debiter.calls, 1)
	assert.Len(t, repo.items[sale.ID], 1)
}

func TestCreate_PartialPayment_EnrollsDueTracking(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockDebiter{}, txStub{repo: repo})

	in := validCreateInput()
	in.PaidAmount = money("40")

	sale, err := svc.Create(authedCtx(), in)

	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPartial, sale.Status)
	assert.True(t, sale.HasDue)
	assert.True(t, sale.PendingAmount().Equal(money("60")))
}

func TestCreate_Unpaid(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockDebiter{}, txStub{repo: repo})

	in := validCreateInput()
	in.PaidAmount = types.Zero()

	sale, err := svc.Create(authedCtx(), in)

	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, sale.Status)
	assert.False(t, sale.HasDue)
}

func TestCreate_InsufficientStock_NothingPersisted(t *testing.T) {
	repo := newMockRepo()
	debiter := &mockDebiter{err: apperror.NewInsufficientStock("Aspirin", 5, 2)}
	svc := NewService(repo, debiter, txStub{repo: repo})

	_, err := svc.Create(authedCtx(), validCreateInput())

	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Debit failure aborts the unit before the sale row is written.
	assert.Empty(t, repo.sales)
	assert.Empty(t, repo.items)
}

func TestCreate_WalkInCustomer(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockDebiter{}, txStub{repo: repo})

	in := validCreateInput()
	in.Customer = &CreateCustomerInput{Name: "Walk-in", Phone: "0123456789"}

	sale, err := svc.Create(authedCtx(), in)

	require.NoError(t, err)
	require.NotNil(t, sale.CustomerID)
	require.Len(t, repo.customers, 1)
	assert.Equal(t, *sale.CustomerID, repo.customers[0].ID)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo(), &mockDebiter{}, txStub{})
	ctx := authedCtx()

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"no items", func(in *CreateInput) { in.Items = nil }},
		{"zero quantity", func(in *CreateInput) { in.Items[0].Quantity = 0 }},
		{"negative price", func(in *CreateInput) { in.Items[0].Price = money("-1") }},
		{"zero total", func(in *CreateInput) { in.Total = types.Zero() }},
		{"negative paid", func(in *CreateInput) { in.PaidAmount = money("-5") }},
		{"paid exceeds total", func(in *CreateInput) { in.PaidAmount = money("150") }},
		{"customer without phone", func(in *CreateInput) {
			in.Customer = &CreateCustomerInput{Name: "X"}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			tc.mutate(&in)
			_, err := svc.Create(ctx, in)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}

func TestCreate_NoSession(t *testing.T) {
	svc := NewService(newMockRepo(), &mockDebiter{}, txStub{})

	_, err := svc.Create(context.Background(), validCreateInput())

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func seedSale(t *testing.T, repo *mockRepo, total, paid string) *Sale {
	t.Helper()
	status, paidAmount := ledger.DeriveStatus(money(paid), money(total))
	sale := &Sale{
		ID:                id.New(),
		Total:             money(total),
		InitialPaidAmount: paidAmount,
		PaidAmount:        paidAmount,
		Status:            status,
		HasDue:            status == ledger.StatusPartial,
		UserID:            id.New(),
	}
	require.NoError(t, repo.Create(context.Background(), sale))
	return sale
}

func TestRecordDuePayment_SettlesExactly(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockDebiter{}, txStub{repo: repo})
	sale := seedSale(t, repo, "100", "40")

	payment, updated, err := svc.RecordDuePayment(authedCtx(), PaymentInput{
		SaleID: sale.ID,
		Amount: money("60"),
	})

	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(money("60")))
	assert.Equal(t, ledger.StatusPaid, updated.Status)
	assert.False(t, updated.HasDue)
	assert.True(t, updated.PaidAmount.Equal(money("100")))
}

func TestRecordDuePayment_PartialKeepsDue(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockDebiter{}, txStub{repo: repo})
	sale := seedSale(t, repo, "100", "40")

	_, updated, err := svc.RecordDuePayment(authedCtx(), PaymentInput{
		SaleID: sale.ID,
		Amount: money("30"),
	})

	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPartial, updated.Status)
	assert.True(t, updated.HasDue)
	assert.True(t, updated.PaidAmount.Equal(money("70")))
}

func TestRecordDuePayment_AggregatesHistoryNotLastPayment(t *testing.T) {
	// Two successive payments; the second settlement must count the
	// counter amount exactly once, not double the history.
	repo := newMockRepo()
	svc := NewService(repo, &mockDebiter{}, txStub{repo: repo})
	sale := seedSale(t, repo, "100", "40")

	_, _, err := svc.RecordDuePayment(authedCtx(), PaymentInput{SaleID: sale.ID, Amount: money("30")})
	require.NoError(t, err)

	_, updated, err := svc.RecordDuePayment(authedCtx(), PaymentInput{SaleID: sale.ID, Amount: money("30")})
	require.NoError(t, err)

	assert.Equal(t, ledger.StatusPaid, updated.Status)
	assert.True(t, updated.PaidAmount.Equal(money("100")))
	assert.True(t, updated.PendingAmount().IsZero())
}

func TestRecordDuePayment_OverpayClampedToTotal(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockDebiter{}, txStub{repo: repo})
	sale := seedSale(t, repo, "100", "40")

	_, updated, err := svc.RecordDuePayment(authedCtx(), PaymentInput{
		SaleID: sale.ID,
		Amount: money("90"),
	})

	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, updated.Status)
	// Paid amount never exceeds the total.
	assert.True(t, updated.PaidAmount.Equal(money("100")))
}

func TestRecordDuePayment_RejectedWhenFullyPaid(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockDebiter{}, txStub{repo: repo})
	sale := seedSale(t, repo, "100", "100")

	_, _, err := svc.RecordDuePayment(authedCtx(), PaymentInput{
		SaleID: sale.ID,
		Amount: money("10"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already fully paid")
	assert.Empty(t, repo.payments[sale.ID])
}

func TestRecordDuePayment_BalanceUpdateFails_PaymentNotVisible(t *testing.T) {
	// The payment insert and the balance writeback are one unit: when the
	// writeback fails, the already-inserted payment row must not survive.
	repo := newMockRepo()
	svc := NewService(repo, &mockDebiter{}, txStub{repo: repo})
	sale := seedSale(t, repo, "100", "40")

	repo.updateBalanceErr = errors.New("connection reset by peer")

	_, _, err := svc.RecordDuePayment(authedCtx(), PaymentInput{
		SaleID: sale.ID,
		Amount: money("30"),
	})

	require.Error(t, err)
	assert.Empty(t, repo.payments[sale.ID])
	assert.True(t, repo.sales[sale.ID].PaidAmount.Equal(money("40")))
	assert.Equal(t, ledger.StatusPartial, repo.sales[sale.ID].Status)
}

func TestRecordDuePayment_UnknownSale(t *testing.T) {
	svc := NewService(newMockRepo(), &mockDebiter{}, txStub{})

	_, _, err := svc.RecordDuePayment(authedCtx(), PaymentInput{
		SaleID: id.New(),
		Amount: money("10"),
	})

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordDuePayment_Validation(t *testing.T) {
	svc := NewService(newMockRepo(), &mockDebiter{}, txStub{})

	_, _, err := svc.RecordDuePayment(authedCtx(), PaymentInput{Amount: money("10")})
	require.Error(t, err)

	_, _, err = svc.RecordDuePayment(authedCtx(), PaymentInput{SaleID: id.New(), Amount: types.Zero()})
	require.Error(t, err)
}

func TestFlagDue(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockDebiter{}, txStub{repo: repo})
	sale := seedSale(t, repo, "100", "0")
	require.False(t, sale.HasDue)

	updated, err := svc.FlagDue(authedCtx(), sale.ID)

	require.NoError(t, err)
	assert.True(t, updated.HasDue)
	assert.True(t, repo.sales[sale.ID].HasDue)
}

func TestListDues_AttachesPayments(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockDebiter{}, txStub{repo: repo})
	sale := seedSale(t, repo, "100", "40")

	_, _, err := svc.RecordDuePayment(authedCtx(), PaymentInput{SaleID: sale.ID, Amount: money("20")})
	require.NoError(t, err)

	dues, err := svc.ListDues(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, dues, 1)
	assert.Len(t, dues[0].DuePayments, 1)
}

func TestCreate_RepoFailurePropagates(t *testing.T) {
	repo := newMockRepo()
	debiter := &mockDebiter{err: errors.New("boom")}
	svc := NewService(repo, debiter, txStub{repo: repo})

	_, err := svc.Create(authedCtx(), validCreateInput())
	require.Error(t, err)
	assert.Empty(t, repo.sales)
}
