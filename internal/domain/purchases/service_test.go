package purchases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/id"
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/ledger"
)

// mockRepo is an in-memory purchase store. txStub snapshots it before
// running a unit and restores the snapshot when the unit fails.
type mockRepo struct {
	purchases map[id.ID]*Purchase
	payments  map[id.ID][]Payment

	updateBalanceErr error

	snapshot *mockRepo
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		purchases: make(map[id.ID]*Purchase),
		payments:  make(map[id.ID][]Payment),
	}
}

func (m *mockRepo) Create(ctx context.Context, purchase *Purchase) error {
	cp := *purchase
	m.purchases[purchase.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	p, ok := m.purchases[purchaseID]
	if !ok {
		return nil, apperror.NewNotFound("purchase", purchaseID.String())
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	return m.GetByID(ctx, purchaseID)
}

func (m *mockRepo) Update(ctx context.Context, purchase *Purchase) error {
	cp := *purchase
	m.purchases[purchase.ID] = &cp
	return nil
}

func (m *mockRepo) begin() {
	snap := &mockRepo{
		purchases: make(map[id.ID]*Purchase, len(m.purchases)),
		payments:  make(map[id.ID][]Payment, len(m.payments)),
	}
	for k, v := range m.purchases {
		cp := *v
		snap.purchases[k] = &cp
	}
	for k, v := range m.payments {
		snap.payments[k] = append([]Payment(nil), v...)
	}
	m.snapshot = snap
}

func (m *mockRepo) rollback() {
	m.purchases = m.snapshot.purchases
	m.payments = m.snapshot.payments
	m.snapshot = nil
}

func (m *mockRepo) UpdateBalance(ctx context.Context, purchaseID id.ID, update BalanceUpdate) error {
	if m.updateBalanceErr != nil {
		return m.updateBalanceErr
	}
	p, ok := m.purchases[purchaseID]
	if !ok {
		return apperror.NewNotFound("purchase", purchaseID.String())
	}
	p.PaidAmount = update.PaidAmount
	p.Status = update.Status
	p.LastPaidDate = update.LastPaidDate
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, purchaseID id.ID) error {
	delete(m.purchases, purchaseID)
	delete(m.payments, purchaseID)
	return nil
}

func (m *mockRepo) List(ctx context.Context, filter ListFilter) ([]*Purchase, error) {
	out := make([]*Purchase, 0, len(m.purchases))
	for _, p := range m.purchases {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRepo) CreatePayment(ctx context.Context, payment *Payment) error {
	m.payments[payment.PurchaseID] = append(m.payments[payment.PurchaseID], *payment)
	return nil
}

func (m *mockRepo) SumPayments(ctx context.Context, purchaseID id.ID) (types.Money, error) {
	sum := types.Zero()
	for _, p := range m.payments[purchaseID] {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (m *mockRepo) ListPayments(ctx context.Context, purchaseID id.ID) ([]Payment, error) {
	return m.payments[purchaseID], nil
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

func validCreateInput() CreateInput {
	return CreateInput{
		SupplierID:  id.New(),
		TotalAmount: money("500"),
		PaidAmount:  money("200"),
	}
}

func TestCreate_DerivesStatus(t *testing.T) {
	svc := NewService(newMockRepo(), txStub{})
	ctx := context.Background()

	cases := []struct {
		name   string
		paid   string
		status ledger.Status
	}{
		{"unpaid", "0", ledger.StatusPending},
		{"partial", "200", ledger.StatusPartial},
		{"settled", "500", ledger.StatusPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			in.PaidAmount = money(tc.paid)

			purchase, err := svc.Create(ctx, in)

			require.NoError(t, err)
			assert.Equal(t, tc.status, purchase.Status)
			assert.True(t, purchase.PaidAmount.Equal(money(tc.paid)))
			assert.True(t, purchase.InitialPaidAmount.Equal(money(tc.paid)))
		})
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo(), txStub{})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing supplier", func(in *CreateInput) { in.SupplierID = id.Nil() }},
		{"zero total", func(in *CreateInput) { in.TotalAmount = types.Zero() }},
		{"negative paid", func(in *CreateInput) { in.PaidAmount = money("-1") }},
		{"paid exceeds total", func(in *CreateInput) { in.PaidAmount = money("600") }},
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

func seedPurchase(t *testing.T, repo *mockRepo, total, paid string) *Purchase {
	t.Helper()
	status, paidAmount := ledger.DeriveStatus(money(paid), money(total))
	purchase := &Purchase{
		ID:                id.New(),
		SupplierID:        id.New(),
		TotalAmount:       money(total),
		InitialPaidAmount: paidAmount,
		PaidAmount:        paidAmount,
		Status:            status,
		PurchaseDate:      time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), purchase))
	return purchase
}

func TestRecordPayment_SettlesExactly(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, txStub{repo: repo})
	purchase := seedPurchase(t, repo, "500", "200")

	payment, updated, err := svc.RecordPayment(context.Background(), PaymentInput{
		PurchaseID: purchase.ID,
		Amount:     money("300"),
	})

	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(money("300")))
	assert.Equal(t, ledger.StatusPaid, updated.Status)
	assert.True(t, updated.PaidAmount.Equal(money("500")))
	require.NotNil(t, updated.LastPaidDate)
}

func TestRecordPayment_OverpayClampedToTotal(t *testing.T) {
	// A payment exceeding the remaining balance settles the purchase and
	// the stored paid amount is clamped to the total.
	repo := newMockRepo()
	svc := NewService(repo, txStub{repo: repo})
	purchase := seedPurchase(t, repo, "500", "200")

	_, updated, err := svc.RecordPayment(context.Background(), PaymentInput{
		PurchaseID: purchase.ID,
		Amount:     money("400"),
	})

	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, updated.Status)
	assert.True(t, updated.PaidAmount.Equal(money("500")))
	assert.True(t, updated.PendingAmount().IsZero())
}

func TestRecordPayment_AggregatesHistory(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, txStub{repo: repo})
	purchase := seedPurchase(t, repo, "500", "200")

	_, _, err := svc.RecordPayment(context.Background(), PaymentInput{PurchaseID: purchase.ID, Amount: money("100")})
	require.NoError(t, err)

	_, updated, err := svc.RecordPayment(context.Background(), PaymentInput{PurchaseID: purchase.ID, Amount: money("100")})
	require.NoError(t, err)

	assert.Equal(t, ledger.StatusPartial, updated.Status)
	assert.True(t, updated.PaidAmount.Equal(money("400")))
	assert.True(t, updated.PendingAmount().Equal(money("100")))
}

func TestRecordPayment_RejectedWhenFullyPaid(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, txStub{repo: repo})
	purchase := seedPurchase(t, repo, "500", "500")

	_, _, err := svc.RecordPayment(context.Background(), PaymentInput{
		PurchaseID: purchase.ID,
		Amount:     money("50"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already fully paid")
	assert.Empty(t, repo.payments[purchase.ID])
}

func TestRecordPayment_BalanceUpdateFails_PaymentNotVisible(t *testing.T) {
	// The payment insert and the balance writeback are one unit: when the
	// writeback fails, the already-inserted payment row must not survive.
	repo := newMockRepo()
	svc := NewService(repo, txStub{repo: repo})
	purchase := seedPurchase(t, repo, "500", "200")

	repo.updateBalanceErr = errors.New("connection reset by peer")

	_, _, err := svc.RecordPayment(context.Background(), PaymentInput{
		PurchaseID: purchase.ID,
		Amount:     money("100"),
	})

	require.Error(t, err)
	assert.Empty(t, repo.payments[purchase.ID])
	assert.True(t, repo.purchases[purchase.ID].PaidAmount.Equal(money("200")))
	assert.Equal(t, ledger.StatusPartial, repo.purchases[purchase.ID].Status)
}

func TestRecordPayment_UnknownPurchase(t *testing.T) {
	svc := NewService(newMockRepo(), txStub{})

	_, _, err := svc.RecordPayment(context.Background(), PaymentInput{
		PurchaseID: id.New(),
		Amount:     money("10"),
	})

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdate_RederivesStatusAndRebaselines(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, txStub{repo: repo})
	purchase := seedPurchase(t, repo, "500", "500")

	updated, err := svc.Update(context.Background(), purchase.ID, UpdateInput{
		TotalAmount: money("600"),
		PaidAmount:  money("400"),
	})

	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPartial, updated.Status)
	assert.True(t, updated.TotalAmount.Equal(money("600")))
	assert.True(t, updated.PaidAmount.Equal(money("400")))
	// Future payment aggregation starts from the edited amount.
	assert.True(t, updated.InitialPaidAmount.Equal(money("400")))
}

func TestUpdate_ThenPaymentUsesNewBaseline(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, txStub{repo: repo})
	purchase := seedPurchase(t, repo, "500", "100")

	_, err := svc.Update(context.Background(), purchase.ID, UpdateInput{
		TotalAmount: money("500"),
		PaidAmount:  money("300"),
	})
	require.NoError(t, err)

	_, updated, err := svc.RecordPayment(context.Background(), PaymentInput{
		PurchaseID: purchase.ID,
		Amount:     money("200"),
	})
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPaid, updated.Status)
	assert.True(t, updated.PaidAmount.Equal(money("500")))
}

func TestDelete(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, txStub{repo: repo})
	purchase := seedPurchase(t, repo, "500", "0")

	require.NoError(t, svc.Delete(context.Background(), purchase.ID))
	assert.Empty(t, repo.purchases)

	err := svc.Delete(context.Background(), purchase.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetByID_AttachesPayments(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, txStub{repo: repo})
	purchase := seedPurchase(t, repo, "500", "200")

	_, _, err := svc.RecordPayment(context.Background(), PaymentInput{PurchaseID: purchase.ID, Amount: money("100")})
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), purchase.ID)
	require.NoError(t, err)
	assert.Len(t, got.Payments, 1)
}
