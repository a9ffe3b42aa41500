package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pharmapos/internal/core/types"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name        string
		paid        string
		total       string
		wantStatus  Status
		wantClamped string
	}{
		{"nothing paid", "0", "100", StatusPending, "0"},
		{"negative paid treated as pending", "-5", "100", StatusPending, "0"},
		{"partial payment", "40", "100", StatusPartial, "40"},
		{"one cent short", "99.99", "100", StatusPartial, "99.99"},
		{"exactly paid", "100", "100", StatusPaid, "100"},
		{"overpaid clamps to total", "150", "100", StatusPaid, "100"},
		{"fractional overpay clamps", "100.01", "100", StatusPaid, "100"},
		{"tiny partial", "0.01", "100", StatusPartial, "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, clamped := DeriveStatus(types.MustMoney(tt.paid), types.MustMoney(tt.total))
			assert.Equal(t, tt.wantStatus, status)
			assert.True(t, types.MustMoney(tt.wantClamped).Equal(clamped),
				"clamped = %s, want %s", clamped, tt.wantClamped)
		})
	}
}

func TestDeriveStatus_Idempotent(t *testing.T) {
	paid := types.MustMoney("37.50")
	total := types.MustMoney("120")

	s1, c1 := DeriveStatus(paid, total)
	s2, c2 := DeriveStatus(paid, total)

	assert.Equal(t, s1, s2)
	assert.True(t, c1.Equal(c2))
}

func TestPendingAmount(t *testing.T) {
	assert.True(t, types.MustMoney("60").Equal(
		PendingAmount(types.MustMoney("100"), types.MustMoney("40"))))

	// Never negative, even if stored paid exceeds total.
	assert.True(t, types.Zero().Equal(
		PendingAmount(types.MustMoney("100"), types.MustMoney("150"))))

	assert.True(t, types.Zero().Equal(
		PendingAmount(types.MustMoney("100"), types.MustMoney("100"))))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusPartial.Valid())
	assert.True(t, StatusPaid.Valid())
	assert.False(t, Status("refunded").Valid())
	assert.False(t, Status("").Valid())
}
