package dto

import (
	"pharmapos/internal/core/types"
	"pharmapos/internal/domain/purchases"
	"pharmapos/internal/domain/sales"
)

// SaleResponse is a sale enriched with derived balance fields.
type SaleResponse struct {
	*sales.Sale
	PendingAmount    types.Money `json:"pendingAmount"`
	TotalDuePayments types.Money `json:"totalDuePayments"`
}

// FromSale builds a sale response. TotalDuePayments covers the attached
// payment history only; the amount paid at the counter is already part
// of paidAmount.
func FromSale(s *sales.Sale) SaleResponse {
	total := types.Zero()
	for _, p := range s.DuePayments {
		total = total.Add(p.Amount)
	}
	return SaleResponse{
		Sale:             s,
		PendingAmount:    s.PendingAmount(),
		TotalDuePayments: total,
	}
}

// FromSales maps a sale list.
func FromSales(list []*sales.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromSale(s))
	}
	return out
}

// PurchaseResponse is a purchase enriched with its outstanding balance.
type PurchaseResponse struct {
	*purchases.Purchase
	PendingAmount types.Money `json:"pendingAmount"`
}

// FromPurchase builds a purchase response.
func FromPurchase(p *purchases.Purchase) PurchaseResponse {
	return PurchaseResponse{
		Purchase:      p,
		PendingAmount: p.PendingAmount(),
	}
}

// FromPurchases maps a purchase list.
func FromPurchases(list []*purchases.Purchase) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromPurchase(p))
	}
	return out
}
