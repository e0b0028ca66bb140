package models

import "time"

// Party is a customer or supplier the business trades with. The GSTIN's
// first two characters carry the state code used for the CGST/SGST vs
// IGST decision.
type Party struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	GSTIN     string    `json:"gstin"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreatePartyRequest represents the request to create or update a party
type CreatePartyRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	GSTIN   string `json:"gstin"`
	Address string `json:"address"`
}

// PartySummaryResponse is the cached per-party position shown on lists
// and dashboards.
type PartySummaryResponse struct {
	PartyID          int     `json:"party_id"`
	PartyName        string  `json:"party_name"`
	TotalInvoices    int     `json:"total_invoices"`
	TotalAmount      float64 `json:"total_amount"`
	TotalPaid        float64 `json:"total_paid"`
	TotalOutstanding float64 `json:"total_outstanding"`
	Advance          float64 `json:"advance"`
}
