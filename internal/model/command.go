package model

// StockCommand is a normalized stock-add request. Value rules ride on
// the validate tags; shape rules live in internal/validation.
type StockCommand struct {
	Name   string `json:"name" validate:"required,alpha,max=8"`
	Amount int    `json:"amount" validate:"gt=0"`
}

// SaleCommand is a normalized sale request. Price is optional: revenue
// only accrues when the client supplied one. Sale commands carry no
// value rules beyond typing (see internal/validation).
type SaleCommand struct {
	Name   string   `json:"name"`
	Amount int      `json:"amount"`
	Price  *float64 `json:"price,omitempty"`
}
