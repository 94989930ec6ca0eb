package model

// Product is one ledger row: current stock for a single item name.
// Name is the natural key. A row whose Amount reaches 0 stays in the
// table until a full reset; only the list view hides it.
type Product struct {
	Name   string `gorm:"type:varchar(8);primaryKey" json:"name"`
	Amount int    `gorm:"not null;default:0" json:"amount"`
}
