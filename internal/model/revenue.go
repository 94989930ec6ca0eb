package model

// RevenueRowID is the fixed primary key of the single aggregate row.
const RevenueRowID uint = 1

// Revenue holds the running total of accrued sale value across all
// products. Exactly one row exists, seeded to 0 on first startup.
type Revenue struct {
	ID    uint    `gorm:"primaryKey" json:"-"`
	Total float64 `gorm:"not null;default:0" json:"total"`
}
