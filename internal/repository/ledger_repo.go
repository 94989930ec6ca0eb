package repository

import (
	"go-stock-ledger/internal/model"

	"gorm.io/gorm"
)

// LedgerRepository owns the two persisted entities: product rows and the
// single revenue aggregate. Mutating methods take a *gorm.DB so they can
// run inside the caller's transaction.
type LedgerRepository interface {
	FindProduct(tx *gorm.DB, name string) (*model.Product, error)
	FindAllProducts() ([]model.Product, error)
	SaveProduct(tx *gorm.DB, product *model.Product) error
	DeleteAllProducts(tx *gorm.DB) error

	GetRevenue() (*model.Revenue, error)
	AddRevenue(tx *gorm.DB, delta float64) error
	ResetRevenue(tx *gorm.DB) error
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{db}
}

func (r *ledgerRepo) FindProduct(tx *gorm.DB, name string) (*model.Product, error) {
	var product model.Product
	err := tx.First(&product, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ledgerRepo) FindAllProducts() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Find(&products).Error
	return products, err
}

// SaveProduct upserts by primary key: insert on first stock-add for a
// name, update in place afterwards.
func (r *ledgerRepo) SaveProduct(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

// DeleteAllProducts truncates the table without dropping it.
func (r *ledgerRepo) DeleteAllProducts(tx *gorm.DB) error {
	return tx.Where("1 = 1").Delete(&model.Product{}).Error
}

func (r *ledgerRepo) GetRevenue() (*model.Revenue, error) {
	var revenue model.Revenue
	err := r.db.First(&revenue, "id = ?", model.RevenueRowID).Error
	if err != nil {
		return nil, err
	}
	return &revenue, nil
}

func (r *ledgerRepo) AddRevenue(tx *gorm.DB, delta float64) error {
	return tx.Model(&model.Revenue{}).
		Where("id = ?", model.RevenueRowID).
		Update("total", gorm.Expr("total + ?", delta)).Error
}

func (r *ledgerRepo) ResetRevenue(tx *gorm.DB) error {
	return tx.Model(&model.Revenue{}).
		Where("id = ?", model.RevenueRowID).
		Update("total", 0).Error
}
