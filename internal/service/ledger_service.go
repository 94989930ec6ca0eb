package service

import (
	"encoding/json"
	"errors"
	"sync"

	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository"
	"go-stock-ledger/internal/ws"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the referenced product has no ledger row.
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock means a sale asked for more than is in stock.
	ErrInsufficientStock = errors.New("insufficient stock remaining")
)

// LedgerService executes validated commands against the ledger. Every
// operation is one atomic unit: a failed check leaves both stock and
// revenue untouched.
type LedgerService interface {
	AddStock(cmd *model.StockCommand) (*model.StockCommand, error)
	ListStock() (map[string]int, error)
	GetStock(name string) (*model.Product, error)
	Sell(cmd *model.SaleCommand) (*model.SaleCommand, error)
	GetRevenue() (float64, error)
	ResetAll() error
}

type ledgerService struct {
	repo  repository.LedgerRepository
	db    *gorm.DB
	wsHub *ws.Hub
	mu    sync.Mutex // serializes read-modify-write across requests
}

func NewLedgerService(repo repository.LedgerRepository, db *gorm.DB, hub *ws.Hub) LedgerService {
	return &ledgerService{
		repo:  repo,
		db:    db,
		wsHub: hub,
	}
}

func (s *ledgerService) AddStock(cmd *model.StockCommand) (*model.StockCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var newAmount int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Read current amount, 0 if the row does not exist yet.
		current := 0
		product, err := s.repo.FindProduct(tx, cmd.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if product != nil {
			current = product.Amount
		}

		newAmount = current + cmd.Amount
		return s.repo.SaveProduct(tx, &model.Product{Name: cmd.Name, Amount: newAmount})
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("stock_added", map[string]interface{}{
		"name":      cmd.Name,
		"added":     cmd.Amount,
		"new_stock": newAmount,
	})

	return cmd, nil
}

func (s *ledgerService) ListStock() (map[string]int, error) {
	products, err := s.repo.FindAllProducts()
	if err != nil {
		return nil, err
	}

	// Zero-amount rows stay in the table but are hidden from the list view.
	stock := make(map[string]int, len(products))
	for _, p := range products {
		if p.Amount != 0 {
			stock[p.Name] = p.Amount
		}
	}
	return stock, nil
}

func (s *ledgerService) GetStock(name string) (*model.Product, error) {
	product, err := s.repo.FindProduct(s.db, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ledgerService) Sell(cmd *model.SaleCommand) (*model.SaleCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var newAmount int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.repo.FindProduct(tx, cmd.Name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if product.Amount < cmd.Amount {
			return ErrInsufficientStock
		}

		newAmount = product.Amount - cmd.Amount
		product.Amount = newAmount
		if err := s.repo.SaveProduct(tx, product); err != nil {
			return err
		}

		// Revenue accrues only when the client supplied a price, in the
		// same transaction as the decrement.
		if cmd.Price != nil {
			return s.repo.AddRevenue(tx, float64(cmd.Amount)*(*cmd.Price))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("stock_sold", map[string]interface{}{
		"name":      cmd.Name,
		"sold":      cmd.Amount,
		"new_stock": newAmount,
	})

	return cmd, nil
}

func (s *ledgerService) GetRevenue() (float64, error) {
	revenue, err := s.repo.GetRevenue()
	if err != nil {
		return 0, err
	}
	return revenue.Total, nil
}

func (s *ledgerService) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteAllProducts(tx); err != nil {
			return err
		}
		return s.repo.ResetRevenue(tx)
	})
	if err != nil {
		return err
	}

	s.broadcast("ledger_reset", nil)
	return nil
}

// broadcast pushes a ledger event to websocket listeners. Fire-and-forget
// from a goroutine so a slow hub never blocks the request path.
func (s *ledgerService) broadcast(action string, detail map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": action,
		}
		if detail != nil {
			payload["detail"] = detail
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
