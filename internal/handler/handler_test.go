package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-stock-ledger/internal/repository"
	"go-stock-ledger/internal/service"
	"go-stock-ledger/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ledgerService := service.NewLedgerService(repository.NewLedgerRepo(db), db, nil)
	stockHandler := NewStockHandler(ledgerService)
	salesHandler := NewSalesHandler(ledgerService)

	app := fiber.New()
	app.Post("/stocks", stockHandler.CreateStock)
	app.Get("/stocks", stockHandler.GetStocks)
	app.Get("/stocks/:item", stockHandler.GetStock)
	app.Delete("/stocks", stockHandler.DeleteStocks)
	app.Post("/sales", salesHandler.CreateSale)
	app.Get("/sales", salesHandler.GetSales)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()

	var decoded map[string]interface{}
	if len(raw) > 0 && strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s %s body %q: %v", method, path, raw, err)
		}
	}
	return resp, decoded
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func wantError(t *testing.T, resp *http.Response, body map[string]interface{}) {
	t.Helper()
	wantStatus(t, resp, http.StatusBadRequest)
	if body["message"] != "ERROR" {
		t.Fatalf(`expected {"message":"ERROR"}, got %v`, body)
	}
}

func TestStockAndSalesScenario(t *testing.T) {
	app := setupApp(t)

	// Add one Apple by default, then four more.
	resp, body := doJSON(t, app, http.MethodPost, "/stocks", `{"name":"Apple"}`)
	wantStatus(t, resp, http.StatusOK)
	if body["name"] != "Apple" || body["amount"] != float64(1) {
		t.Fatalf("expected normalized echo, got %v", body)
	}

	resp, _ = doJSON(t, app, http.MethodPost, "/stocks", `{"name":"Apple","amount":4}`)
	wantStatus(t, resp, http.StatusOK)

	// Sell two at price three.
	resp, body = doJSON(t, app, http.MethodPost, "/sales", `{"name":"Apple","amount":2,"price":3}`)
	wantStatus(t, resp, http.StatusOK)
	if body["price"] != float64(3) {
		t.Fatalf("expected price echoed, got %v", body)
	}

	// Overselling fails and changes nothing.
	resp, body = doJSON(t, app, http.MethodPost, "/sales", `{"name":"Apple","amount":10}`)
	wantError(t, resp, body)

	resp, body = doJSON(t, app, http.MethodGet, "/stocks/Apple", "")
	wantStatus(t, resp, http.StatusOK)
	if body["Apple"] != float64(3) {
		t.Fatalf(`expected {"Apple":3}, got %v`, body)
	}

	resp, body = doJSON(t, app, http.MethodGet, "/sales", "")
	wantStatus(t, resp, http.StatusOK)
	if body["sales"] != float64(6) {
		t.Fatalf(`expected {"sales":6}, got %v`, body)
	}

	// Full reset.
	resp, _ = doJSON(t, app, http.MethodDelete, "/stocks", "")
	wantStatus(t, resp, http.StatusOK)

	resp, body = doJSON(t, app, http.MethodGet, "/stocks", "")
	wantStatus(t, resp, http.StatusOK)
	if len(body) != 0 {
		t.Fatalf("expected empty stock listing, got %v", body)
	}

	resp, body = doJSON(t, app, http.MethodGet, "/sales", "")
	wantStatus(t, resp, http.StatusOK)
	if body["sales"] != float64(0) {
		t.Fatalf(`expected {"sales":0}, got %v`, body)
	}
}

func TestCreateStockValidation(t *testing.T) {
	app := setupApp(t)

	rejected := []string{
		`{"name":"TooLong9x"}`,
		`{"name":"Ok1"}`,
		`{"amount":3}`,
		`{"name":"Apple","price":2}`,
		`{"name":"Apple","amount":0}`,
		`{"name":"Apple","amount":1.5}`,
		`not json`,
	}
	for _, body := range rejected {
		resp, decoded := doJSON(t, app, http.MethodPost, "/stocks", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, resp.StatusCode)
		}
		if decoded["message"] != "ERROR" {
			t.Fatalf("expected generic error body for %s, got %v", body, decoded)
		}
	}

	resp, _ := doJSON(t, app, http.MethodPost, "/stocks", `{"name":"ok"}`)
	wantStatus(t, resp, http.StatusOK)
}

func TestCreateStockLocationHeader(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/stocks", `{"name":"Apple"}`)
	wantStatus(t, resp, http.StatusOK)
	location := resp.Header.Get(fiber.HeaderLocation)
	if !strings.HasSuffix(location, ":80/stocks/Apple") {
		t.Fatalf("unexpected Location header %q", location)
	}
}

func TestCreateSaleLocationHeader(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/stocks", `{"name":"Apple","amount":2}`)
	wantStatus(t, resp, http.StatusOK)

	resp, _ = doJSON(t, app, http.MethodPost, "/sales", `{"name":"Apple"}`)
	wantStatus(t, resp, http.StatusOK)
	location := resp.Header.Get(fiber.HeaderLocation)
	if !strings.HasSuffix(location, ":80/sales/Apple") {
		t.Fatalf("unexpected Location header %q", location)
	}
}

func TestCreateSaleValidationShapes(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/stocks", `{"name":"Apple","amount":5}`)
	wantStatus(t, resp, http.StatusOK)

	rejected := []string{
		`{"amount":1}`,
		`{"name":"Apple","extra":1}`,
		`{"name":"Apple","amount":1,"extra":2}`,
		`{"name":"Apple","amount":1,"price":2,"extra":3}`,
	}
	for _, body := range rejected {
		resp, decoded := doJSON(t, app, http.MethodPost, "/sales", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", body, resp.StatusCode)
		}
		if decoded["message"] != "ERROR" {
			t.Fatalf("expected generic error body for %s, got %v", body, decoded)
		}
	}
}

func TestCreateSaleWithoutPriceOmitsPrice(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/stocks", `{"name":"Apple","amount":2}`)
	wantStatus(t, resp, http.StatusOK)

	resp, body := doJSON(t, app, http.MethodPost, "/sales", `{"name":"Apple"}`)
	wantStatus(t, resp, http.StatusOK)
	if _, ok := body["price"]; ok {
		t.Fatalf("price must be omitted when not supplied, got %v", body)
	}
	if body["amount"] != float64(1) {
		t.Fatalf("expected defaulted amount 1, got %v", body)
	}

	// No price means no revenue.
	resp, body = doJSON(t, app, http.MethodGet, "/sales", "")
	wantStatus(t, resp, http.StatusOK)
	if body["sales"] != float64(0) {
		t.Fatalf("expected revenue 0, got %v", body)
	}
}

func TestSaleOfUnknownProduct(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/sales", `{"name":"Ghost"}`)
	wantError(t, resp, body)
}

func TestGetStockNotFound(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/stocks/Ghost", "")
	wantError(t, resp, body)
}

func TestListingHidesSoldOutButLookupFindsIt(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/stocks", `{"name":"Apple","amount":2}`)
	wantStatus(t, resp, http.StatusOK)
	resp, _ = doJSON(t, app, http.MethodPost, "/sales", `{"name":"Apple","amount":2}`)
	wantStatus(t, resp, http.StatusOK)

	resp, body := doJSON(t, app, http.MethodGet, "/stocks", "")
	wantStatus(t, resp, http.StatusOK)
	if _, ok := body["Apple"]; ok {
		t.Fatalf("sold-out product must be hidden from listing, got %v", body)
	}

	resp, body = doJSON(t, app, http.MethodGet, "/stocks/Apple", "")
	wantStatus(t, resp, http.StatusOK)
	if body["Apple"] != float64(0) {
		t.Fatalf(`expected {"Apple":0}, got %v`, body)
	}
}

func TestDeleteStocksEmptyBody(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(http.MethodDelete, "/stocks", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	wantStatus(t, resp, http.StatusOK)
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	if len(raw) != 0 {
		t.Fatalf("expected empty body, got %q", raw)
	}
}
