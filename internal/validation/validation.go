package validation

import (
	"bytes"
	"encoding/json"
	"errors"

	"go-stock-ledger/internal/model"
	"go-stock-ledger/pkg/validator"
)

// ErrMalformed classifies a request body the ledger refuses to act on.
// The transport collapses every rejection into the same generic payload,
// so no further detail is carried.
var ErrMalformed = errors.New("malformed request")

// decodeFields parses the body into its top-level fields. UseNumber keeps
// the integer-vs-float distinction for the amount checks below.
func decodeFields(body []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, ErrMalformed
	}
	return fields, nil
}

func asInt(v interface{}) (int, bool) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	n, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// ParseStockCommand classifies a stock-add body and returns the
// normalized command. Rules, in order:
//   - name field must be present
//   - at most 2 fields; a second field must be amount
//   - amount defaults to 1
//   - name: 1-8 chars, A-Z/a-z only; amount: JSON integer > 0
func ParseStockCommand(body []byte) (*model.StockCommand, error) {
	fields, err := decodeFields(body)
	if err != nil {
		return nil, err
	}
	if _, ok := fields["name"]; !ok {
		return nil, ErrMalformed
	}
	if len(fields) > 2 {
		return nil, ErrMalformed
	}
	if _, ok := fields["amount"]; len(fields) == 2 && !ok {
		return nil, ErrMalformed
	}

	name, ok := fields["name"].(string)
	if !ok {
		return nil, ErrMalformed
	}
	cmd := &model.StockCommand{Name: name, Amount: 1}
	if raw, ok := fields["amount"]; ok {
		amount, ok := asInt(raw)
		if !ok {
			return nil, ErrMalformed
		}
		cmd.Amount = amount
	}

	if errs := validator.ValidateStruct(cmd); len(errs) > 0 {
		return nil, ErrMalformed
	}
	return cmd, nil
}

// ParseSaleCommand classifies a sale body and returns the normalized
// command. Shape rules, in order:
//   - name field must be present
//   - at most 3 fields
//   - with 2 fields, the second must be amount or price
//   - with 3 fields, both amount and price must be present
//   - amount defaults to 1
//
// Sale commands keep the looser contract of the stock endpoint's
// counterpart: no range checks and no name re-validation. Values still
// have to carry their wire types (amount a JSON integer, price a JSON
// number) to be usable at all.
func ParseSaleCommand(body []byte) (*model.SaleCommand, error) {
	fields, err := decodeFields(body)
	if err != nil {
		return nil, err
	}
	if _, ok := fields["name"]; !ok {
		return nil, ErrMalformed
	}
	if len(fields) > 3 {
		return nil, ErrMalformed
	}
	_, hasAmount := fields["amount"]
	_, hasPrice := fields["price"]
	if len(fields) == 2 && !hasAmount && !hasPrice {
		return nil, ErrMalformed
	}
	if len(fields) == 3 && (!hasAmount || !hasPrice) {
		return nil, ErrMalformed
	}

	name, ok := fields["name"].(string)
	if !ok {
		return nil, ErrMalformed
	}
	cmd := &model.SaleCommand{Name: name, Amount: 1}
	if hasAmount {
		amount, ok := asInt(fields["amount"])
		if !ok {
			return nil, ErrMalformed
		}
		cmd.Amount = amount
	}
	if hasPrice {
		num, ok := fields["price"].(json.Number)
		if !ok {
			return nil, ErrMalformed
		}
		price, err := num.Float64()
		if err != nil {
			return nil, ErrMalformed
		}
		cmd.Price = &price
	}
	return cmd, nil
}
