package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReceiptSource identifies where a receipt originated: a catalog sale rung up
// through the cart, or a manually authored invoice.
type ReceiptSource int

const (
	ReceiptSourceSale   ReceiptSource = 0
	ReceiptSourceManual ReceiptSource = 1
)

func (s ReceiptSource) String() string {
	return [...]string{"Sale", "Manual"}[s]
}

// Prefix returns the receipt-number prefix for this source.
func (s ReceiptSource) Prefix() string {
	return [...]string{"SL", "MI"}[s]
}

func (s ReceiptSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReceiptSource) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ReceiptSource(i)
		return nil
	}
	switch str {
	case "Sale", "sale":
		*s = ReceiptSourceSale
	case "Manual", "manual":
		*s = ReceiptSourceManual
	}
	return nil
}

func (s ReceiptSource) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReceiptSource) Scan(value interface{}) error {
	if value == nil {
		*s = ReceiptSourceSale
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ReceiptSource(v)
	case int:
		*s = ReceiptSource(v)
	}
	return nil
}
