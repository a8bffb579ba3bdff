package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DiscountMode describes how a discount value is interpreted
type DiscountMode int

const (
	DiscountModeAmount  DiscountMode = 0
	DiscountModePercent DiscountMode = 1
)

func (m DiscountMode) String() string {
	return [...]string{"Amount", "Percent"}[m]
}

func (m DiscountMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *DiscountMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = DiscountMode(i)
		return nil
	}
	switch str {
	case "Amount", "amount":
		*m = DiscountModeAmount
	case "Percent", "percent":
		*m = DiscountModePercent
	}
	return nil
}

func (m DiscountMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *DiscountMode) Scan(value interface{}) error {
	if value == nil {
		*m = DiscountModeAmount
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = DiscountMode(v)
	case int:
		*m = DiscountMode(v)
	}
	return nil
}
