package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Numeric — точное десятичное число для хранения (channel, signal_strength).
// В БД живёт как decimal, во float конвертируется только при JSON-сериализации.
type Numeric struct {
	decimal.Decimal
}

func NumericFromInt(v int64) Numeric { return Numeric{decimal.NewFromInt(v)} }

func NumericFromString(s string) (Numeric, error) {
	d, err := decimal.NewFromString(s)
	return Numeric{d}, err
}

// MarshalJSON — единственное место, где точность меняется на float.
func (n Numeric) MarshalJSON() ([]byte, error) {
	f, _ := n.Float64()
	return json.Marshal(f)
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	n.Decimal = d
	return nil
}

func (Numeric) GormDataType() string { return "decimal(10,2)" }
