package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DiscountMode selects how a discount value is interpreted
type DiscountMode int

const (
	DiscountNone    DiscountMode = 0
	DiscountPercent DiscountMode = 1
	DiscountAmount  DiscountMode = 2
)

var discountModeNames = [...]string{"none", "percent", "amount"}

func (m DiscountMode) String() string {
	if m < 0 || int(m) >= len(discountModeNames) {
		return "none"
	}
	return discountModeNames[m]
}

// IsValid reports whether m is one of the declared modes
func (m DiscountMode) IsValid() bool {
	return m >= DiscountNone && m <= DiscountAmount
}

func ParseDiscountMode(s string) (DiscountMode, bool) {
	for i, name := range discountModeNames {
		if name == s {
			return DiscountMode(i), true
		}
	}
	return DiscountNone, false
}

func (m DiscountMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *DiscountMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !DiscountMode(i).IsValid() {
			return fmt.Errorf("unknown discount mode %d", i)
		}
		*m = DiscountMode(i)
		return nil
	}
	v, ok := ParseDiscountMode(str)
	if !ok {
		return fmt.Errorf("unknown discount mode %q", str)
	}
	*m = v
	return nil
}

func (m DiscountMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *DiscountMode) Scan(value interface{}) error {
	if value == nil {
		*m = DiscountNone
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
