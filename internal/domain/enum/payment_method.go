package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod is the tender used for one payment entry
type PaymentMethod int

const (
	PaymentCash     PaymentMethod = 0
	PaymentCredit   PaymentMethod = 1
	PaymentQR       PaymentMethod = 2
	PaymentTransfer PaymentMethod = 3
)

// PaymentSummaryMixed tags a sale settled with more than one payment entry
const PaymentSummaryMixed = "mixed"

var paymentMethodNames = [...]string{"cash", "credit", "qr", "transfer"}

func (p PaymentMethod) String() string {
	if p < 0 || int(p) >= len(paymentMethodNames) {
		return "unknown"
	}
	return paymentMethodNames[p]
}

func (p PaymentMethod) IsValid() bool {
	return p >= PaymentCash && p <= PaymentTransfer
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	for i, name := range paymentMethodNames {
		if name == s {
			return PaymentMethod(i), true
		}
	}
	return PaymentCash, false
}

// PaymentMethods lists every accepted tender in display order
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentCredit, PaymentQR, PaymentTransfer}
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = PaymentMethod(i)
		return nil
	}
	v, ok := ParsePaymentMethod(str)
	if !ok {
		return fmt.Errorf("unknown payment method %q", str)
	}
	*p = v
	return nil
}

func (p PaymentMethod) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PaymentMethod(v)
	case int:
		*p = PaymentMethod(v)
	}
	return nil
}
