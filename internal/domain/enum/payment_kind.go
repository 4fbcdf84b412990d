package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentKind classifies payment methods for cash drawer accounting.
// Only cash-like methods affect the expected drawer amount on register close.
type PaymentKind int

const (
	PaymentKindCash     PaymentKind = 0
	PaymentKindDebit    PaymentKind = 1
	PaymentKindCredit   PaymentKind = 2
	PaymentKindTransfer PaymentKind = 3
)

func (k PaymentKind) String() string {
	names := [...]string{"Cash", "Debit", "Credit", "Transfer"}
	if int(k) < 0 || int(k) >= len(names) {
		return "Cash"
	}
	return names[k]
}

// IsCashLike reports whether payments of this kind land in the physical drawer.
func (k PaymentKind) IsCashLike() bool {
	return k == PaymentKindCash
}

// ParsePaymentKind parses a kind name as used in API payloads
func ParsePaymentKind(s string) (PaymentKind, bool) {
	switch s {
	case "Cash":
		return PaymentKindCash, true
	case "Debit":
		return PaymentKindDebit, true
	case "Credit":
		return PaymentKindCredit, true
	case "Transfer":
		return PaymentKindTransfer, true
	}
	return PaymentKindCash, false
}

func (k PaymentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *PaymentKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = PaymentKind(i)
		return nil
	}
	switch str {
	case "Cash":
		*k = PaymentKindCash
	case "Debit":
		*k = PaymentKindDebit
	case "Credit":
		*k = PaymentKindCredit
	case "Transfer":
		*k = PaymentKindTransfer
	}
	return nil
}

func (k PaymentKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *PaymentKind) Scan(value interface{}) error {
	if value == nil {
		*k = PaymentKindCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = PaymentKind(v)
	case int:
		*k = PaymentKind(v)
	}
	return nil
}
