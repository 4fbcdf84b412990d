package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the status of a sales order
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 0
	OrderStatusComplete  OrderStatus = 1
	OrderStatusCancelled OrderStatus = 2
)

func (s OrderStatus) String() string {
	names := [...]string{"Pending", "Complete", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Pending"
	}
	return names[s]
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = OrderStatusPending
	case "Complete":
		*s = OrderStatusComplete
	case "Cancelled":
		*s = OrderStatusCancelled
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}
