package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OrderType represents how the customer receives the order
type OrderType int

const (
	OrderTypeDineIn   OrderType = 0
	OrderTypeTakeaway OrderType = 1
	OrderTypeDelivery OrderType = 2
	OrderTypeOnline   OrderType = 3
)

var orderTypeNames = [...]string{"dine_in", "takeaway", "delivery", "online"}

func (t OrderType) String() string {
	if int(t) < 0 || int(t) >= len(orderTypeNames) {
		return "dine_in"
	}
	return orderTypeNames[t]
}

// ParseOrderType converts a type name to an OrderType
func ParseOrderType(str string) (OrderType, error) {
	for i, name := range orderTypeNames {
		if name == str {
			return OrderType(i), nil
		}
	}
	return OrderTypeDineIn, fmt.Errorf("unknown order type %q", str)
}

func (t OrderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = OrderType(i)
		return nil
	}
	parsed, err := ParseOrderType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t OrderType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *OrderType) Scan(value interface{}) error {
	if value == nil {
		*t = OrderTypeDineIn
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = OrderType(v)
	case int:
		*t = OrderType(v)
	}
	return nil
}
