package request

import "github.com/shopspring/decimal"

// DisplayConnectRequest opens the customer display. Empty values use the
// configured port and baud rate.
type DisplayConnectRequest struct {
	Port     string `json:"port"`
	BaudRate int    `json:"baud_rate" binding:"omitempty,oneof=2400 4800 9600 19200 38400 57600 115200"`
}

// CartEventRequest reports a cart change from the till
type CartEventRequest struct {
	Action    string          `json:"action" binding:"required,oneof=added updated removed cleared"`
	ItemName  string          `json:"item_name"`
	ItemPrice decimal.Decimal `json:"item_price"`
	CartTotal decimal.Decimal `json:"cart_total"`
	ItemCount int             `json:"item_count" binding:"min=0"`
}
