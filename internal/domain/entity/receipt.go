package entity

// Receipt is the printable representation of a finalized sale. Amounts are
// decimal currency values ready for display, not cents.
type Receipt struct {
	Header   ReceiptHeader    `json:"header"`
	OrderNo  string           `json:"order_no"`
	Date     string           `json:"date"`
	Cashier  string           `json:"cashier,omitempty"`
	Customer string           `json:"customer,omitempty"`
	Items    []ReceiptItem    `json:"items"`
	SubTotal float64          `json:"sub_total"`
	Discount float64          `json:"discount"`
	Total    float64          `json:"total"`
	Payments []ReceiptPayment `json:"payments"`
	Footer   string           `json:"footer,omitempty"`
}

// ReceiptHeader holds the store identification printed at the top
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptItem is one printed product line
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// ReceiptPayment is one printed payment line
type ReceiptPayment struct {
	Method       string  `json:"method"`
	Installments int     `json:"installments"`
	Amount       float64 `json:"amount"`
}
