package domain

// Order is the payload submitted to the backend's order-creation
// endpoint. Payment holds the payment-method identifier returned by
// the payment processor. Orders are write-once; failed submissions are
// not retried automatically.
type Order struct {
	Customer Customer `json:"customer"`
	Payment  string   `json:"payment"`
	Cart     Cart     `json:"cart"`
}

// Card is the card input forwarded to the payment processor. It is an
// opaque capability from this service's point of view: only the
// processor interprets it.
type Card struct {
	Number   string `json:"number"`
	ExpMonth string `json:"exp_month"`
	ExpYear  string `json:"exp_year"`
	CVC      string `json:"cvc"`
}
