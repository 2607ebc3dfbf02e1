package models

// Order is the in-progress purchase context supplied by the calling page.
// The workflow treats it as read-only except for Phone and Slug, which it
// fills in from the payer's fallback inputs, and Reference, which it
// generates when the caller did not pre-assign one.
type Order struct {
	Module      string  `json:"module"`
	Plan        string  `json:"plan"`
	Amount      int64   `json:"amount"`
	Phone       string  `json:"phone"`
	Slug        string  `json:"slug"`
	City        string  `json:"city"`
	ProName     string  `json:"pro_name"`
	BoostCode   string  `json:"boost_code"`
	BoostAmount float64 `json:"boost_amount"`
	Reference   string  `json:"reference"`
}
