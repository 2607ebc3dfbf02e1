package models

// PaymentRecord is the server-confirmed outcome of a registration. The
// server is authoritative: Reference may differ from anything the client
// proposed and always wins.
type PaymentRecord struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
}
