package customer

import "time"

// Customer is an account holder in the shop ledger.
type Customer struct {
	ID        int64
	AccountNo string
	Name      string
	Phone     string
	CivilID   string
	CreatedAt time.Time
}
