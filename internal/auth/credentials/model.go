package credentials

import "time"

// User is the artisan account owning clients, quotes and invoices.
type User struct {
	ID          int64
	Email       string
	CompanyName string
	Siret       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
