package customer

// CreateCustomerRequest carries the fields for opening an account.
// The account number is chosen by the clerk and is immutable afterwards.
type CreateCustomerRequest struct {
	AccountNo string `json:"account_no" validate:"required,max=50"`
	Name      string `json:"name" validate:"required,max=200"`
	Phone     string `json:"phone" validate:"omitempty,max=50"`
	CivilID   string `json:"civil_id" validate:"omitempty,max=50"`
}

// ListCustomersRequest filters and paginates the customer listing.
type ListCustomersRequest struct {
	Search  string `json:"search" validate:"omitempty,max=200"`
	Page    int    `json:"page" validate:"gte=0"`
	PerPage int    `json:"per_page" validate:"gte=0,lte=500"`
}
