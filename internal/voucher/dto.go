package voucher

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RowInput describes one line item on a voucher being created.
type RowInput struct {
	Description string  `json:"description" validate:"required,max=500"`
	Weight      float64 `json:"weight" validate:"required,gt=0"`
	Purity      float64 `json:"purity" validate:"gte=0,lte=999"`
	MakingRate  float64 `json:"making_rate" validate:"gte=0"`
	DiscountPct float64 `json:"discount_pct" validate:"gte=0,lte=100"`
	Amount      float64 `json:"amount" validate:"gte=0"`
}

// CreateVoucherRequest groups fields required to issue a voucher.
type CreateVoucherRequest struct {
	CustomerID int64      `json:"customer_id" validate:"required,gt=0"`
	Type       string     `json:"type" validate:"required"`
	Date       time.Time  `json:"date" validate:"required"`
	Rows       []RowInput `json:"rows" validate:"required,min=1,dive"`
}

// Validate ensures the request meets minimum criteria.
func (in CreateVoucherRequest) Validate() error {
	if in.CustomerID == 0 {
		return errors.New("voucher: customer required")
	}
	if !VoucherType(in.Type).Valid() {
		return fmt.Errorf("voucher: unrecognised type %q", in.Type)
	}
	if in.Date.IsZero() {
		return errors.New("voucher: date required")
	}
	if len(in.Rows) == 0 {
		return errors.New("voucher: at least one row required")
	}
	for idx, row := range in.Rows {
		if strings.TrimSpace(row.Description) == "" {
			return fmt.Errorf("voucher: row %d missing description", idx)
		}
		if row.Weight <= 0 {
			return fmt.Errorf("voucher: row %d missing weight", idx)
		}
		if row.Purity < 0 {
			return fmt.Errorf("voucher: row %d negative purity", idx)
		}
		if row.DiscountPct < 0 || row.DiscountPct > 100 {
			return fmt.Errorf("voucher: row %d discount out of range", idx)
		}
	}
	return nil
}
