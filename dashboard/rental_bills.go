package dashboard

import (
	"context"
	"strings"

	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/jrsteele09/traveline-backoffice/query"
)

const pathGuestBills = "rental-bills/guest"

type RentalBillStatus string

const (
	BillPending   RentalBillStatus = "pending"
	BillPaid      RentalBillStatus = "paid"
	BillCancelled RentalBillStatus = "cancelled"
	BillCompleted RentalBillStatus = "completed"
)

// GuestBill is the public view of a rental bill, reached through the
// tracking token sent to the guest.
type GuestBill struct {
	BillID        int              `json:"billId" validate:"required"`
	Code          string           `json:"code" validate:"required"`
	Status        RentalBillStatus `json:"status" validate:"required,oneof=pending paid cancelled completed"`
	CustomerName  string           `json:"customerName" validate:"required"`
	CustomerPhone string           `json:"customerPhone" validate:"required"`
	StartDate     string           `json:"startDate" validate:"required"`
	EndDate       string           `json:"endDate" validate:"required"`
	LicensePlate  string           `json:"licensePlate,omitempty"`
	VehicleName   string           `json:"vehicleName,omitempty"`
	Location      string           `json:"location,omitempty"`
}

func (s *Service) GuestBill(ctx context.Context, token string) (*GuestBill, error) {
	if token == "" || strings.Contains(token, "/") {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "tracking token %q", token)
	}
	q := detailQuery[GuestBill](s, ResourceRentalBills, itemPath(pathGuestBills, token), token)
	return query.Get[*GuestBill](ctx, s.cache, q)
}
