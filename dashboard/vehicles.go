package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/jrsteele09/traveline-backoffice/query"
)

const pathVehicles = "rental-vehicles"

type VehicleStatus string

const (
	VehiclePending  VehicleStatus = "pending"
	VehicleApproved VehicleStatus = "approved"
	VehicleRejected VehicleStatus = "rejected"
	VehicleInactive VehicleStatus = "inactive"
)

type VehicleAvailability string

const (
	VehicleAvailable   VehicleAvailability = "available"
	VehicleRented      VehicleAvailability = "rented"
	VehicleMaintenance VehicleAvailability = "maintenance"
)

// Vehicle is identified by its licence plate, not a numeric id.
type Vehicle struct {
	LicensePlate             string              `json:"licensePlate" validate:"required"`
	ContractID               int                 `json:"contractId" validate:"required"`
	VehicleCatalogID         *int                `json:"vehicleCatalogId,omitempty"`
	PricePerHour             float64             `json:"pricePerHour" validate:"gte=0"`
	PricePerDay              float64             `json:"pricePerDay" validate:"gte=0"`
	Requirements             string              `json:"requirements,omitempty"`
	Description              string              `json:"description,omitempty"`
	VehicleRegistrationFront string              `json:"vehicleRegistrationFront,omitempty"`
	VehicleRegistrationBack  string              `json:"vehicleRegistrationBack,omitempty"`
	Status                   VehicleStatus       `json:"status" validate:"required,oneof=pending approved rejected inactive"`
	RejectedReason           string              `json:"rejectedReason,omitempty"`
	Availability             VehicleAvailability `json:"availability" validate:"required,oneof=available rented maintenance"`
	TotalRentals             int                 `json:"totalRentals" validate:"gte=0"`
	AverageRating            float64             `json:"averageRating" validate:"gte=0"`
	CreatedAt                *time.Time          `json:"createdAt,omitempty"`
	UpdatedAt                *time.Time          `json:"updatedAt,omitempty"`
}

func checkPlate(plate string) error {
	if strings.TrimSpace(plate) == "" || strings.Contains(plate, "/") {
		return errors.Wrapf(errors.ErrInvalidArgument, "licence plate %q", plate)
	}
	return nil
}

func (s *Service) VehiclesQuery() query.Query {
	return listQuery(s, ResourceVehicles, pathVehicles, nil, func(v Vehicle) any { return v.LicensePlate })
}

func (s *Service) Vehicles(ctx context.Context) ([]Vehicle, error) {
	return query.Get[[]Vehicle](ctx, s.cache, s.VehiclesQuery())
}

func (s *Service) DeleteVehicle(ctx context.Context, plate string) error {
	if err := checkPlate(plate); err != nil {
		return err
	}
	return s.deleteEntity(ctx, ResourceVehicles, itemPath(pathVehicles, plate), plate)
}

func (s *Service) ApproveVehicle(ctx context.Context, plate string) error {
	if err := checkPlate(plate); err != nil {
		return err
	}
	return s.patchEntity(ctx, ResourceVehicles, itemPath(pathVehicles, plate)+"/approve", plate, nil)
}

func (s *Service) RejectVehicle(ctx context.Context, plate, reason string) error {
	if err := checkPlate(plate); err != nil {
		return err
	}
	return s.patchEntity(ctx, ResourceVehicles, itemPath(pathVehicles, plate)+"/reject", plate, rejectBody{RejectedReason: reason})
}
