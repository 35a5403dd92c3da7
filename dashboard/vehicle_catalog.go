package dashboard

import (
	"context"
	"time"

	"github.com/jrsteele09/traveline-backoffice/query"
)

const pathVehicleCatalog = "vehicle-catalog"

type VehicleCatalogItem struct {
	ID              int       `json:"id" validate:"required"`
	Type            string    `json:"type" validate:"required"`
	Brand           string    `json:"brand" validate:"required"`
	Model           string    `json:"model" validate:"required"`
	Color           string    `json:"color"`
	SeatingCapacity int       `json:"seatingCapacity" validate:"gte=0"`
	FuelType        string    `json:"fuelType,omitempty"`
	MaxSpeed        *float64  `json:"maxSpeed,omitempty"`
	Transmission    string    `json:"transmission,omitempty"`
	Photo           string    `json:"photo,omitempty"`
	CreatedAt       time.Time `json:"createdAt" validate:"required"`
	UpdatedAt       time.Time `json:"updatedAt" validate:"required"`
}

func (s *Service) VehicleCatalogQuery() query.Query {
	return listQuery(s, ResourceVehicleCatalog, pathVehicleCatalog, nil, func(c VehicleCatalogItem) any { return c.ID })
}

func (s *Service) VehicleCatalog(ctx context.Context) ([]VehicleCatalogItem, error) {
	return query.Get[[]VehicleCatalogItem](ctx, s.cache, s.VehicleCatalogQuery())
}

func (s *Service) DeleteVehicleCatalogItem(ctx context.Context, id int) error {
	return s.deleteEntity(ctx, ResourceVehicleCatalog, itemPath(pathVehicleCatalog, id), id)
}
