package dashboard

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/traveline-backoffice/query"
)

const pathDestinations = "destinations"

type Destination struct {
	ID               int       `json:"id" validate:"required"`
	Name             string    `json:"name" validate:"required"`
	Type             string    `json:"type,omitempty"`
	DescriptionViet  string    `json:"descriptionViet,omitempty"`
	DescriptionEng   string    `json:"descriptionEng,omitempty"`
	Province         string    `json:"province,omitempty"`
	District         string    `json:"district,omitempty"`
	DistrictCode     string    `json:"districtCode,omitempty"`
	SpecificAddress  string    `json:"specificAddress,omitempty"`
	Latitude         float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude        float64   `json:"longitude" validate:"gte=-180,lte=180"`
	Rating           *float64  `json:"rating,omitempty"`
	FavouriteTimes   int       `json:"favouriteTimes" validate:"gte=0"`
	UserRatingsTotal int       `json:"userRatingsTotal" validate:"gte=0"`
	Categories       []string  `json:"categories"`
	Photos           []string  `json:"photos"`
	Videos           []string  `json:"videos"`
	GooglePlaceID    string    `json:"googlePlaceId,omitempty"`
	Available        bool      `json:"available"`
	CreatedAt        time.Time `json:"createdAt" validate:"required"`
	UpdatedAt        time.Time `json:"updatedAt" validate:"required"`
}

// DestinationFilter narrows the public destination listing. Zero fields are
// not sent.
type DestinationFilter struct {
	Query     string
	Limit     *int
	Offset    *int
	Available *bool
}

func (f DestinationFilter) values() url.Values {
	v := url.Values{}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	if f.Limit != nil {
		v.Set("limit", strconv.Itoa(*f.Limit))
	}
	if f.Offset != nil {
		v.Set("offset", strconv.Itoa(*f.Offset))
	}
	if f.Available != nil {
		v.Set("available", strconv.FormatBool(*f.Available))
	}
	return v
}

func (s *Service) DestinationsQuery(filter DestinationFilter) query.Query {
	return listQuery(s, ResourceDestinations, pathDestinations, filter.values(), func(d Destination) any { return d.ID })
}

func (s *Service) Destinations(ctx context.Context, filter DestinationFilter) ([]Destination, error) {
	return query.Get[[]Destination](ctx, s.cache, s.DestinationsQuery(filter))
}

func (s *Service) DeleteDestination(ctx context.Context, id int) error {
	return s.deleteEntity(ctx, ResourceDestinations, itemPath(pathDestinations, id), id)
}
