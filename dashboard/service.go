// Package dashboard is the typed back-office surface of the backend: one
// read or mutation per endpoint, each declaring the cache tags it provides
// or invalidates.
package dashboard

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jrsteele09/traveline-backoffice/api"
	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/jrsteele09/traveline-backoffice/query"
)

// Cache tag resources.
const (
	ResourceDestinations         = "destinations"
	ResourceUsers                = "users"
	ResourceContracts            = "contracts"
	ResourceVehicles             = "vehicles"
	ResourceVehicleCatalog       = "vehicle-catalog"
	ResourceVouchers             = "vouchers"
	ResourcePartners             = "partners"
	ResourceCooperationContracts = "cooperation-contracts"
	ResourceProvinces            = "provinces"
	ResourceStatistics           = "statistics"
	ResourceRentalBills          = "rental-bills"
	ResourceAdministrative       = "administrative"
)

type Service struct {
	client *api.Client
	cache  *query.Cache
}

func New(client *api.Client, cache *query.Cache) *Service {
	return &Service{client: client, cache: cache}
}

func (s *Service) Cache() *query.Cache {
	return s.cache
}

func queryKey(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

// listQuery reads a JSON array and provides LIST plus one tag per item.
func listQuery[T any](s *Service, resource, path string, params url.Values, id func(T) any) query.Query {
	return query.NewQuery(queryKey(path, params), func(ctx context.Context) ([]T, error) {
		var out []T
		if err := s.client.Get(ctx, path, params, &out); err != nil {
			return nil, err
		}
		return out, nil
	}, func(items []T) []query.Tag {
		return query.ItemTags(resource, items, id)
	}, query.ListTag(resource))
}

// collectionQuery reads a value tagged only with the resource LIST.
func collectionQuery[T any](s *Service, resource, path string, params url.Values) query.Query {
	list := query.ListTag(resource)
	return query.NewQuery(queryKey(path, params), func(ctx context.Context) (T, error) {
		var out T
		err := s.client.Get(ctx, path, params, &out)
		return out, err
	}, func(T) []query.Tag {
		return []query.Tag{list}
	}, list)
}

func detailQuery[T any](s *Service, resource, path string, id any) query.Query {
	tag := query.IDTag(resource, id)
	return query.NewQuery(path, func(ctx context.Context) (*T, error) {
		var out T
		if err := s.client.Get(ctx, path, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}, func(*T) []query.Tag {
		return []query.Tag{tag}
	}, tag)
}

func (s *Service) mutate(ctx context.Context, fn func(ctx context.Context) error, invalidates ...query.Tag) error {
	return s.cache.Mutate(ctx, fn, invalidates...)
}

func (s *Service) deleteEntity(ctx context.Context, resource, path string, id any) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.client.Delete(ctx, path)
	}, query.EntityTags(resource, id)...)
}

func (s *Service) patchEntity(ctx context.Context, resource, path string, id any, body any) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.client.Patch(ctx, path, body, nil)
	}, query.EntityTags(resource, id)...)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidArgument, "id %q must be a positive integer", raw)
	}
	return id, nil
}

func itemPath(base string, id any) string {
	switch v := id.(type) {
	case int:
		return base + "/" + strconv.Itoa(v)
	case string:
		return base + "/" + v
	}
	return base
}
