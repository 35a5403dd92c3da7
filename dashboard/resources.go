package dashboard

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"

	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/jrsteele09/traveline-backoffice/internal/utils"
)

// Resource exposes one back-office resource through string identifiers, for
// the console routes and the command line. Unsupported operations are nil.
type Resource struct {
	Name string

	List    func(ctx context.Context, params url.Values) (any, error)
	Get     func(ctx context.Context, id string) (any, error)
	Delete  func(ctx context.Context, id string) error
	Approve func(ctx context.Context, id string) error
	Reject  func(ctx context.Context, id, reason string) error

	// Create and Update take the JSON request body as the operator wrote it.
	Create func(ctx context.Context, body json.RawMessage) (any, error)
	Update func(ctx context.Context, body json.RawMessage) (any, error)
}

func withInput[In, Out any](fn func(ctx context.Context, in In) (Out, error)) func(ctx context.Context, body json.RawMessage) (any, error) {
	return func(ctx context.Context, body json.RawMessage) (any, error) {
		var in In
		if err := json.Unmarshal(body, &in); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "malformed request body: %v", err)
		}
		return fn(ctx, in)
	}
}

func withIntID(fn func(ctx context.Context, id int) error) func(ctx context.Context, id string) error {
	return func(ctx context.Context, raw string) error {
		id, err := parseID(raw)
		if err != nil {
			return err
		}
		return fn(ctx, id)
	}
}

func getIntID[T any](fn func(ctx context.Context, id int) (T, error)) func(ctx context.Context, id string) (any, error) {
	return func(ctx context.Context, raw string) (any, error) {
		id, err := parseID(raw)
		if err != nil {
			return nil, err
		}
		return fn(ctx, id)
	}
}

func listOf[T any](fn func(ctx context.Context) (T, error)) func(ctx context.Context, params url.Values) (any, error) {
	return func(ctx context.Context, _ url.Values) (any, error) {
		return fn(ctx)
	}
}

func optionalInt(params url.Values, key string) (*int, error) {
	raw := params.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "%s %q", key, raw)
	}
	return utils.Ptr(n), nil
}

func optionalBool(params url.Values, key string) (*bool, error) {
	raw := params.Get(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "%s %q", key, raw)
	}
	return utils.Ptr(b), nil
}

func destinationFilter(params url.Values) (DestinationFilter, error) {
	f := DestinationFilter{Query: params.Get("q")}
	var err error
	if f.Limit, err = optionalInt(params, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = optionalInt(params, "offset"); err != nil {
		return f, err
	}
	if f.Available, err = optionalBool(params, "available"); err != nil {
		return f, err
	}
	return f, nil
}

func voucherFilter(params url.Values) (VoucherFilter, error) {
	f := VoucherFilter{Code: params.Get("code")}
	var err error
	f.Active, err = optionalBool(params, "active")
	return f, err
}

func (s *Service) resources() map[string]Resource {
	return map[string]Resource{
		ResourceDestinations: {
			List: func(ctx context.Context, params url.Values) (any, error) {
				f, err := destinationFilter(params)
				if err != nil {
					return nil, err
				}
				return s.Destinations(ctx, f)
			},
			Delete: withIntID(s.DeleteDestination),
		},
		ResourceUsers: {
			List:   listOf(s.Users),
			Delete: withIntID(s.DeleteUser),
		},
		ResourceContracts: {
			List:    listOf(s.Contracts),
			Delete:  withIntID(s.DeleteContract),
			Approve: withIntID(s.ApproveContract),
			Reject: func(ctx context.Context, raw, reason string) error {
				id, err := parseID(raw)
				if err != nil {
					return err
				}
				return s.RejectContract(ctx, id, reason)
			},
		},
		ResourceVehicles: {
			List:    listOf(s.Vehicles),
			Delete:  s.DeleteVehicle,
			Approve: s.ApproveVehicle,
			Reject:  s.RejectVehicle,
		},
		ResourceVehicleCatalog: {
			List:   listOf(s.VehicleCatalog),
			Delete: withIntID(s.DeleteVehicleCatalogItem),
		},
		ResourceVouchers: {
			List: func(ctx context.Context, params url.Values) (any, error) {
				f, err := voucherFilter(params)
				if err != nil {
					return nil, err
				}
				return s.Vouchers(ctx, f)
			},
			Get:    getIntID(s.Voucher),
			Delete: withIntID(s.DeleteVoucher),
			Create: withInput(s.CreateVoucher),
		},
		ResourcePartners: {
			List:   listOf(s.Partners),
			Get:    getIntID(s.Partner),
			Delete: withIntID(s.DeletePartner),
			Create: withInput(s.RegisterPartner),
		},
		ResourceCooperationContracts: {
			List: listOf(s.CooperationContracts),
		},
		ResourceProvinces: {
			List:   listOf(s.Provinces),
			Update: withInput(s.BulkUpdateProvinces),
		},
		ResourceStatistics: {
			List: listOf(s.DashboardSummary),
			Get: func(ctx context.Context, report string) (any, error) {
				switch report {
				case "summary":
					return s.DashboardSummary(ctx)
				case "user-growth":
					return s.UserGrowth(ctx, PeriodYear)
				case "user-growth-month":
					return s.UserGrowth(ctx, PeriodMonth)
				case "revenue":
					return s.Revenue(ctx)
				case "service-usage":
					return s.ServiceUsage(ctx)
				}
				return nil, errors.Wrapf(errors.ErrInvalidArgument, "unknown statistics report %q", report)
			},
		},
		ResourceRentalBills: {
			Get: func(ctx context.Context, token string) (any, error) {
				return s.GuestBill(ctx, token)
			},
		},
		ResourceAdministrative: {
			List: func(ctx context.Context, params url.Values) (any, error) {
				if district := params.Get("district"); district != "" {
					return s.AdminWards(ctx, district)
				}
				if province := params.Get("province"); province != "" {
					return s.AdminDistricts(ctx, province)
				}
				return s.AdminProvinces(ctx)
			},
		},
	}
}

// Resource looks up a resource by its tag name.
func (s *Service) Resource(name string) (Resource, error) {
	r, ok := s.resources()[name]
	if !ok {
		return Resource{}, errors.Wrapf(errors.ErrNotFound, "unknown resource %q", name)
	}
	r.Name = name
	return r, nil
}

// ResourceNames lists every resource name, sorted.
func (s *Service) ResourceNames() []string {
	all := s.resources()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
