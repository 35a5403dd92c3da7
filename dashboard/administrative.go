package dashboard

import (
	"context"
	"strings"

	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/jrsteele09/traveline-backoffice/query"
)

const pathAdmin = "vn-admin/legacy"

// AdminUnit is a province, district or ward of the legacy administrative map.
type AdminUnit struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func (s *Service) adminUnits(ctx context.Context, path string) ([]AdminUnit, error) {
	q := listQuery(s, ResourceAdministrative, path, nil, func(u AdminUnit) any { return u.Code })
	return query.Get[[]AdminUnit](ctx, s.cache, q)
}

func checkCode(kind, code string) error {
	if code == "" || strings.Contains(code, "/") {
		return errors.Wrapf(errors.ErrInvalidArgument, "%s code %q", kind, code)
	}
	return nil
}

func (s *Service) AdminProvinces(ctx context.Context) ([]AdminUnit, error) {
	return s.adminUnits(ctx, pathAdmin+"/provinces")
}

func (s *Service) AdminDistricts(ctx context.Context, provinceCode string) ([]AdminUnit, error) {
	if err := checkCode("province", provinceCode); err != nil {
		return nil, err
	}
	return s.adminUnits(ctx, pathAdmin+"/provinces/"+provinceCode+"/districts")
}

func (s *Service) AdminWards(ctx context.Context, districtCode string) ([]AdminUnit, error) {
	if err := checkCode("district", districtCode); err != nil {
		return nil, err
	}
	return s.adminUnits(ctx, pathAdmin+"/districts/"+districtCode+"/wards")
}
