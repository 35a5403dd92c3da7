package dashboard

import (
	"context"

	"github.com/jrsteele09/traveline-backoffice/query"
)

const (
	pathProvinces          = "provinces"
	pathProvincesBulkPatch = "provinces/bulk/update"
)

type Province struct {
	ID        int    `json:"id" validate:"required"`
	Code      string `json:"code" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Region    string `json:"region,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type ProvinceUpdate struct {
	ID        int    `json:"id"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

func (s *Service) ProvincesQuery() query.Query {
	return listQuery(s, ResourceProvinces, pathProvinces, nil, func(p Province) any { return p.ID })
}

func (s *Service) Provinces(ctx context.Context) ([]Province, error) {
	return query.Get[[]Province](ctx, s.cache, s.ProvincesQuery())
}

// BulkUpdateProvinces invalidates the list and every province it touched.
func (s *Service) BulkUpdateProvinces(ctx context.Context, updates []ProvinceUpdate) ([]Province, error) {
	tags := make([]query.Tag, 0, len(updates)+1)
	for _, u := range updates {
		tags = append(tags, query.IDTag(ResourceProvinces, u.ID))
	}
	tags = append(tags, query.ListTag(ResourceProvinces))

	var updated []Province
	err := s.mutate(ctx, func(ctx context.Context) error {
		return s.client.Patch(ctx, pathProvincesBulkPatch, updates, &updated)
	}, tags...)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
