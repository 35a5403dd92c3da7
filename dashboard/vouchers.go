package dashboard

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/traveline-backoffice/query"
)

const pathVouchers = "vouchers"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Voucher amounts arrive as decimal strings.
type Voucher struct {
	ID               int          `json:"id" validate:"required"`
	Code             string       `json:"code" validate:"required"`
	Description      string       `json:"description,omitempty"`
	DiscountType     DiscountType `json:"discountType" validate:"required,oneof=percentage fixed"`
	Value            string       `json:"value" validate:"required,numeric"`
	MaxDiscountValue *string      `json:"maxDiscountValue,omitempty" validate:"omitempty,numeric"`
	MinOrderValue    *string      `json:"minOrderValue,omitempty" validate:"omitempty,numeric"`
	UsedCount        int          `json:"usedCount" validate:"gte=0"`
	MaxUsage         int          `json:"maxUsage" validate:"gte=0"`
	StartsAt         *time.Time   `json:"startsAt,omitempty"`
	ExpiresAt        *time.Time   `json:"expiresAt,omitempty"`
	Active           bool         `json:"active"`
	CreatedAt        time.Time    `json:"createdAt" validate:"required"`
	UpdatedAt        time.Time    `json:"updatedAt" validate:"required"`
}

type VoucherFilter struct {
	Active *bool
	Code   string
}

func (f VoucherFilter) values() url.Values {
	v := url.Values{}
	if f.Active != nil {
		v.Set("active", strconv.FormatBool(*f.Active))
	}
	if f.Code != "" {
		v.Set("code", f.Code)
	}
	return v
}

type CreateVoucherInput struct {
	Code             string       `json:"code"`
	Description      string       `json:"description,omitempty"`
	DiscountType     DiscountType `json:"discountType"`
	Value            float64      `json:"value"`
	MaxDiscountValue *float64     `json:"maxDiscountValue,omitempty"`
	MinOrderValue    *float64     `json:"minOrderValue,omitempty"`
	MaxUsage         int          `json:"maxUsage"`
	StartsAt         *time.Time   `json:"startsAt,omitempty"`
	ExpiresAt        *time.Time   `json:"expiresAt,omitempty"`
	Active           bool         `json:"active"`
}

func (s *Service) VouchersQuery(filter VoucherFilter) query.Query {
	return listQuery(s, ResourceVouchers, pathVouchers, filter.values(), func(v Voucher) any { return v.ID })
}

func (s *Service) Vouchers(ctx context.Context, filter VoucherFilter) ([]Voucher, error) {
	return query.Get[[]Voucher](ctx, s.cache, s.VouchersQuery(filter))
}

func (s *Service) VoucherQuery(id int) query.Query {
	return detailQuery[Voucher](s, ResourceVouchers, itemPath(pathVouchers, id), id)
}

func (s *Service) Voucher(ctx context.Context, id int) (*Voucher, error) {
	return query.Get[*Voucher](ctx, s.cache, s.VoucherQuery(id))
}

// CreateVoucher validation is left to the backend.
func (s *Service) CreateVoucher(ctx context.Context, in CreateVoucherInput) (*Voucher, error) {
	var created Voucher
	err := s.mutate(ctx, func(ctx context.Context) error {
		return s.client.Post(ctx, pathVouchers, in, &created)
	}, query.ListTag(ResourceVouchers))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) DeleteVoucher(ctx context.Context, id int) error {
	return s.deleteEntity(ctx, ResourceVouchers, itemPath(pathVouchers, id), id)
}
