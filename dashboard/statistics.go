package dashboard

import (
	"context"
	"net/url"

	"github.com/jrsteele09/traveline-backoffice/internal/errors"
	"github.com/jrsteele09/traveline-backoffice/query"
)

const (
	pathStatsSummary      = "statistics/dashboard-summary"
	pathStatsUserGrowth   = "statistics/user-growth"
	pathStatsRevenue      = "statistics/revenue"
	pathStatsServiceUsage = "statistics/service-usage"
)

type GrowthPeriod string

const (
	PeriodYear  GrowthPeriod = "year"
	PeriodMonth GrowthPeriod = "month"
)

type DashboardSummary struct {
	TotalUsers   int     `json:"totalUsers" validate:"gte=0"`
	TotalRoutes  int     `json:"totalRoutes" validate:"gte=0"`
	TotalRevenue float64 `json:"totalRevenue" validate:"gte=0"`
	NewUsers     int     `json:"newUsers" validate:"gte=0"`
}

type UserGrowthPoint struct {
	Name  string `json:"name" validate:"required"`
	Users int    `json:"users" validate:"gte=0"`
}

type RevenuePoint struct {
	Name    string  `json:"name" validate:"required"`
	Revenue float64 `json:"revenue"`
}

type ServiceUsagePoint struct {
	Name  string  `json:"name" validate:"required"`
	Value float64 `json:"value" validate:"gte=0"`
}

func (s *Service) DashboardSummary(ctx context.Context) (DashboardSummary, error) {
	return query.Get[DashboardSummary](ctx, s.cache, collectionQuery[DashboardSummary](s, ResourceStatistics, pathStatsSummary, nil))
}

// UserGrowth defaults to a yearly breakdown.
func (s *Service) UserGrowth(ctx context.Context, period GrowthPeriod) ([]UserGrowthPoint, error) {
	if period == "" {
		period = PeriodYear
	}
	if period != PeriodYear && period != PeriodMonth {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "period %q", period)
	}
	params := url.Values{"period": {string(period)}}
	return query.Get[[]UserGrowthPoint](ctx, s.cache, collectionQuery[[]UserGrowthPoint](s, ResourceStatistics, pathStatsUserGrowth, params))
}

func (s *Service) Revenue(ctx context.Context) ([]RevenuePoint, error) {
	return query.Get[[]RevenuePoint](ctx, s.cache, collectionQuery[[]RevenuePoint](s, ResourceStatistics, pathStatsRevenue, nil))
}

func (s *Service) ServiceUsage(ctx context.Context) ([]ServiceUsagePoint, error) {
	return query.Get[[]ServiceUsagePoint](ctx, s.cache, collectionQuery[[]ServiceUsagePoint](s, ResourceStatistics, pathStatsServiceUsage, nil))
}
