package dashboard

import (
	"context"
	"time"

	"github.com/jrsteele09/traveline-backoffice/query"
)

const pathContracts = "rental-contracts"

type ContractStatus string

const (
	ContractPending   ContractStatus = "pending"
	ContractApproved  ContractStatus = "approved"
	ContractRejected  ContractStatus = "rejected"
	ContractSuspended ContractStatus = "suspended"
)

// Contract is a partner's rental contract awaiting or past review.
type Contract struct {
	ID               int            `json:"id" validate:"required"`
	UserID           int            `json:"userId" validate:"required"`
	FullName         string         `json:"fullName,omitempty"`
	Email            string         `json:"email,omitempty"`
	PhoneNumber      string         `json:"phoneNumber,omitempty"`
	BusinessType     string         `json:"businessType" validate:"required"`
	BusinessName     string         `json:"businessName,omitempty"`
	CitizenID        string         `json:"citizenId,omitempty"`
	Status           ContractStatus `json:"status" validate:"required,oneof=pending approved rejected suspended"`
	TotalVehicles    int            `json:"totalVehicles" validate:"gte=0"`
	TotalRentalTimes int            `json:"totalRentalTimes" validate:"gte=0"`
	AverageRating    float64        `json:"averageRating" validate:"gte=0"`
	CreatedAt        *time.Time     `json:"createdAt,omitempty"`
	StatusUpdatedAt  *time.Time     `json:"statusUpdatedAt,omitempty"`
}

type rejectBody struct {
	RejectedReason string `json:"rejectedReason"`
}

func (s *Service) ContractsQuery() query.Query {
	return listQuery(s, ResourceContracts, pathContracts, nil, func(c Contract) any { return c.ID })
}

func (s *Service) Contracts(ctx context.Context) ([]Contract, error) {
	return query.Get[[]Contract](ctx, s.cache, s.ContractsQuery())
}

func (s *Service) DeleteContract(ctx context.Context, id int) error {
	return s.deleteEntity(ctx, ResourceContracts, itemPath(pathContracts, id), id)
}

func (s *Service) ApproveContract(ctx context.Context, id int) error {
	return s.patchEntity(ctx, ResourceContracts, itemPath(pathContracts, id)+"/approve", id, nil)
}

func (s *Service) RejectContract(ctx context.Context, id int, reason string) error {
	return s.patchEntity(ctx, ResourceContracts, itemPath(pathContracts, id)+"/reject", id, rejectBody{RejectedReason: reason})
}
