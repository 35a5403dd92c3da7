package dashboard

import (
	"context"
	"time"

	"github.com/jrsteele09/traveline-backoffice/query"
)

const (
	pathCooperations         = "cooperations"
	pathCooperationRegister  = "cooperations/register"
	pathCooperationContracts = "cooperations/contracts/all"
)

type CooperationStatus string

const (
	CooperationPending  CooperationStatus = "PENDING"
	CooperationApproved CooperationStatus = "APPROVED"
	CooperationActive   CooperationStatus = "ACTIVE"
	CooperationRejected CooperationStatus = "REJECTED"
	CooperationStopped  CooperationStatus = "STOPPED"
)

type PartnerManager struct {
	ID    int    `json:"id" validate:"required"`
	Email string `json:"email" validate:"required"`
	Name  string `json:"name,omitempty"`
}

// Partner is a cooperation as listed in the back-office. Revenue, rating
// and commission are decimal strings.
type Partner struct {
	ID                  int               `json:"id" validate:"required"`
	Code                string            `json:"code,omitempty"`
	Name                string            `json:"name" validate:"required"`
	Type                string            `json:"type" validate:"required"`
	Status              CooperationStatus `json:"status,omitempty" validate:"omitempty,oneof=PENDING APPROVED ACTIVE REJECTED STOPPED"`
	NumberOfObjects     int               `json:"numberOfObjects" validate:"gte=0"`
	NumberOfObjectTypes int               `json:"numberOfObjectTypes" validate:"gte=0"`
	BossName            string            `json:"bossName,omitempty"`
	BossPhone           string            `json:"bossPhone,omitempty"`
	BossEmail           string            `json:"bossEmail,omitempty"`
	RepresentativeName  string            `json:"representativeName,omitempty"`
	RepresentativePhone string            `json:"representativePhone,omitempty"`
	RepresentativeEmail string            `json:"representativeEmail,omitempty"`
	Address             string            `json:"address,omitempty"`
	District            string            `json:"district,omitempty"`
	City                string            `json:"city,omitempty"`
	Province            string            `json:"province,omitempty"`
	Photo               string            `json:"photo,omitempty"`
	BrandLogo           string            `json:"brandLogo,omitempty"`
	Introduction        string            `json:"introduction,omitempty"`
	ContractDate        string            `json:"contractDate,omitempty"`
	ContractTerm        string            `json:"contractTerm,omitempty"`
	CurrentContractURL  string            `json:"currentContractUrl,omitempty"`
	CommissionType      string            `json:"commissionType,omitempty" validate:"omitempty,oneof=PERCENT FIXED"`
	CommissionValue     string            `json:"commissionValue,omitempty" validate:"omitempty,numeric"`
	TaxID               string            `json:"taxId,omitempty"`
	BankAccountNumber   string            `json:"bankAccountNumber,omitempty"`
	BankAccountName     string            `json:"bankAccountName,omitempty"`
	BankName            string            `json:"bankName,omitempty"`
	BookingTimes        int               `json:"bookingTimes" validate:"gte=0"`
	Revenue             string            `json:"revenue,omitempty" validate:"omitempty,numeric"`
	AverageRating       string            `json:"averageRating,omitempty" validate:"omitempty,numeric"`
	Active              bool              `json:"active"`
	Manager             *PartnerManager   `json:"manager,omitempty"`
	UserID              *int              `json:"userId,omitempty"`
	CreatedAt           time.Time         `json:"createdAt" validate:"required"`
	UpdatedAt           *time.Time        `json:"updatedAt,omitempty"`
}

// RegisterPartnerInput is the cooperation registration form. Documents and
// images are referenced by URLs uploaded elsewhere.
type RegisterPartnerInput struct {
	Name                 string `json:"name"`
	Type                 string `json:"type"`
	Address              string `json:"address,omitempty"`
	ProvinceID           string `json:"provinceId,omitempty"`
	DistrictID           string `json:"districtId,omitempty"`
	WardCode             string `json:"wardCode,omitempty"`
	Introduction         string `json:"introduction,omitempty"`
	BrandLogo            string `json:"brandLogo,omitempty"`
	RepresentativeName   string `json:"representativeName,omitempty"`
	RepresentativePhone  string `json:"representativePhone,omitempty"`
	RepresentativeEmail  string `json:"representativeEmail,omitempty"`
	BusinessLicense      string `json:"businessLicense,omitempty"`
	RepresentativeIDCard string `json:"representativeIdCard,omitempty"`
	TaxID                string `json:"taxId,omitempty"`
	BankAccountNumber    string `json:"bankAccountNumber,omitempty"`
	BankAccountName      string `json:"bankAccountName,omitempty"`
	BankName             string `json:"bankName,omitempty"`
	PaymentQR            string `json:"paymentQr,omitempty"`
	APIBaseURL           string `json:"apiBaseUrl,omitempty"`
	APIKey               string `json:"apiKey,omitempty"`
	APIEndpointCheck     string `json:"apiEndpointCheck,omitempty"`
	AcceptedTerms        bool   `json:"acceptedTerms"`
}

type CooperationRef struct {
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

type CooperationContract struct {
	ID          int            `json:"id" validate:"required"`
	ContractURL string         `json:"contractUrl" validate:"required"`
	SignedDate  string         `json:"signedDate" validate:"required"`
	ExpiryDate  string         `json:"expiryDate,omitempty"`
	Terms       string         `json:"terms,omitempty"`
	Active      bool           `json:"active"`
	Cooperation CooperationRef `json:"cooperation"`
}

func (s *Service) PartnersQuery() query.Query {
	return listQuery(s, ResourcePartners, pathCooperations, nil, func(p Partner) any { return p.ID })
}

func (s *Service) Partners(ctx context.Context) ([]Partner, error) {
	return query.Get[[]Partner](ctx, s.cache, s.PartnersQuery())
}

func (s *Service) PartnerQuery(id int) query.Query {
	return detailQuery[Partner](s, ResourcePartners, itemPath(pathCooperations, id), id)
}

func (s *Service) Partner(ctx context.Context, id int) (*Partner, error) {
	return query.Get[*Partner](ctx, s.cache, s.PartnerQuery(id))
}

func (s *Service) DeletePartner(ctx context.Context, id int) error {
	return s.deleteEntity(ctx, ResourcePartners, itemPath(pathCooperations, id), id)
}

func (s *Service) RegisterPartner(ctx context.Context, in RegisterPartnerInput) (*Partner, error) {
	var created Partner
	err := s.mutate(ctx, func(ctx context.Context) error {
		return s.client.Post(ctx, pathCooperationRegister, in, &created)
	}, query.ListTag(ResourcePartners))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) CooperationContractsQuery() query.Query {
	return collectionQuery[[]CooperationContract](s, ResourceCooperationContracts, pathCooperationContracts, nil)
}

func (s *Service) CooperationContracts(ctx context.Context) ([]CooperationContract, error) {
	return query.Get[[]CooperationContract](ctx, s.cache, s.CooperationContractsQuery())
}
