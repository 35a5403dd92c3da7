package dashboard

import (
	"context"
	"time"

	"github.com/jrsteele09/traveline-backoffice/query"
)

const pathUsers = "users"

type User struct {
	ID        int        `json:"id" validate:"required"`
	Username  string     `json:"username" validate:"required"`
	FullName  string     `json:"fullName,omitempty"`
	Email     string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string     `json:"phone,omitempty"`
	UserTier  string     `json:"userTier,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (s *Service) UsersQuery() query.Query {
	return listQuery(s, ResourceUsers, pathUsers, nil, func(u User) any { return u.ID })
}

func (s *Service) Users(ctx context.Context) ([]User, error) {
	return query.Get[[]User](ctx, s.cache, s.UsersQuery())
}

func (s *Service) DeleteUser(ctx context.Context, id int) error {
	return s.deleteEntity(ctx, ResourceUsers, itemPath(pathUsers, id), id)
}
