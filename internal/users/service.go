package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type PaginatedUsers struct {
	Users      []UserResponse `json:"users"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context, page, limit int) (*PaginatedUsers, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context, page, limit int) (*PaginatedUsers, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	usersList, totalCount, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(usersList))
	for i := range usersList {
		u := &usersList[i]
		responses = append(responses, UserResponse{
			ID:        u.ID.String(),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      string(u.Role),
		})
	}

	return &PaginatedUsers{
		Users:      responses,
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
	}, nil
}

func (s *service) ChangeRole(ctx context.Context, id uuid.UUID, role string) error {
	if !IsValidRole(role) {
		return ErrInvalidRole
	}
	return s.repo.UpdateRole(ctx, id, Role(role))
}
