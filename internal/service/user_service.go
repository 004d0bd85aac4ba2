package service

import (
	"context"
	"errors"
	"strings"

	dom "hubplus/internal/domain"
	"hubplus/internal/repo"
	"hubplus/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles user auth logic.
type UserService struct {
	repo repo.UserRepo
	cost int
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo, cost: bcrypt.DefaultCost}
}

// ValidateCredentials checks username and password; returns user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new user with hashed password and the default role.
func (s *UserService) Register(ctx context.Context, username, password string) (dom.User, error) {
	return s.create(ctx, username, password, dom.RoleUser)
}

// CreateAdmin is used by the CLI to bootstrap administrators.
func (s *UserService) CreateAdmin(ctx context.Context, username, password string) (dom.User, error) {
	return s.create(ctx, username, password, dom.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, username, password, role string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, string(hash), role)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

func (s *UserService) Promote(ctx context.Context, username string) (dom.User, error) {
	u, err := s.repo.SetRole(ctx, strings.TrimSpace(username), dom.RoleAdmin)
	return u, mapNoRows(err)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	return u, mapNoRows(err)
}
