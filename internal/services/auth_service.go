package services

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bookery/internal/domain"
	"bookery/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users *repos.UserRepo
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

// Register creates the user and issues a fresh bearer token.
func (s *AuthService) Register(in RegisterInput) (*domain.User, string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
	if err != nil {
		return nil, "", err
	}
	u := &domain.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Hash:      string(h),
		Phone:     in.Phone,
		Address:   in.Address,
		Role:      "user",
	}
	if err := s.Users.Create(u); err != nil {
		return nil, "", err
	}
	token := uuid.NewString()
	if err := s.Users.InsertToken(token, u.ID); err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	token := uuid.NewString()
	if err := s.Users.InsertToken(token, u.ID); err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) Logout(token string) error {
	return s.Users.RevokeToken(token)
}

func (s *AuthService) CurrentUser(token string) (*domain.User, error) {
	return s.Users.TokenUser(token)
}
