package service

import (
	"errors"
	"strings"

	"distance-learning-backend/app/model"
	"distance-learning-backend/app/repository"
	"distance-learning-backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles credential checks and token issuance.
type AuthService interface {
	// Login accepts a login or an email plus a password and returns a signed
	// access token. Bad credentials are a 400, matching the login form contract.
	Login(loginOrEmail, password string) (string, error)
	// GetByLogin resolves a token subject back to its user record.
	GetByLogin(login string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(loginOrEmail, password string) (string, error) {
	if loginOrEmail == "" || password == "" {
		return "", utils.ErrValidation("login and password are required")
	}

	var (
		user *model.User
		err  error
	)
	if strings.Contains(loginOrEmail, "@") {
		user, err = s.userRepo.FindByEmail(loginOrEmail)
	} else {
		user, err = s.userRepo.FindByLogin(loginOrEmail)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", utils.ErrValidation("invalid login or password")
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", utils.ErrValidation("invalid login or password")
	}

	return utils.GenerateToken(user.Login)
}

func (s *authService) GetByLogin(login string) (*model.User, error) {
	user, err := s.userRepo.FindByLogin(login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrAuthInvalid("user not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
