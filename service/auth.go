package service

import (
	"bitwise74/resource-api/errs"
	"bitwise74/resource-api/model"
	"bitwise74/resource-api/repository"
	"bitwise74/resource-api/validators"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Token is returned by register and login
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Registration struct {
	Email    string
	Password string
	Name     string
}

type UpdateProfile struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
}

type Auth struct {
	users  UserStore
	hasher Hasher
	tokens TokenManager

	dummyOnce sync.Once
	dummyHash string
}

func NewAuth(users UserStore, hasher Hasher, tokens TokenManager) *Auth {
	return &Auth{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

var errInvalidCredentials = errs.Unauthorized("Invalid credentials")

func profileOf(u *model.User) *Profile {
	return &Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return "", errs.Validation("name", "Name must be at least 2 characters")
	}

	return name, nil
}

func (s *Auth) issue(u *model.User) (*Token, error) {
	token, exp, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	return &Token{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
	}, nil
}

func (s *Auth) Register(ctx context.Context, in Registration) (*Token, error) {
	if err := validators.EmailValidator(in.Email); err != nil {
		return nil, errs.Validation("email", err.Error())
	}

	if err := validators.PasswordValidator(in.Password); err != nil {
		return nil, errs.Validation("password", err.Error())
	}

	name, err := checkName(in.Name)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.EmailTaken(ctx, in.Email, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check email, %w", err)
	}

	if taken {
		return nil, errs.Conflict("Email already exists")
	}

	hash, err := s.hasher.GenerateFromPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	u := &model.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         name,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errs.Conflict("Email already exists")
		}

		return nil, fmt.Errorf("failed to create user, %w", err)
	}

	return s.issue(u)
}

// Login checks the credentials and issues a token. An unknown identifier
// and a wrong password produce the same error and take about as long.
func (s *Auth) Login(ctx context.Context, identifier, password string) (*Token, error) {
	if identifier == "" {
		return nil, errs.Validation("email", "Email is required")
	}

	if password == "" {
		return nil, errs.Validation("password", "Password is required")
	}

	u, err := s.users.ByEmail(ctx, identifier)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to find user, %w", err)
		}

		s.burnVerification(password)
		return nil, errInvalidCredentials
	}

	ok, err := s.hasher.VerifyPasswd(password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, errInvalidCredentials
	}

	return s.issue(u)
}

func (s *Auth) burnVerification(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.GenerateFromPassword("not-a-real-password")
	})

	if s.dummyHash != "" {
		_, _ = s.hasher.VerifyPasswd(password, s.dummyHash)
	}
}

// Authenticate resolves an access token to the id of an existing user
func (s *Auth) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", &errs.Error{Kind: errs.KindUnauthorized, Message: "Invalid or expired token", Err: err}
	}

	if _, err := s.users.ByID(ctx, claims.Subject); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", errs.Unauthorized("User no longer exists")
		}

		return "", fmt.Errorf("failed to find user, %w", err)
	}

	return claims.Subject, nil
}

func (s *Auth) Profile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.Unauthorized("User no longer exists")
		}

		return nil, fmt.Errorf("failed to find user, %w", err)
	}

	return profileOf(u), nil
}

// UpdateProfile changes the caller's own email, password or name
func (s *Auth) UpdateProfile(ctx context.Context, userID string, in UpdateProfile) (*Profile, error) {
	fields := map[string]any{}

	if in.Email != nil {
		if err := validators.EmailValidator(*in.Email); err != nil {
			return nil, errs.Validation("email", err.Error())
		}

		taken, err := s.users.EmailTaken(ctx, *in.Email, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email, %w", err)
		}

		if taken {
			return nil, errs.Conflict("Email already exists")
		}

		fields["email"] = *in.Email
	}

	if in.Password != nil {
		if err := validators.PasswordValidator(*in.Password); err != nil {
			return nil, errs.Validation("password", err.Error())
		}

		hash, err := s.hasher.GenerateFromPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password, %w", err)
		}

		fields["password_hash"] = hash
	}

	if in.Name != nil {
		name, err := checkName(*in.Name)
		if err != nil {
			return nil, err
		}

		fields["name"] = name
	}

	if len(fields) > 0 {
		if err := s.users.Update(ctx, userID, fields); err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return nil, errs.Unauthorized("User no longer exists")
			case errors.Is(err, repository.ErrDuplicate):
				return nil, errs.Conflict("Email already exists")
			}

			return nil, fmt.Errorf("failed to update user, %w", err)
		}
	}

	return s.Profile(ctx, userID)
}
