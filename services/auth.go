package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/store"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type ProfileInput struct {
	DeliveryAddress string
	PhoneNumber     string
}

// AuthResult is returned by register and login
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	users  store.UserStore
	tokens *TokenService
	log    *slog.Logger
}

func NewAuthService(users store.UserStore, tokens *TokenService, log *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: logger.WithComponent(log, "auth")}
}

// Register creates a customer account and signs the caller in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, validationError("Name, email and password are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, validationError("Password must be at least %d characters", minPasswordLength)
	}

	user, err := createUser(ctx, s.users, name, email, in.Password, models.RoleUser, "Email already registered")
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return s.signIn(user)
}

// Login checks credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, newError(KindUnauthorized, ErrUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return nil, internalError("find user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, newError(KindUnauthorized, ErrUnauthorized, "Invalid credentials")
	}
	return s.signIn(user)
}

// Authenticate resolves an Authorization header into the full user record
func (s *AuthService) Authenticate(ctx context.Context, header string) (*models.User, error) {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)
	if !ok || tokenString == "" {
		return nil, newError(KindUnauthorized, ErrUnauthorized, "Not authenticated")
	}
	userID, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, &Error{Kind: KindUnauthorized, Message: "Not authenticated", Err: err}
	}
	user, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, newError(KindUnauthorized, ErrPrincipalNotFound, "Not authenticated")
	}
	if err != nil {
		return nil, internalError("load principal", err)
	}
	return user, nil
}

// RequireRole fails with ErrForbidden unless principal holds role's capability
func (s *AuthService) RequireRole(principal *models.User, role models.Role) error {
	if principal == nil || !principal.Role.Satisfies(role) {
		return newError(KindForbidden, ErrForbidden, "Access denied. Admin only.")
	}
	return nil
}

// UpdateProfile overwrites only the delivery fields that are non-empty
func (s *AuthService) UpdateProfile(ctx context.Context, principal *models.User, in ProfileInput) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, principal.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(err, "User not found")
	}
	if err != nil {
		return nil, internalError("find user", err)
	}

	if v := strings.TrimSpace(in.DeliveryAddress); v != "" {
		user.DeliveryAddress = v
	}
	if v := strings.TrimSpace(in.PhoneNumber); v != "" {
		user.PhoneNumber = v
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, internalError("update user", err)
	}
	return user, nil
}

func (s *AuthService) signIn(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, internalError("issue token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// createUser hashes the password and inserts the user, reporting duplicates as conflicts
func createUser(ctx context.Context, users store.UserStore, name, email, password string, role models.Role, dupMsg string) (*models.User, error) {
	if _, err := users.FindUserByEmail(ctx, email); err == nil {
		return nil, newError(KindConflict, store.ErrDuplicate, "%s", dupMsg)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, internalError("find user", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, newError(KindConflict, err, "%s", dupMsg)
		}
		return nil, internalError("create user", err)
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", internalError("hash password", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
