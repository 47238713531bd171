package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the identity carried by a session token.
type Claims struct {
	UserID   uuid.UUID
	Email    string
	Username string
	Role     models.Role
}

// Actor returns the caller identity used for ownership and role checks.
func (c *Claims) Actor() Actor {
	return Actor{ID: c.UserID, Role: c.Role}
}

// ClaimsFromMap reads the claims written by AuthService.IssueToken.
func ClaimsFromMap(m jwt.MapClaims) (*Claims, error) {
	sub, ok := m["sub"].(string)
	if !ok {
		return nil, errors.New("missing sub claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid sub claim: %w", err)
	}
	email, _ := m["email"].(string)
	username, _ := m["username"].(string)
	role, ok := models.ParseRole(fmt.Sprint(m["role"]))
	if !ok {
		role = models.RoleUser
	}
	return &Claims{UserID: id, Email: email, Username: username, Role: role}, nil
}

// Actor is an authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a Actor) IsAdmin() bool { return a.Role.IsAdmin() }

type AuthService struct {
	store *store.Store
	cfg   *config.Config
	now   func() time.Time
}

func NewAuthService(st *store.Store, cfg *config.Config) *AuthService {
	return &AuthService{store: st, cfg: cfg, now: time.Now}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := dto.Validate(req); err != nil {
		return nil, validationError("%s", err.Error())
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strings.TrimSpace(req.Name)
	}
	if username == "" {
		return nil, validationError("username is required")
	}
	if len(username) < 3 {
		return nil, validationError("username must be at least 3 characters")
	}
	email := req.Email

	if _, err := s.store.Users.ByEmail(email); err == nil {
		return nil, conflictError("an account with this email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, internalError("failed to check email", err)
	}
	if _, err := s.store.Users.ByUsername(username); err == nil {
		return nil, conflictError("username already taken")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, internalError("failed to check username", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, internalError("failed to hash password", err)
	}

	user := models.User{
		Username:  username,
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      models.RoleUser,
	}
	if err := s.store.Users.Create(&user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflictError("email or username already taken")
		}
		return nil, internalError("failed to create user", err)
	}

	return s.authResponse(&user)
}

// Login fails with one message for unknown emails and wrong passwords alike.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, validationError("%s", err.Error())
	}

	user, err := s.store.Users.ByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, authError(invalidCredentials)
		}
		return nil, internalError("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, authError(invalidCredentials)
	}

	return s.authResponse(user)
}

// VerifyToken checks signature and expiry and returns the embedded identity.
func (s *AuthService) VerifyToken(raw string) (*Claims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return nil, authError("missing token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, authError("invalid or expired token")
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, authError("invalid or expired token")
	}
	claims, err := ClaimsFromMap(mc)
	if err != nil {
		return nil, authError("invalid or expired token")
	}
	return claims, nil
}

// RequireRole fails unless the caller holds role exactly.
func (s *AuthService) RequireRole(claims *Claims, role models.Role) error {
	if claims == nil {
		return authError("authentication required")
	}
	if claims.Role != role {
		return authzError(fmt.Sprintf("%s role required", role))
	}
	return nil
}

func (s *AuthService) Me(userID uuid.UUID) (*models.User, error) {
	user, err := s.store.Users.ByID(userID)
	if err != nil {
		return nil, storeError("user", err)
	}
	return user, nil
}

// UpdateProfile edits names, avatar and the shop profile. Giving a shop name
// marks the account as a seller.
func (s *AuthService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	if err := dto.Validate(req); err != nil {
		return nil, validationError("%s", err.Error())
	}

	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Avatar != nil {
		fields["avatar"] = strings.TrimSpace(*req.Avatar)
	}
	if req.ShopDescription != nil {
		fields["seller_description"] = strings.TrimSpace(*req.ShopDescription)
	}
	if req.ShopName != nil {
		shop := strings.TrimSpace(*req.ShopName)
		fields["seller_shop_name"] = shop
		if shop != "" {
			fields["is_seller"] = true
		}
	}
	if len(fields) == 0 {
		return s.Me(userID)
	}

	user, err := s.store.Users.Update(userID, fields)
	if err != nil {
		return nil, storeError("user", err)
	}
	return user, nil
}

// IssueToken signs a session token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"email":    user.Email,
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, internalError("failed to sign token", err)
	}
	return &dto.AuthResponse{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
