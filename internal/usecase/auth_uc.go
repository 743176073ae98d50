package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/boscoapparel/shop/internal/domain"
)

type AuthUC struct {
	Users domain.UserRepo

	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Claims is the token payload: user id and role, nothing else.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (uc *AuthUC) sign(u *domain.User, secret []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (uc *AuthUC) parse(token string, secret []byte) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

// VerifyAccess checks a bearer token and loads the active user behind it.
func (uc *AuthUC) VerifyAccess(ctx context.Context, token string) (*domain.User, error) {
	claims, err := uc.parse(token, uc.AccessSecret)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, err
	}
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil || !u.IsActive {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (uc *AuthUC) issuePair(ctx context.Context, u *domain.User) (*TokenPair, error) {
	access, err := uc.sign(u, uc.AccessSecret, uc.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := uc.sign(u, uc.RefreshSecret, uc.RefreshTTL)
	if err != nil {
		return nil, err
	}
	// single active refresh token per user
	u.RefreshToken = refresh
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (uc *AuthUC) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, nil, domain.ValidationError("Name, email and password are required")
	}
	if _, err := uc.Users.FindActiveByEmail(ctx, email); err == nil {
		return nil, nil, domain.ValidationError("User with this email already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}
	u := &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := uc.Users.Create(ctx, u); err != nil {
		return nil, nil, err
	}
	pair, err := uc.issuePair(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

func (uc *AuthUC) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ValidationError("Please provide email and password")
	}
	u, err := uc.Users.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, nil, domain.ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrNotFound
	}
	pair, err := uc.issuePair(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// LoginOAuth signs a verified external identity in, creating the account on
// first sight. OAuth users get an unusable password hash.
func (uc *AuthUC) LoginOAuth(ctx context.Context, name, email string) (*domain.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil, domain.ValidationError("Email is required")
	}
	u, err := uc.Users.FindActiveByEmail(ctx, email)
	if err == domain.ErrNotFound {
		u = &domain.User{
			ID:           uuid.New(),
			Name:         name,
			Email:        email,
			PasswordHash: "!oauth:" + uuid.NewString(),
			Role:         domain.RoleUser,
			IsActive:     true,
		}
		if err := uc.Users.Create(ctx, u); err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}
	pair, err := uc.issuePair(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Refresh trades a valid refresh token for a new access token. The token
// must match the single one stored for the user.
func (uc *AuthUC) Refresh(ctx context.Context, refreshToken string) (*domain.User, string, error) {
	claims, err := uc.parse(refreshToken, uc.RefreshSecret)
	if err != nil {
		return nil, "", domain.ErrNotFound
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, "", domain.ErrNotFound
	}
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil || !u.IsActive || u.RefreshToken != refreshToken {
		return nil, "", domain.ErrNotFound
	}
	access, err := uc.sign(u, uc.AccessSecret, uc.AccessTTL)
	if err != nil {
		return nil, "", err
	}
	return u, access, nil
}

func (uc *AuthUC) Logout(ctx context.Context, userID uuid.UUID) error {
	u, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	u.RefreshToken = ""
	return uc.Users.Save(ctx, u)
}

func (uc *AuthUC) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return uc.Users.FindByID(ctx, userID)
}

func (uc *AuthUC) UpdateProfile(ctx context.Context, userID uuid.UUID, name, email string) (*domain.User, error) {
	u, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		u.Name = name
	}
	if email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(email))
	}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *AuthUC) ListUsers(ctx context.Context, page, limit int) ([]domain.User, int64, error) {
	return uc.Users.ListActive(ctx, page, limit)
}

func (uc *AuthUC) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return uc.Users.Deactivate(ctx, id)
}
