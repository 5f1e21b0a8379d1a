package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kotenkov/event_market/internal/models"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type AccessClaims struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	VendorID uint   `json:"vendor_id,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	Role      string `json:"role"`
	Name      string `json:"name"`
	VendorID  uint   `json:"vendor_id,omitempty"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type TokenService struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (t *TokenService) SignAccess(p Principal, exp time.Time) (string, error) {
	claims := AccessClaims{
		Role:     p.Role,
		Name:     p.Name,
		VendorID: p.VendorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.UserID), 10),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.JWTSecret)
}

func (t *TokenService) SignRefresh(p Principal, exp time.Time) (string, error) {
	claims := RefreshClaims{
		Role:      p.Role,
		Name:      p.Name,
		VendorID:  p.VendorID,
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.UserID), 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.RefreshSecret)
}

// IssuePair mints an access/refresh pair for p and persists the refresh token.
func (t *TokenService) IssuePair(p Principal) (*TokenPair, error) {
	accessExp := time.Now().Add(AccessTTL)
	access, err := t.SignAccess(p, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(RefreshTTL)
	refresh, err := t.SignRefresh(p, refreshExp)
	if err != nil {
		return nil, err
	}

	stored := models.RefreshToken{
		Token:     refresh,
		UserID:    p.UserID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := t.DB.Create(&stored).Error; err != nil {
		return nil, fmt.Errorf("saving refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (t *TokenService) ParseAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}

// ParseRefresh validates the signature and the stored copy: a rotated-out,
// revoked or expired token is rejected even when the signature still verifies.
func (t *TokenService) ParseRefresh(raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.RefreshSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if claims.TokenType != "refresh" {
		return nil, errors.New("not a refresh token")
	}

	var stored models.RefreshToken
	if err := t.DB.Where("token = ?", raw).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("refresh token not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if stored.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, errors.New("refresh token expired")
	}
	return claims, nil
}

// Rotate revokes the presented refresh token and issues a fresh pair.
func (t *TokenService) Rotate(raw string) (Principal, *TokenPair, error) {
	claims, err := t.ParseRefresh(raw)
	if err != nil {
		return Principal{}, nil, err
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, nil, fmt.Errorf("bad subject in refresh token: %w", err)
	}
	p := Principal{
		UserID:   uint(userID),
		Name:     claims.Name,
		Role:     claims.Role,
		VendorID: claims.VendorID,
	}

	if err := t.Revoke(raw); err != nil {
		return Principal{}, nil, err
	}
	pair, err := t.IssuePair(p)
	if err != nil {
		return Principal{}, nil, err
	}
	return p, pair, nil
}

func (t *TokenService) Revoke(raw string) error {
	return t.DB.Model(&models.RefreshToken{}).
		Where("token = ?", raw).
		Update("revoked", true).Error
}
