package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/config"
	"github.com/vedran77/vidtube/internal/domain"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Issuer signs and verifies access and refresh tokens. The two kinds use
// separate secrets and carry a typ claim so one cannot stand in for the other.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

func (i *Issuer) IssueAccess(user *domain.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":      user.ID.Hex(),
		"username": user.Username,
		"email":    user.Email,
		"typ":      tokenTypeAccess,
		"exp":      now.Add(i.accessTTL).Unix(),
		"iat":      now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.accessSecret)
}

func (i *Issuer) IssueRefresh(userID primitive.ObjectID) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub": userID.Hex(),
		"jti": uuid.NewString(),
		"typ": tokenTypeRefresh,
		"exp": now.Add(i.refreshTTL).Unix(),
		"iat": now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.refreshSecret)
}

func (i *Issuer) ParseAccess(token string) (primitive.ObjectID, error) {
	return i.parse(token, i.accessSecret, tokenTypeAccess)
}

func (i *Issuer) ParseRefresh(token string) (primitive.ObjectID, error) {
	return i.parse(token, i.refreshSecret, tokenTypeRefresh)
}

func (i *Issuer) parse(tokenStr string, secret []byte, typ string) (primitive.ObjectID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return primitive.NilObjectID, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != typ {
		return primitive.NilObjectID, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}

	id, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}
