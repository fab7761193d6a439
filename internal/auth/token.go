package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims é o que o middleware precisa para montar o contexto da requisição.
type Claims struct {
	UserID          uuid.UUID
	EstablishmentID uuid.UUID
	Role            string
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(c Claims) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":             c.UserID.String(),
		"establishmentId": c.EstablishmentID.String(),
		"role":            c.Role,
		"exp":             now.Add(i.ttl).Unix(),
		"iat":             now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *Issuer) Parse(raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	est, _ := mc["establishmentId"].(string)
	role, _ := mc["role"].(string)

	userID, err1 := uuid.Parse(sub)
	establishmentID, err2 := uuid.Parse(est)
	if err1 != nil || err2 != nil {
		return Claims{}, ErrInvalidToken
	}

	return Claims{UserID: userID, EstablishmentID: establishmentID, Role: role}, nil
}
