package auth

import (
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/gymops/go_gym_backend/internal/domain/user"
)

var (
	ErrAccessTokenInvalid = errors.New("invalid access token")
)

// Authorizer hashes passwords and issues/validates bearer tokens. It is
// constructed once at process entry from the explicit configuration struct
// and passed to the components that need it.
type Authorizer struct {
	Cost           int
	Secret         string
	AccessTokenTTL time.Duration
}

func (a *Authorizer) Hash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.Cost)
	if err != nil {
		panic(err)
	}
	return hex.EncodeToString(hash)
}

// Verify checks a plaintext password against a stored hash.
func (a *Authorizer) Verify(password, passwordHash string) error {
	hashBytes, err := hex.DecodeString(passwordHash)
	if err != nil {
		return user.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hashBytes, []byte(password)); err != nil {
		return user.ErrInvalidCredentials
	}
	return nil
}

// GenerateAccessToken issues an HS256 JWT whose subject is the user's email.
func (a *Authorizer) GenerateAccessToken(u *user.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": u.Email,
		"exp": now.Add(a.AccessTokenTTL).Unix(),
		"iat": now.Unix(),
	})
	return token.SignedString([]byte(a.Secret))
}

// AccessTokenData is the identity claim a validated token carries.
type AccessTokenData struct {
	Email string
}

func (a *Authorizer) ValidateAccessToken(accessToken string) (*AccessTokenData, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAccessTokenInvalid
		}
		return []byte(a.Secret), nil
	})
	if err != nil {
		return nil, ErrAccessTokenInvalid
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrAccessTokenInvalid
	}

	return &AccessTokenData{Email: sub}, nil
}
