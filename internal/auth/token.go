package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
)

// Claims is the identity payload the external auth collaborator signs into
// access tokens. The chat core only verifies; issuance lives elsewhere.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates the signature and expiration of a JWT string,
// returning the authenticated identity carried in its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, domain.NewUnauthorized("invalid access token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, domain.NewUnauthorized("invalid access token", jwt.ErrSignatureInvalid)
	}
	return claims, nil
}

// Sign creates a token for the given identity. Production tokens come from
// the external auth service; this exists for the seeder and tests.
func (v *Verifier) Sign(userID int64, username string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "qm-chat-server",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
