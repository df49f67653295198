// Package jwt valida los tokens de acceso que emite el servicio de identidad del ERP.
// Este servicio no emite tokens.
package jwt

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken token mal formado, expirado, con firma incorrecta o sin los claims
// de usuario y empresa.
var ErrInvalidToken = errors.New("jwt: token inválido")

// Claims claims estándar más los del ERP. Role puede venir vacío en tokens antiguos.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"` // "admin" | "bodeguero" | "contador"
}

// Identity usuario autenticado tomado del token.
type Identity struct {
	UserID    string
	CompanyID string
	Role      string
}

// Verifier valida tokens HS256 con un secreto compartido.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier construye el verificador. Con issuer vacío no se valida el claim iss.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Verifier{secret: []byte(secret), parser: jwt.NewParser(opts...)}, nil
}

// Verify valida el token y devuelve la identidad. user_id cae a sub si no viene.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	var claims Claims
	_, err := v.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" || claims.CompanyID == "" {
		return Identity{}, fmt.Errorf("%w: faltan user_id o company_id", ErrInvalidToken)
	}
	return Identity{UserID: userID, CompanyID: claims.CompanyID, Role: claims.Role}, nil
}
