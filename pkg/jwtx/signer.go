package jwtx

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// RS256Signer signs JWTs with an RSA key and publishes the matching JWK.
// The service itself never mints tokens (identity is delegated to the
// provider); this exists so tests and local tooling can stand in for one.
type RS256Signer struct {
	kid string
	key *rsa.PrivateKey
}

// NewRS256Signer generates a fresh RSA key pair for the given kid.
func NewRS256Signer(kid string, bits int) (*RS256Signer, error) {
	if bits < 2048 {
		bits = 2048
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, err
	}
	return &RS256Signer{kid: kid, key: key}, nil
}

func (s *RS256Signer) KID() string { return s.kid }

// Sign produces a signed compact JWT over the given claims with the
// signer's kid in the header.
func (s *RS256Signer) Sign(claims jwt.Claims) (string, error) {
	if s.key == nil {
		return "", errors.New("jwtx: signer has no key")
	}
	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}

// PublicJWK returns the JWK to publish in a JWKS.
func (s *RS256Signer) PublicJWK() JWK {
	return NewRSAJWK(s.kid, "sig", jwt.SigningMethodRS256.Alg(), &s.key.PublicKey)
}
