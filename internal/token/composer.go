// Package token signs and verifies the session tokens issued at login.
//
// Verification is split into explicit stages (structural parse, signature and
// algorithm, reserved claims, private claims) so the authorization pipeline
// can reject with a distinct reason at each step.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gamenight/users-service/internal/model"
)

// Reserved claim constants for every token this service issues.
const (
	Issuer  = "http://users.gamenight.io"
	Subject = "users microservice"

	// Validity is the fixed window between issuance and expiry.
	Validity = 30 * 24 * time.Hour
)

// Sentinel errors for key configuration and token construction.
var (
	ErrMissingPrivateKey  = errors.New("token: missing private key")
	ErrMissingPublicKey   = errors.New("token: missing public key")
	ErrCannotCreateToken  = errors.New("token: cannot create token")
	ErrVerificationFailed = errors.New("token: cannot verify signature and algorithm")
)

// SigningError reports a cryptographic failure while signing a payload.
type SigningError struct{ Detail string }

func (e *SigningError) Error() string { return "token: signing failed: " + e.Detail }

// InvalidPayloadError reports a reserved or private claim violation.
type InvalidPayloadError struct{ Reason string }

func (e *InvalidPayloadError) Error() string { return "token: invalid payload: " + e.Reason }

// Handle is a structurally parsed token awaiting verification. The decoded
// payload is readable before the signature is checked; callers must not trust
// it until VerifySignatureAndAlgorithm has succeeded.
type Handle struct {
	signed string
	claims jwt.MapClaims
}

// Claims exposes the decoded payload.
func (h *Handle) Claims() map[string]any { return h.claims }

// Composer signs payloads into bearer tokens and verifies them. Key material
// is loaded once at startup and immutable afterwards; either key may be nil
// when the deployment only signs or only verifies.
type Composer struct {
	privateKey any // *rsa.PrivateKey when configured
	publicKey  any // *rsa.PublicKey when configured
}

// NewComposer constructs a Composer with the given RS256 key pair.
func NewComposer(privateKey, publicKey any) *Composer {
	return &Composer{privateKey: privateKey, publicKey: publicKey}
}

// NewSessionPayload builds the payload for a session token: reserved claims
// plus the user id and comma-delimited permission grant.
func NewSessionPayload(userID string, perms []model.Permission) map[string]any {
	return map[string]any{
		"iss":   Issuer,
		"sub":   Subject,
		"exp":   time.Now().Add(Validity).Unix(),
		"user":  userID,
		"perms": model.JoinPermissions(perms),
	}
}

// Sign encodes and signs a payload with RS256.
func (c *Composer) Sign(payload map[string]any) (string, error) {
	if c.privateKey == nil {
		return "", ErrMissingPrivateKey
	}
	if _, err := json.Marshal(payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCannotCreateToken, err)
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims(payload))
	signed, err := tok.SignedString(c.privateKey)
	if err != nil {
		return "", &SigningError{Detail: err.Error()}
	}
	return signed, nil
}

// ParseUnverified structurally parses a signed token without checking the
// signature.
func (c *Composer) ParseUnverified(signed string) (*Handle, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(signed, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotCreateToken, err)
	}
	return &Handle{signed: signed, claims: claims}, nil
}

// VerifySignatureAndAlgorithm checks the token signature against the
// configured public key. Only RS256 is accepted; a token claiming any other
// algorithm fails regardless of its signature.
func (c *Composer) VerifySignatureAndAlgorithm(h *Handle) error {
	if c.publicKey == nil {
		return ErrMissingPublicKey
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	tok, err := parser.Parse(h.signed, func(*jwt.Token) (any, error) {
		return c.publicKey, nil
	})
	if err != nil || !tok.Valid {
		return ErrVerificationFailed
	}
	return nil
}

// VerifyReservedClaims checks iss, sub and exp against the expected constants
// and the wall clock at verification time.
func (c *Composer) VerifyReservedClaims(h *Handle, issuer, subject string) error {
	iss, issOK := h.claims["iss"].(string)
	sub, subOK := h.claims["sub"].(string)
	exp, expOK := numericClaim(h.claims["exp"])
	if !issOK || !subOK || !expOK {
		return &InvalidPayloadError{Reason: "missing iss, exp, or sub claim"}
	}
	if iss != issuer {
		return &InvalidPayloadError{Reason: "iss claim is invalid"}
	}
	if sub != subject {
		return &InvalidPayloadError{Reason: "sub claim is invalid"}
	}
	if time.Unix(exp, 0).Before(time.Now()) {
		return &InvalidPayloadError{Reason: "token has expired"}
	}
	return nil
}

// VerifyPrivateClaims runs a caller-supplied check over the payload. The
// check returns the names of violated claims; any violation invalidates the
// token.
func (c *Composer) VerifyPrivateClaims(h *Handle, verify func(claims map[string]any) []string) error {
	if invalid := verify(h.claims); len(invalid) > 0 {
		return &InvalidPayloadError{Reason: "invalid private claims: " + strings.Join(invalid, ", ")}
	}
	return nil
}

// numericClaim normalizes the exp claim, which decodes as float64 from JSON
// but may be set as an integer when the payload is built in-process.
func numericClaim(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
