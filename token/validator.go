// Package token inspects access tokens on the client side.
//
// Nothing here verifies a signature. The backend is the only party that can
// say a token is authentic; the console reads the exp claim purely to avoid
// sending requests that are certain to be rejected.
package token

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var (
	ErrMalformed  = errors.New("token is not three dot-separated segments")
	ErrPayload    = errors.New("token payload is not a JSON object")
	ErrMissingExp = errors.New("token has no numeric exp claim")
)

var segmentParser = jwtlib.NewParser(jwtlib.WithPaddingAllowed())

// IsValid reports whether raw looks like a token whose exp claim lies in the future.
func IsValid(raw string) bool {
	return IsValidAt(raw, NowTimeFunc())
}

// IsValidAt is IsValid against an explicit clock. exp equal to now counts as expired.
func IsValidAt(raw string, now time.Time) bool {
	exp, err := Expiry(raw)
	if err != nil {
		return false
	}
	return exp > float64(now.Unix())
}

// Expiry returns the raw exp claim, in Unix seconds.
func Expiry(raw string) (float64, error) {
	claims, err := Claims(raw)
	if err != nil {
		return 0, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok || exp == 0 {
		return 0, ErrMissingExp
	}
	return exp, nil
}

// Claims decodes the middle segment of raw without verifying anything.
func Claims(raw string) (jwtlib.MapClaims, error) {
	if raw == "" {
		return nil, ErrMalformed
	}
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, ErrMalformed
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, errors.Join(ErrPayload, err)
	}

	claims := jwtlib.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errors.Join(ErrPayload, err)
	}
	return claims, nil
}

// Info is the display subset of the claims used by whoami.
type Info struct {
	Subject   string
	Username  string
	Role      string
	ExpiresAt time.Time
	Expired   bool
}

// Inspect summarises the unverified claims of raw.
func Inspect(raw string) (Info, error) {
	claims, err := Claims(raw)
	if err != nil {
		return Info{}, err
	}

	info := Info{}
	info.Subject, _ = claims.GetSubject()
	info.Username, _ = claims["username"].(string)
	info.Role, _ = claims["role"].(string)
	if exp, ok := claims["exp"].(float64); ok && exp != 0 {
		info.ExpiresAt = time.Unix(int64(exp), 0)
	}
	info.Expired = !IsValid(raw)
	return info, nil
}
