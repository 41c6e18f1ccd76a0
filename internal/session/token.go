package session

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether a stored credential token is a JWT whose
// exp claim has passed. The client never verifies the signature (it has
// no key material); it only inspects the claims it can read. Opaque
// tokens and JWTs without an exp claim never expire client-side: the
// server remains the authority and will reject them when it sees fit.
func TokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
