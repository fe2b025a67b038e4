package mealie

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// CheckToken inspects the configured API token and warns when it already
// carries an expiry in the past. Mealie tokens are JWTs; the signature is not
// verified here, the server remains the authority. Tokens that are not JWTs
// or carry no expiry pass silently.
func CheckToken(token string, log *zap.Logger) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}

	if time.Now().After(exp.Time) {
		log.Warn("mealie token appears expired, api calls will likely fail",
			zap.Time("expired_at", exp.Time))
	}
}
