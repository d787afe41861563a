package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity-service/auth"
	"github.com/skillsenselab/identity-service/auth/principal"
	apperrors "github.com/skillsenselab/identity-service/errors"
)

// RequireAuth returns the bearer-token gate. It extracts the token from the
// Authorization header, authenticates it against the live account store,
// and installs the resolved Principal in the request context. Requests
// without a well-formed bearer header never reach the verifier.
func RequireAuth(authsvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, apperrors.TokenRequired())
			return
		}

		p, err := authsvc.Authenticate(c.Request.Context(), rawToken)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(principal.NewContext(c.Request.Context(), p))
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// abortWithError stops the chain and writes the structured error body.
func abortWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
