package middleware

import (
	"net/http"
	"strings"

	"orgmanager/internal/model"

	"github.com/gin-gonic/gin"
)

// AdminKey is the gin.Context key holding the authenticated *model.AdminIdentity.
const AdminKey = "admin"

// Error codes and messages written by RequireBearer.
const (
	CodeUnauthorized         = "UNAUTHORIZED"
	msgMissingCredentials    = "Not authenticated"
	msgInvalidCredentials    = "Invalid authentication credentials"
	wwwAuthenticateChallenge = "Bearer"
)

// Authorizer verifies a bearer token.
type Authorizer interface {
	Authorize(token string) (*model.AdminIdentity, error)
}

// RequireBearer rejects requests without a valid "Authorization: Bearer"
// token with a 401 envelope and a WWW-Authenticate challenge.
func RequireBearer(auth Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, msgMissingCredentials)
			return
		}

		admin, err := auth.Authorize(token)
		if err != nil {
			abortUnauthorized(c, msgInvalidCredentials)
			return
		}

		c.Set(AdminKey, admin)
		c.Next()
	}
}

// CurrentAdmin returns the identity stored by RequireBearer.
func CurrentAdmin(c *gin.Context) (*model.AdminIdentity, bool) {
	v, ok := c.Get(AdminKey)
	if !ok {
		return nil, false
	}
	admin, ok := v.(*model.AdminIdentity)
	return admin, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", wwwAuthenticateChallenge)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		model.NewErrorResponse(CodeUnauthorized, message, nil, GetRequestID(c)))
}
