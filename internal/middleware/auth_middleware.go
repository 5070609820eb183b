package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminUIDKey is the gin context key holding the authenticated admin id.
const AdminUIDKey = "adminUID"

var (
	errNotAdmin          = errors.New("token does not carry the admin claim")
	errInvalidToken      = errors.New("invalid token")
	errAuthNotConfigured = errors.New("admin authentication is not configured")
)

// TokenVerifier checks an admin bearer token and returns the admin id.
type TokenVerifier interface {
	VerifyAdmin(ctx context.Context, token string) (string, error)
}

// FirebaseVerifier accepts Firebase ID tokens with the custom claim admin=true.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) VerifyAdmin(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	if isAdmin, _ := token.Claims["admin"].(bool); !isAdmin {
		return "", errNotAdmin
	}
	return token.UID, nil
}

// StaticTokenVerifier accepts one shared operator token.
type StaticTokenVerifier struct {
	token []byte
}

func NewStaticTokenVerifier(token string) *StaticTokenVerifier {
	return &StaticTokenVerifier{token: []byte(token)}
}

func (v *StaticTokenVerifier) VerifyAdmin(_ context.Context, token string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(token), v.token) != 1 {
		return "", errInvalidToken
	}
	return "operator", nil
}

type denyAll struct{}

func (denyAll) VerifyAdmin(context.Context, string) (string, error) {
	return "", errAuthNotConfigured
}

// AuthMiddleware guards admin routes with a bearer token.
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates an AuthMiddleware. A nil verifier rejects
// every request.
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		verifier = denyAll{}
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// RequireAdmin verifies the Authorization header and stores the admin id
// under AdminUIDKey.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Authorization header format must be 'Bearer {token}'")
			return
		}

		uid, err := m.verifier.VerifyAdmin(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Warn("Admin token rejected", zap.String("client_ip", c.ClientIP()), zap.Error(err))
			if errors.Is(err, errNotAdmin) {
				abortWithError(c, http.StatusForbidden, "forbidden", "Admin access required")
				return
			}
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired authentication token")
			return
		}

		c.Set(AdminUIDKey, uid)
		c.Next()
	}
}
