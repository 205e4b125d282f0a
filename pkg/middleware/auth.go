package middleware

import (
	"net/http"
	"strings"

	"course-platform/internal/data/entity"
	"course-platform/internal/data/repository"
	"course-platform/pkg/token"
	"course-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionVerifier checks session tokens. *token.Manager satisfies it.
type SessionVerifier interface {
	VerifySession(tokenString string) (*token.Claims, error)
}

// AuthGuard resolves the bearer token to a user and attaches it to the request
// context. Every failure answers 401.
func AuthGuard(verifier SessionVerifier, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Extract token
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				utils.ResponseUnauthorized(w, "Missing or malformed authorization header. Use: Bearer <token>")
				return
			}

			// 2. Verify signature and expiry
			claims, err := verifier.VerifySession(tokenString)
			if err != nil {
				logger.Debug("Session token rejected", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.SubjectID)
			if err != nil {
				logger.Warn("Session token with malformed subject", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			// 3. Resolve user
			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to resolve token subject",
					zap.Error(err), zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil {
				logger.Warn("Token subject no longer exists", zap.String("user_id", userID.String()))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			// 4. Attach to context
			ctx := utils.SetUserContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when the authenticated user has
// role. It must run after AuthGuard.
func RequireRole(role entity.UserRole, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetUserFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if user.Role != role {
				logger.Warn("Role check failed",
					zap.String("user_id", user.ID.String()),
					zap.String("role", string(user.Role)),
					zap.String("required", string(role)),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Access denied: "+string(role)+" role required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, value, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " \t") {
		return "", false
	}
	return value, true
}
