package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Ani07-05/brickdash/api/responses"
	pkgauth "github.com/Ani07-05/brickdash/pkg/auth"
	"github.com/Ani07-05/brickdash/pkg/auth/session"
	"github.com/Ani07-05/brickdash/pkg/config"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

// bearerToken pulls the token out of the Authorization header. The scheme
// prefix is matched case-insensitively.
func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

// Auth validates a bearer token and seeds the request context with the
// claims. When a session checker is supplied, tokens whose jti no longer
// maps to a live session are rejected even if the signature is valid.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			switch {
			case err != nil:
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			case claims.ID == "":
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				active, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !active {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(seedIdentity(r, claims, logg)))
		})
	}
}

func seedIdentity(r *http.Request, claims *pkgauth.AccessTokenClaims, logg *logger.Logger) context.Context {
	ctx := WithUserID(r.Context(), claims.UserID.String())
	ctx = WithRole(ctx, string(claims.Role))
	ctx = WithAccessID(ctx, claims.ID)
	if claims.EmployeeID != nil {
		ctx = WithEmployeeID(ctx, *claims.EmployeeID)
	}

	if logg != nil {
		fields := map[string]any{
			"user_id":    claims.UserID.String(),
			"actor_role": string(claims.Role),
		}
		if claims.EmployeeID != nil {
			fields["employee_id"] = *claims.EmployeeID
		}
		ctx = logg.WithFields(ctx, fields)
	}
	return ctx
}
