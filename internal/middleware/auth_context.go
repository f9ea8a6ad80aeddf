package middleware

import (
	"context"
	"net/http"
	"strings"

	"huella-urbana/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Headers del modo dev.
const (
	debugUserHeader = "X-Debug-User-ID"
	debugRoleHeader = "X-Debug-Role"
	debugNameHeader = "X-Debug-Username"
)

// AuthContext deja los claims en el contexto cuando los hay. Nunca corta el
// request: visitantes anónimos pueden reportar, y las rutas que exigen rol
// usan RequireRole.
//
// Con verifier nil corre en modo dev y arma los claims desde los headers
// X-Debug-*; el rol por defecto es user.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				claims auth.Claims
				ok     bool
			)
			if verifier == nil {
				claims, ok = debugClaims(r)
			} else {
				claims, ok = verifiedClaims(r, verifier)
			}

			if ok {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func debugClaims(r *http.Request) (auth.Claims, bool) {
	uid := strings.TrimSpace(r.Header.Get(debugUserHeader))
	if uid == "" {
		return auth.Claims{}, false
	}
	return auth.Claims{
		UserID:   uid,
		Username: strings.TrimSpace(r.Header.Get(debugNameHeader)),
		Role:     auth.ParseRole(r.Header.Get(debugRoleHeader)),
	}, true
}

func verifiedClaims(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}
	// token inválido => se sigue como anónimo
	claims, err := verifier.Verify(r.Context(), token)
	if err != nil {
		return auth.Claims{}, false
	}
	return claims, true
}

// WithClaims devuelve ctx con claims. Lo usan los tests y los jobs internos.
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
