package httpinterface

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/api"
	"github.com/TheCryptoChad/FioraSwap-Contracts/pkg/apitoken"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

type callerKey struct{}

func withCaller(ctx context.Context, caller common.Address) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// callerFromContext returns the authenticated caller of the request.
func callerFromContext(ctx context.Context) common.Address {
	caller, _ := ctx.Value(callerKey{}).(common.Address)
	return caller
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		return route.GetName()
	}
	return ""
}

func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func metricsMiddleware(m *metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.inFlight.Inc()
			defer m.inFlight.Dec()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					path = tpl
				}
			}
			m.recordRequest(r.Method, path, wrapped.statusCode, time.Since(start))
		})
	}
}

// rateLimitMiddleware paces the requests served to at most rps per second.
// A non positive rps disables the limit.
func rateLimitMiddleware(rps int) mux.MiddlewareFunc {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := ratelimit.New(rps)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter.Take()
			next.ServeHTTP(w, r)
		})
	}
}

// authMiddleware resolves the caller of the routes that act on its behalf.
// With noAuth the caller is taken from the caller header as is, otherwise
// it's the subject of the bearer token.
func authMiddleware(
	permissionMap map[string]string, secret []byte, noAuth bool,
) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := routeName(r)
			entity, ok := permissionMap[name]
			if !ok {
				log.Warnf("%s: unknown permissions required for route", name)
				writeError(w, errUnauthenticated)
				return
			}
			if !requiresCaller(entity) {
				next.ServeHTTP(w, r)
				return
			}

			caller, err := authenticate(r, secret, noAuth)
			if err != nil {
				log.WithError(err).Debugf("%s: authentication failed", name)
				writeError(w, errUnauthenticated)
				return
			}
			next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), caller)))
		})
	}
}

func authenticate(
	r *http.Request, secret []byte, noAuth bool,
) (common.Address, error) {
	if noAuth {
		value := r.Header.Get(api.CallerHeader)
		if !common.IsHexAddress(value) {
			return common.Address{}, errUnauthenticated
		}
		return common.HexToAddress(value), nil
	}

	header := r.Header.Get(api.AuthorizationHeader)
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" || token == header {
		return common.Address{}, errUnauthenticated
	}
	return apitoken.Parse(secret, token)
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}
