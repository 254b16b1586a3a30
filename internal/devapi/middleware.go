package devapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/validate"
)

type contextKey string

const walletKey contextKey = "wallet"

type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// RequestLogging logs every HTTP request with method, path, status, duration,
// and remote address.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start).String(),
			"size", rw.size,
			"remoteAddr", r.RemoteAddr,
		)
	})
}

// RequireWallet rejects requests without a well-formed X-Wallet-Address
// header and puts the address on the request context.
func RequireWallet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := r.Header.Get(config.WalletAddressHeader)
		if addr == "" {
			slog.Warn("request without wallet header", "path", r.URL.Path)
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		if err := validate.Address(addr); err != nil {
			slog.Warn("request with malformed wallet header", "path", r.URL.Path)
			writeDetail(w, http.StatusUnauthorized, "Invalid wallet address.")
			return
		}
		ctx := context.WithValue(r.Context(), walletKey, addr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// walletFrom returns the authenticated wallet address, or "" when the
// request went through an unauthenticated route.
func walletFrom(r *http.Request) string {
	addr, _ := r.Context().Value(walletKey).(string)
	return addr
}
