package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"armancoffee/internal/config"
	"armancoffee/internal/domain"
	"armancoffee/internal/metrics"
	"armancoffee/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Services groups the dependencies the HTTP layer dispatches into.
type Services struct {
	Menu     *service.MenuService
	Auth     *service.AuthService
	Orders   *service.OrderService
	Payments *service.PaymentService
	Bookings *service.BookingService
	Tables   *service.TableService
	Exports  domain.ExportQueue
}

// HTTPServer exposes the REST surface of the café backend.
type HTTPServer struct {
	cfg           config.ServerConfig
	webhookSecret string
	services      Services
	server        *http.Server
	limiters      sync.Map // client key -> *rate.Limiter
	logger        *zerolog.Logger
}

func NewHTTPServer(cfg config.ServerConfig, payments config.PaymentsConfig, services Services, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:           cfg,
		webhookSecret: payments.WebhookSecret,
		services:      services,
		logger:        logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/menu", srv.handleMenu)
	mux.HandleFunc("/admin/menu/import", srv.handleMenuImport)
	mux.HandleFunc("/auth/send_otp", srv.handleSendOTP)
	mux.HandleFunc("/auth/verify_otp", srv.handleVerifyOTP)
	mux.HandleFunc("/customers/", srv.handleCustomer)
	mux.HandleFunc("/orders", srv.handleOrders)
	mux.HandleFunc("/orders/", srv.handleOrderStatus)
	mux.HandleFunc("/payments/create", srv.handlePaymentCreate)
	mux.HandleFunc("/payments/webhook", srv.handlePaymentWebhook)
	mux.HandleFunc("/bookings", srv.handleBookings)
	mux.HandleFunc("/bookings/", srv.handleBookingCancel)
	mux.HandleFunc("/tables", srv.handleTables)
	mux.HandleFunc("/tables/status", srv.handleTableStatus)
	mux.HandleFunc("/admin/tables", srv.handleAdminTables)
	mux.HandleFunc("/admin/export/", srv.handleAdminExport)
	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.loggingMiddleware(srv.adminAuth(srv.rateLimit(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// adminAuth protects /admin/ paths with the configured API key.
func (s *HTTPServer) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) >= 7 && r.URL.Path[:7] == "/admin/" {
			if s.cfg.AdminAPIKey == "" {
				writeError(w, http.StatusForbidden, "admin api key is not configured")
				return
			}
			key := r.Header.Get(s.cfg.HeaderKey)
			if subtle.ConstantTimeCompare([]byte(key), []byte(s.cfg.AdminAPIKey)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid api key")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimit.RPS > 0 {
			lim := s.getLimiter(s.clientKey(r))
			if !lim.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) clientKey(r *http.Request) string {
	if key := r.Header.Get(s.cfg.HeaderKey); key != "" {
		return key
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (s *HTTPServer) getLimiter(key string) *rate.Limiter {
	if v, ok := s.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := s.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(s.cfg.RateLimit.RPS), burst)
	actual, loaded := s.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)
		metrics.IncHTTP(r.URL.Path, strconv.Itoa(recorder.status))
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
