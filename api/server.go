package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	apierrors "github.com/abya-university/ABYA-Ecosystem-sub001/errors"
	"github.com/abya-university/ABYA-Ecosystem-sub001/exception"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/monitoring"
	"github.com/abya-university/ABYA-Ecosystem-sub001/ratelimit"
	"github.com/abya-university/ABYA-Ecosystem-sub001/treasury"
)

type Options struct {
	RateLimit    int
	RateWindow   time.Duration
	MaxClockSkew time.Duration
	MaxBodyBytes int64
}

func DefaultOptions() Options {
	return Options{
		RateLimit:    60,
		RateWindow:   time.Minute,
		MaxClockSkew: 5 * time.Minute,
		MaxBodyBytes: 1 << 20,
	}
}

// Server exposes the treasury service over HTTP
type Server struct {
	svc     *treasury.Service
	opts    Options
	router  *mux.Router
	limiter *ratelimit.RateLimiter
	replays *replayCache
	now     func() time.Time

	httpServer *http.Server
}

func NewServer(svc *treasury.Service, opts Options) *Server {
	s := &Server{
		svc:  svc,
		opts: opts,
		limiter: ratelimit.NewRateLimiter(&ratelimit.RateLimiterConfig{
			MaxRequests:     opts.RateLimit,
			WindowSize:      opts.RateWindow,
			CleanupInterval: 5 * time.Minute,
		}),
		replays: newReplayCache(),
		now:     time.Now,
		router:  mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.observeRequests)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusNotFound, apierrors.ErrCodeNotFound, apierrors.ErrMsgNotFound)
	})

	v1 := s.router.PathPrefix(PathPrefix).Subrouter()
	v1.HandleFunc("/health", s.health).Methods(http.MethodGet)

	// Trustee registry
	v1.HandleFunc("/trustees", s.limitByIP(s.listTrustees)).Methods(http.MethodGet)
	v1.HandleFunc("/trustees", s.authenticate(s.addTrustee)).Methods(http.MethodPost)
	v1.HandleFunc("/trustees/{address}", s.authenticate(s.revokeTrustee)).Methods(http.MethodDelete)
	v1.HandleFunc("/roles/treasurer", s.authenticate(s.grantTreasurer)).Methods(http.MethodPost)
	v1.HandleFunc("/roles/treasurer/{address}", s.authenticate(s.revokeTreasurer)).Methods(http.MethodDelete)

	// Funding requests
	v1.HandleFunc("/funding-requests", s.limitByIP(s.listFundingRequests)).Methods(http.MethodGet)
	v1.HandleFunc("/funding-requests", s.authenticate(s.requestFunding)).Methods(http.MethodPost)
	v1.HandleFunc("/funding-requests/{id:[0-9]+}", s.limitByIP(s.getFundingRequest)).Methods(http.MethodGet)
	v1.HandleFunc("/funding-requests/{id:[0-9]+}/approve", s.authenticate(s.approveFundingRequest)).Methods(http.MethodPost)

	// Pool accounting
	v1.HandleFunc("/allocations", s.authenticate(s.allocateFunds)).Methods(http.MethodPost)
	v1.HandleFunc("/reserve/deposit", s.authenticate(s.depositReserve)).Methods(http.MethodPost)
	v1.HandleFunc("/pool", s.limitByIP(s.viewPool)).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{address}", s.limitByIP(s.getAccount)).Methods(http.MethodGet)

	// Vesting
	v1.HandleFunc("/vesting", s.authenticate(s.createVesting)).Methods(http.MethodPost)
	v1.HandleFunc("/vesting/{id:[0-9]+}", s.limitByIP(s.getVesting)).Methods(http.MethodGet)
	v1.HandleFunc("/vesting/{id:[0-9]+}/release", s.authenticate(s.releaseVesting)).Methods(http.MethodPost)
	v1.HandleFunc("/vesting/{id:[0-9]+}/revoke", s.authenticate(s.revokeVesting)).Methods(http.MethodPost)
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves in the background until Shutdown
func (s *Server) Start(addr string) {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logx.Info("API", "listening on ", addr)
	exception.SafeGo("api-server", func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("API", "server stopped: ", err)
		}
	})
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		monitoring.ObserveAPIRequest(r.Method+" "+route, strconv.Itoa(rec.status), time.Since(start))
		logx.Debug("API", fmt.Sprintf("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start)))
	})
}
