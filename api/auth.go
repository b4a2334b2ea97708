package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	apierrors "github.com/abya-university/ABYA-Ecosystem-sub001/errors"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/stringutil"
	"github.com/abya-university/ABYA-Ecosystem-sub001/wallet"
)

type ctxKey int

const callerKey ctxKey = iota

// CallerFrom returns the authenticated caller stored by the auth middleware
func CallerFrom(ctx context.Context) (common.Address, bool) {
	addr, ok := ctx.Value(callerKey).(common.Address)
	return addr, ok
}

// replayCache remembers caller nonces until the signed timestamp could no
// longer pass the skew check
type replayCache struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func newReplayCache() *replayCache {
	return &replayCache{seen: make(map[string]time.Time)}
}

// remember returns false if key was already used
func (c *replayCache) remember(key string, now time.Time, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, exp := range c.seen {
		if now.After(exp) {
			delete(c.seen, k)
		}
	}
	if _, dup := c.seen[key]; dup {
		return false
	}
	c.seen[key] = now.Add(ttl)
	return true
}

// authenticate verifies the signature headers, enforces the per-caller rate
// limit and hands the caller address to the next handler
func (s *Server) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
		if err != nil {
			writeErrorResponse(w, http.StatusRequestEntityTooLarge, apierrors.ErrCodeBodyTooLarge,
				fmt.Sprintf(apierrors.ErrMsgBodyTooLarge, s.opts.MaxBodyBytes))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		caller, err := common.ParseAddress(r.Header.Get(HeaderAddress))
		if err != nil {
			writeErrorResponse(w, http.StatusUnauthorized, apierrors.ErrCodeInvalidSignature, "missing or invalid "+HeaderAddress)
			return
		}
		ts, err := strconv.ParseInt(r.Header.Get(HeaderTimestamp), 10, 64)
		if err != nil {
			writeErrorResponse(w, http.StatusUnauthorized, apierrors.ErrCodeInvalidSignature, "missing or invalid "+HeaderTimestamp)
			return
		}

		now := s.now()
		skew := now.Sub(time.Unix(ts, 0))
		if skew < 0 {
			skew = -skew
		}
		if skew > s.opts.MaxClockSkew {
			writeErrorResponse(w, http.StatusUnauthorized, apierrors.ErrCodeStaleRequest, apierrors.ErrMsgStaleRequest)
			return
		}

		nonce := r.Header.Get(HeaderNonce)
		if _, err := uuid.Parse(nonce); err != nil {
			writeErrorResponse(w, http.StatusUnauthorized, apierrors.ErrCodeInvalidSignature, "missing or invalid "+HeaderNonce)
			return
		}

		sig := r.Header.Get(HeaderSignature)
		if err := wallet.VerifyAction(caller, sig, r.Method, r.URL.Path, ts, nonce, body); err != nil {
			logx.Warn("API", fmt.Sprintf("rejected signature for %s %s: %v", r.Method, r.URL.Path, err))
			writeErrorResponse(w, http.StatusUnauthorized, apierrors.ErrCodeInvalidSignature, apierrors.ErrMsgInvalidSignature)
			return
		}
		if !s.replays.remember(caller.String()+":"+nonce, now, 2*s.opts.MaxClockSkew) {
			logx.Warn("API", "replayed nonce ", nonce, " from ", caller, " sig ", stringutil.ShortenLog(sig))
			writeErrorResponse(w, http.StatusUnauthorized, apierrors.ErrCodeInvalidSignature, "nonce already used")
			return
		}

		if !s.limiter.Allow(caller.String()) {
			logx.Warn("API", "rate limit exceeded for ", caller)
			writeErrorResponse(w, http.StatusTooManyRequests, apierrors.ErrCodeRateLimited, apierrors.ErrMsgRateLimited)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), callerKey, caller)))
	}
}

// limitByIP applies the rate limit to unauthenticated reads
func (s *Server) limitByIP(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow("ip:" + clientIP(r)) {
			writeErrorResponse(w, http.StatusTooManyRequests, apierrors.ErrCodeRateLimited, apierrors.ErrMsgRateLimited)
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
