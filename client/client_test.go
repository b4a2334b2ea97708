package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abya-university/ABYA-Ecosystem-sub001/api"
	apierrors "github.com/abya-university/ABYA-Ecosystem-sub001/errors"
	"github.com/abya-university/ABYA-Ecosystem-sub001/wallet"
)

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	assert.Error(t, err)

	c, err := NewClient(Config{Endpoint: "http://localhost:8080/"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v1/pool", c.url("/pool"))
}

func TestSignedCallRequiresWallet(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	c, err := NewClient(Config{Endpoint: ts.URL}, nil)
	require.NoError(t, err)

	_, err = c.DepositReserve(context.Background(), "10")
	assert.Error(t, err)
	assert.False(t, called, "unsigned mutation must not reach the server")
}

func TestRequestsAreSigned(t *testing.T) {
	w, err := wallet.NewWallet()
	require.NoError(t, err)
	fixed := time.Unix(1700000000, 0)
	var nonces []string

	ts := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		nonce := r.Header.Get(api.HeaderNonce)
		_, err = uuid.Parse(nonce)
		assert.NoError(t, err, "nonce is a uuid")
		nonces = append(nonces, nonce)

		assert.Equal(t, w.Address.String(), r.Header.Get(api.HeaderAddress))
		assert.Equal(t, strconv.FormatInt(fixed.Unix(), 10), r.Header.Get(api.HeaderTimestamp))
		assert.Equal(t, "/api/v1/trustees", r.URL.Path)
		assert.NoError(t, wallet.VerifyAction(w.Address, r.Header.Get(api.HeaderSignature),
			r.Method, r.URL.Path, fixed.Unix(), nonce, body))
		rw.WriteHeader(http.StatusCreated)
		_, _ = rw.Write([]byte(`{"status":"ok"}`))
	}))
	defer ts.Close()

	c, err := NewClient(Config{Endpoint: ts.URL}, w)
	require.NoError(t, err)
	c.now = func() time.Time { return fixed }

	require.NoError(t, c.AddTrustee(context.Background(), w.Address))
	require.NoError(t, c.AddTrustee(context.Background(), w.Address))
	require.Len(t, nonces, 2)
	assert.NotEqual(t, nonces[0], nonces[1], "identical calls in the same second get fresh nonces")
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode apierrors.APIErrorCode
	}{
		{"treasury conflict", http.StatusConflict, `{"code":"conflict","message":"Already voted"}`, apierrors.ErrCodeConflict},
		{"rate limited", http.StatusTooManyRequests, `{"code":"rate_limited","message":"slow down"}`, apierrors.ErrCodeRateLimited},
		{"plain text", http.StatusBadGateway, "bad gateway", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c, err := NewClient(Config{Endpoint: ts.URL}, nil)
			require.NoError(t, err)

			_, err = c.ViewPoolDetails(context.Background())
			require.Error(t, err)

			var apiErr *apierrors.APIError
			if tt.wantCode == "" {
				assert.False(t, errors.As(err, &apiErr))
				assert.Contains(t, err.Error(), "502")
				return
			}
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}
