package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abya-university/ABYA-Ecosystem-sub001/api"
	apierrors "github.com/abya-university/ABYA-Ecosystem-sub001/errors"
	"github.com/abya-university/ABYA-Ecosystem-sub001/jsonx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/wallet"
)

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// TreasuryClient calls the treasury HTTP API. Mutating calls are signed with
// the configured wallet; reads need none.
type TreasuryClient struct {
	cfg    Config
	http   *http.Client
	signer *wallet.Wallet
	now    func() time.Time
}

func NewClient(cfg Config, signer *wallet.Wallet) (*TreasuryClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &TreasuryClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		signer: signer,
		now:    time.Now,
	}, nil
}

func (c *TreasuryClient) url(path string) string {
	return strings.TrimRight(c.cfg.Endpoint, "/") + api.PathPrefix + path
}

// do sends the request and decodes a JSON response into out. Non-2xx
// responses come back as *errors.APIError.
func (c *TreasuryClient) do(ctx context.Context, method, path string, in, out interface{}, signed bool) error {
	var body []byte
	if in != nil {
		data, err := jsonx.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = data
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if signed {
		if c.signer == nil {
			return fmt.Errorf("%s %s requires a signing wallet", method, path)
		}
		ts := c.now().Unix()
		nonce := uuid.NewString()
		req.Header.Set(api.HeaderAddress, c.signer.Address.String())
		req.Header.Set(api.HeaderTimestamp, strconv.FormatInt(ts, 10))
		req.Header.Set(api.HeaderNonce, nonce)
		req.Header.Set(api.HeaderSignature, c.signer.SignAction(method, req.URL.Path, ts, nonce, body))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr apierrors.APIError
		if err := jsonx.Unmarshal(data, &apiErr); err != nil || apiErr.Code == "" {
			return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return &apiErr
	}

	if out == nil {
		return nil
	}
	if err := jsonx.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
