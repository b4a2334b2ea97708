package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/abya-university/ABYA-Ecosystem-sub001/api"
	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/treasury"
	"github.com/abya-university/ABYA-Ecosystem-sub001/types"
)

func (c *TreasuryClient) CheckHealth(ctx context.Context) (*api.HealthResponse, error) {
	var out api.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TreasuryClient) ListTrustees(ctx context.Context) (*api.TrusteesResponse, error) {
	var out api.TrusteesResponse
	if err := c.do(ctx, http.MethodGet, "/trustees", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TreasuryClient) AddTrustee(ctx context.Context, trustee common.Address) error {
	return c.do(ctx, http.MethodPost, "/trustees", api.AddressRequest{Address: trustee.String()}, nil, true)
}

func (c *TreasuryClient) RevokeTrustee(ctx context.Context, trustee common.Address) error {
	return c.do(ctx, http.MethodDelete, "/trustees/"+trustee.String(), nil, nil, true)
}

func (c *TreasuryClient) GrantTreasurer(ctx context.Context, account common.Address) error {
	return c.do(ctx, http.MethodPost, "/roles/treasurer", api.AddressRequest{Address: account.String()}, nil, true)
}

func (c *TreasuryClient) RevokeTreasurer(ctx context.Context, account common.Address) error {
	return c.do(ctx, http.MethodDelete, "/roles/treasurer/"+account.String(), nil, nil, true)
}

func (c *TreasuryClient) RequestFunding(ctx context.Context, recipient common.Address, amount, purpose string) (*types.FundingRequestView, error) {
	var out types.FundingRequestView
	body := api.FundingRequestBody{Recipient: recipient.String(), Amount: amount, Purpose: purpose}
	if err := c.do(ctx, http.MethodPost, "/funding-requests", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TreasuryClient) ApproveFundingRequest(ctx context.Context, id uint64) (*types.FundingRequestView, error) {
	var out types.FundingRequestView
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/funding-requests/%d/approve", id), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TreasuryClient) GetFundingRequest(ctx context.Context, id uint64) (*types.FundingRequestView, error) {
	var out types.FundingRequestView
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/funding-requests/%d", id), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListFundingRequests lists requests, filtered by status unless it is empty
func (c *TreasuryClient) ListFundingRequests(ctx context.Context, status types.RequestStatus) ([]*types.FundingRequestView, error) {
	path := "/funding-requests"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	var out api.FundingRequestsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out, false); err != nil {
		return nil, err
	}
	return out.Requests, nil
}

func (c *TreasuryClient) AllocateFunds(ctx context.Context, recipient common.Address, amount, category string) (*types.PoolState, error) {
	var out types.PoolState
	body := api.AllocationRequest{Recipient: recipient.String(), Amount: amount, Category: category}
	if err := c.do(ctx, http.MethodPost, "/allocations", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TreasuryClient) DepositReserve(ctx context.Context, amount string) (*types.PoolState, error) {
	var out types.PoolState
	if err := c.do(ctx, http.MethodPost, "/reserve/deposit", api.DepositRequest{Amount: amount}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TreasuryClient) ViewPoolDetails(ctx context.Context) (*types.PoolState, error) {
	var out types.PoolState
	if err := c.do(ctx, http.MethodGet, "/pool", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TreasuryClient) GetAccount(ctx context.Context, addr common.Address) (*api.AccountResponse, error) {
	var out api.AccountResponse
	if err := c.do(ctx, http.MethodGet, "/accounts/"+addr.String(), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TreasuryClient) CreateVestingSchedule(ctx context.Context, req api.VestingRequest) (*treasury.VestingView, error) {
	var out treasury.VestingView
	if err := c.do(ctx, http.MethodPost, "/vesting", req, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TreasuryClient) GetVestingSchedule(ctx context.Context, id uint64) (*treasury.VestingView, error) {
	var out treasury.VestingView
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/vesting/%d", id), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TreasuryClient) ReleaseVested(ctx context.Context, id uint64) (*api.AmountResponse, error) {
	var out api.AmountResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/vesting/%d/release", id), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TreasuryClient) RevokeVesting(ctx context.Context, id uint64) (*api.AmountResponse, error) {
	var out api.AmountResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/vesting/%d/revoke", id), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}
