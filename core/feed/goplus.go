package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tokenscope/memebot/core/model"
)

// GoPlusClient queries the token security API. Callers treat any error as
// "unverified"; this client never maps a failure to a safe verdict.
type GoPlusClient struct {
	http *resty.Client
}

func NewGoPlusClient(baseURL string, timeout time.Duration) *GoPlusClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &GoPlusClient{http: client}
}

type goPlusToken struct {
	Mintable struct {
		Status string `json:"status"`
	} `json:"mintable"`
	Freezable struct {
		Status string `json:"status"`
	} `json:"freezable"`
	NonTransferable    string `json:"non_transferable"`
	TransferFeeUpgrade string `json:"transfer_fee_upgradable"`
	BalanceMutable     struct {
		Status string `json:"status"`
	} `json:"balance_mutable_authority"`
	ClosableAuthority struct {
		Status string `json:"status"`
	} `json:"closable"`
}

type goPlusResponse struct {
	Code   int                    `json:"code"`
	Result map[string]goPlusToken `json:"result"`
}

func (c *GoPlusClient) CheckSecurity(ctx context.Context, tokenID string) (*model.SecurityReport, error) {
	var out goPlusResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("contract_addresses", tokenID).
		SetResult(&out).
		Get("/api/v1/solana/token_security")
	if err != nil {
		return nil, fmt.Errorf("goplus request failed, %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("goplus request failed, %s", resp.Status())
	}
	if out.Code != 1 {
		return nil, fmt.Errorf("goplus returned code %d for %s", out.Code, tokenID)
	}

	token, ok := out.Result[tokenID]
	if !ok {
		return nil, fmt.Errorf("goplus has no result for %s", tokenID)
	}

	switch {
	case token.Mintable.Status == "1":
		return &model.SecurityReport{Safe: false, Reason: "mint authority active"}, nil
	case token.Freezable.Status == "1":
		return &model.SecurityReport{Safe: false, Reason: "freeze authority active"}, nil
	case token.NonTransferable == "1":
		return &model.SecurityReport{Safe: false, Reason: "token is non-transferable"}, nil
	case token.TransferFeeUpgrade == "1":
		return &model.SecurityReport{Safe: false, Reason: "transfer fee is upgradable"}, nil
	case token.BalanceMutable.Status == "1":
		return &model.SecurityReport{Safe: false, Reason: "balances mutable by authority"}, nil
	case token.ClosableAuthority.Status == "1":
		return &model.SecurityReport{Safe: false, Reason: "token account closable by authority"}, nil
	}

	return &model.SecurityReport{Safe: true}, nil
}
