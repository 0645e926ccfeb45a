package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/go-resty/resty/v2"
	"github.com/tokenscope/memebot/core/model"
	"github.com/tokenscope/memebot/core/redis"
)

const detailCacheTTL = time.Minute

// BirdeyeClient fetches per-token holder and authority details. A short
// redis TTL cache fronts the API so retried tokens inside the same minute do
// not burn quota.
type BirdeyeClient struct {
	http  *resty.Client
	cache *goredis.Client
}

func NewBirdeyeClient(baseURL, apiKey string, timeout time.Duration, cache *goredis.Client) *BirdeyeClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-API-KEY", apiKey).
		SetHeader("x-chain", "solana")
	return &BirdeyeClient{http: client, cache: cache}
}

type birdeyeSecurity struct {
	Data struct {
		HolderCount     int     `json:"holderCount"`
		Top10HolderRate float64 `json:"top10HolderRate"`
		MintAuthority   *string `json:"mintAuthority"`
		FreezeAuthority *string `json:"freezeAuthority"`
		LpBurnedRate    float64 `json:"lpBurnedRate"`
	} `json:"data"`
	Success bool `json:"success"`
}

func (c *BirdeyeClient) FetchDetails(ctx context.Context, tokenID string) (*model.TokenDetails, error) {
	key := fmt.Sprintf("meta:details:%s", tokenID)
	if c.cache != nil {
		if cached, err := redis.Get(ctx, c.cache, key); err == nil {
			var details model.TokenDetails
			if err := json.Unmarshal([]byte(cached), &details); err == nil {
				return &details, nil
			}
		}
	}

	var out birdeyeSecurity
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("address", tokenID).
		SetResult(&out).
		Get("/defi/token_security")
	if err != nil {
		return nil, fmt.Errorf("birdeye get failed, { %v }", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("birdeye get failed, %s", resp.Status())
	}
	if !out.Success {
		return nil, fmt.Errorf("birdeye returned unsuccessful payload for %s", tokenID)
	}

	details := &model.TokenDetails{
		HolderCount:            out.Data.HolderCount,
		Top10Percent:           out.Data.Top10HolderRate * 100,
		IsMintable:             out.Data.MintAuthority != nil,
		IsFreezable:            out.Data.FreezeAuthority != nil,
		LiquidityBurnedPercent: out.Data.LpBurnedRate * 100,
	}

	if c.cache != nil {
		if bt, err := json.Marshal(details); err == nil {
			_ = redis.Set(ctx, c.cache, key, string(bt), detailCacheTTL)
		}
	}

	return details, nil
}
