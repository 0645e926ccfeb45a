package feed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tokenscope/memebot/core/model"
)

// DexScreenerClient polls the pair search API for fresh solana pairs and
// maps them into snapshots. Best effort: callers treat an error as an empty
// candidate set.
type DexScreenerClient struct {
	http *resty.Client
}

func NewDexScreenerClient(baseURL string, timeout time.Duration) *DexScreenerClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &DexScreenerClient{http: client}
}

type dexPairTxns struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

type dexPair struct {
	ChainID   string `json:"chainId"`
	PairAddr  string `json:"pairAddress"`
	BaseToken struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUsd  string `json:"priceUsd"`
	Liquidity struct {
		Usd float64 `json:"usd"`
	} `json:"liquidity"`
	MarketCap float64 `json:"marketCap"`
	Fdv       float64 `json:"fdv"`
	Volume    struct {
		M5  float64 `json:"m5"`
		H1  float64 `json:"h1"`
		H24 float64 `json:"h24"`
	} `json:"volume"`
	Txns struct {
		M5 dexPairTxns `json:"m5"`
		H1 dexPairTxns `json:"h1"`
	} `json:"txns"`
	PriceChange struct {
		M5 float64 `json:"m5"`
		H1 float64 `json:"h1"`
	} `json:"priceChange"`
	PairCreatedAt int64  `json:"pairCreatedAt"`
	URL           string `json:"url"`
}

type dexSearchResponse struct {
	Pairs []dexPair `json:"pairs"`
}

func (c *DexScreenerClient) FetchCandidates(ctx context.Context) ([]model.TokenSnapshot, error) {
	var out dexSearchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", "solana").
		SetResult(&out).
		Get("/latest/dex/search")
	if err != nil {
		return nil, fmt.Errorf("dexscreener search failed, %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("dexscreener search failed, %s", resp.Status())
	}

	now := time.Now()
	snapshots := make([]model.TokenSnapshot, 0, len(out.Pairs))
	for _, pair := range out.Pairs {
		if pair.ChainID != "solana" || pair.BaseToken.Address == "" {
			continue
		}
		snapshots = append(snapshots, mapPair(pair, now))
	}
	return snapshots, nil
}

func mapPair(pair dexPair, now time.Time) model.TokenSnapshot {
	price, _ := strconv.ParseFloat(pair.PriceUsd, 64)

	mc := pair.MarketCap
	if mc == 0 {
		mc = pair.Fdv
	}

	// the API exposes m5 and h1 volume; the 30m figure is approximated as
	// half the hourly one
	tok := model.TokenSnapshot{
		Address:       pair.BaseToken.Address,
		Name:          pair.BaseToken.Name,
		Symbol:        pair.BaseToken.Symbol,
		PriceUsd:      price,
		MarketCapUsd:  mc,
		LiquidityUsd:  pair.Liquidity.Usd,
		Volume5mUsd:   pair.Volume.M5,
		Volume30mUsd:  pair.Volume.H1 / 2,
		Buys5m:        pair.Txns.M5.Buys,
		Sells5m:       pair.Txns.M5.Sells,
		PriceChange5m: pair.PriceChange.M5,
		PriceChange1h: pair.PriceChange.H1,
		ObservedAt:    now,
	}
	if pair.PairCreatedAt > 0 {
		tok.CreatedAt = time.UnixMilli(pair.PairCreatedAt)
	}
	if pair.URL != "" {
		tok.Links = append(tok.Links, model.TokenLink{Label: "Chart", URL: pair.URL})
	}
	return tok
}
