package model

import (
	"time"
)

// TokenSnapshot is one point-in-time read of a token's market, holder and
// security metrics. It is fetched, evaluated and discarded within a single
// scan cycle. Numeric fields default to zero when the upstream feed omits
// them; age is always derived from CreatedAt, never stored.
type TokenSnapshot struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`

	PriceUsd     float64 `json:"price_usd"`
	MarketCapUsd float64 `json:"market_cap_usd"`
	LiquidityUsd float64 `json:"liquidity_usd"`

	Volume5mUsd   float64 `json:"volume_5m_usd"`
	Volume30mUsd  float64 `json:"volume_30m_usd"`
	Buys5m        int     `json:"buys_5m"`
	Sells5m       int     `json:"sells_5m"`
	PriceChange5m float64 `json:"price_change_5m"`
	PriceChange1h float64 `json:"price_change_1h"`

	HolderCount         int     `json:"holder_count"`
	Top10HoldersPercent float64 `json:"top10_holders_percent"`

	IsMintable      bool    `json:"is_mintable"`
	IsFreezable     bool    `json:"is_freezable"`
	LpLockedPercent float64 `json:"lp_locked_percent"`
	LpBurned        bool    `json:"lp_burned"`

	CreatedAt  time.Time `json:"created_at"`
	ObservedAt time.Time `json:"observed_at"`

	Links []TokenLink `json:"links,omitempty"`
}

type TokenLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// AgeMinutes derives token age against the given clock reading.
func (t *TokenSnapshot) AgeMinutes(now time.Time) float64 {
	if t.CreatedAt.IsZero() {
		return 0
	}
	return now.Sub(t.CreatedAt).Minutes()
}

// TokenDetails is the holder/security enrichment fetched per surviving
// candidate, separate from the discovery feed's coarser numbers.
type TokenDetails struct {
	HolderCount            int     `json:"holder_count"`
	Top10Percent           float64 `json:"top10_percent"`
	IsMintable             bool    `json:"is_mintable"`
	IsFreezable            bool    `json:"is_freezable"`
	LiquidityBurnedPercent float64 `json:"liquidity_burned_percent"`
}

type SecurityReport struct {
	Safe   bool   `json:"safe"`
	Reason string `json:"reason,omitempty"`
}

type Tweet struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Likes  int    `json:"likes"`
}

type SocialReport struct {
	VibeScore int      `json:"vibe_score"`
	Reasoning string   `json:"reasoning"`
	RedFlags  []string `json:"red_flags,omitempty"`
}

type Phase string

const (
	PhaseSpotted  Phase = "SPOTTED"
	PhaseTracking Phase = "TRACKING"
	PhaseCooking  Phase = "COOKING"
	PhaseServed   Phase = "SERVED"
)

type ScoreFactor struct {
	Factor  string `json:"factor"`
	Points  int    `json:"points"`
	Details string `json:"details,omitempty"`
}

// ScoreResult is the mechanical score plus its audit breakdown. Breakdown
// points sum to Total at computation time; the fake-pump cap and the age
// adjustment are applied afterwards and tracked on their own fields.
type ScoreResult struct {
	Total     int           `json:"total"`
	Breakdown []ScoreFactor `json:"breakdown"`

	Capped     bool `json:"capped"`
	Adjustment int  `json:"adjustment"`
	Adjusted   int  `json:"adjusted"`

	Volatile bool `json:"volatile"`

	VibeScore int `json:"vibe_score"`
	Combined  int `json:"combined"`

	Phase Phase `json:"phase"`
}

func (r *ScoreResult) Add(factor string, points int, details string) {
	r.Breakdown = append(r.Breakdown, ScoreFactor{Factor: factor, Points: points, Details: details})
	r.Total += points
}
