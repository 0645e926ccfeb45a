package model

import (
	"time"

	"github.com/uptrace/bun"
)

// SeenTokenRecord is the persisted alert history for one token. FirstSeenAt
// is written once and never overwritten; the last_* columns are replaced on
// every alert.
type SeenTokenRecord struct {
	bun.BaseModel `bun:"table:meme_seen_tokens,alias:mst"`

	TokenAddress string    `bun:"token_address,pk,notnull"`
	FirstSeenAt  time.Time `bun:"first_seen_at,notnull"`
	LastAlertAt  time.Time `bun:"last_alert_at,nullzero"`
	LastScore    int       `bun:"last_score"`
	LastPhase    string    `bun:"last_phase"`
	LastPrice    float64   `bun:"last_price"`
	Analysis     string    `bun:"analysis"`
	RawSnapshot  string    `bun:"raw_snapshot"`
}

// TokenPerformance is one row per emitted alert, used to grade the signal
// afterwards against realized price action.
type TokenPerformance struct {
	bun.BaseModel `bun:"table:meme_token_performance,alias:mtp"`

	TokenAddress   string    `bun:"token_address,pk,notnull"`
	TokenSymbol    string    `bun:"token_symbol"`
	AlertAt        time.Time `bun:"alert_at,pk,notnull"`
	AlertPrice     float64   `bun:"alert_price"`
	AlertMarketCap float64   `bun:"alert_market_cap"`
	Score          int       `bun:"score"`
	VibeScore      int       `bun:"vibe_score"`
	Phase          string    `bun:"phase"`
}
