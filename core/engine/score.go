package engine

import (
	"fmt"
	"strings"

	"github.com/tokenscope/memebot/core/model"
)

const (
	fakePumpScoreCap      = 4
	minVolume5mUsd        = 1000
	organicChangePercent  = 30
	organicMinBuyRatio    = 0.5
	pressureMinTxns       = 10
	pressureMinBuyRatio   = 0.6
	volatilityLiqMultiple = 3
)

// ScoringEngine produces the mechanical score. Purely additive point
// accumulation with a full breakdown; the only non-additive rule is the
// fake-pump cap, tracked on ScoreResult.Capped.
type ScoringEngine struct {
	minMarketCap float64
	maxMarketCap float64
	minLiquidity float64
}

func NewScoringEngine(minMarketCap, maxMarketCap, minLiquidity float64) *ScoringEngine {
	return &ScoringEngine{
		minMarketCap: minMarketCap,
		maxMarketCap: maxMarketCap,
		minLiquidity: minLiquidity,
	}
}

// MatchWatchlist reports whether the token name or symbol contains one of
// the curated watchlist phrases.
func MatchWatchlist(tok *model.TokenSnapshot, watchlist []string) bool {
	text := strings.ToLower(tok.Name + " " + tok.Symbol)
	for _, phrase := range watchlist {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" && strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func (e *ScoringEngine) Score(tok *model.TokenSnapshot, watchlistMatch bool) *model.ScoreResult {
	res := &model.ScoreResult{Phase: model.PhaseSpotted}

	if watchlistMatch {
		res.Add("watchlist_match", 10, "name/symbol on watchlist")
	}

	mc := tok.MarketCapUsd
	switch {
	case mc >= e.minMarketCap && mc <= e.maxMarketCap:
		res.Add("mc_sweet_spot", 2, fmt.Sprintf("mc $%.0f in [%.0f, %.0f]", mc, e.minMarketCap, e.maxMarketCap))
	case mc > e.maxMarketCap*2 && !watchlistMatch:
		res.Add("mc_overheated", -2, fmt.Sprintf("mc $%.0f above 2x ceiling", mc))
	}

	if tok.LiquidityUsd >= e.minLiquidity {
		res.Add("liquidity_ok", 2, fmt.Sprintf("liquidity $%.0f", tok.LiquidityUsd))
	} else {
		res.Add("liquidity_thin", -2, fmt.Sprintf("liquidity $%.0f", tok.LiquidityUsd))
	}

	if tok.Volume5mUsd >= minVolume5mUsd {
		res.Add("volume_5m", 2, fmt.Sprintf("$%.0f in 5m", tok.Volume5mUsd))
	}

	if tok.Volume30mUsd > 0 && tok.Volume5mUsd > (tok.Volume30mUsd/6)*2 && tok.Volume5mUsd > tok.Volume30mUsd/2 {
		res.Add("momentum", 1, fmt.Sprintf("5m $%.0f vs 30m $%.0f", tok.Volume5mUsd, tok.Volume30mUsd))
	}

	txns := tok.Buys5m + tok.Sells5m
	buyRatio := 0.0
	if txns > 0 {
		buyRatio = float64(tok.Buys5m) / float64(txns)
	}
	if txns > pressureMinTxns && buyRatio > pressureMinBuyRatio {
		res.Add("buy_pressure", 1, fmt.Sprintf("%d txns, buy ratio %.2f", txns, buyRatio))
	}

	if tok.PriceChange5m > organicChangePercent {
		if buyRatio > organicMinBuyRatio {
			res.Add("organic_pump", 1, fmt.Sprintf("+%.1f%% with buy ratio %.2f", tok.PriceChange5m, buyRatio))
		} else if res.Total > fakePumpScoreCap {
			res.Breakdown = append(res.Breakdown, model.ScoreFactor{
				Factor:  "fake_pump_cap",
				Details: fmt.Sprintf("+%.1f%% with buy ratio %.2f, score capped at %d", tok.PriceChange5m, buyRatio, fakePumpScoreCap),
			})
			res.Total = fakePumpScoreCap
			res.Capped = true
		}
	}

	if tok.Volume5mUsd > tok.LiquidityUsd*volatilityLiqMultiple {
		res.Volatile = true
	}

	res.Adjusted = res.Total

	return res
}

// AgeAdjustment is the time-decay/time-bonus curve applied after mechanical
// scoring and before the weak-score gate.
func AgeAdjustment(ageMinutes float64) int {
	ageHours := ageMinutes / 60
	switch {
	case ageHours <= 4:
		return 10
	case ageHours >= 168:
		return -30
	case ageHours >= 96:
		return -15
	case ageHours >= 48:
		return -10
	case ageHours >= 24:
		return -5
	default:
		return 0
	}
}

// AdjustForAge applies the curve and clamps the adjusted score at zero.
func AdjustForAge(res *model.ScoreResult, ageMinutes float64) int {
	res.Adjustment = AgeAdjustment(ageMinutes)
	res.Adjusted = res.Total + res.Adjustment
	if res.Adjusted < 0 {
		res.Adjusted = 0
	}
	return res.Adjusted
}
