package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tokenscope/memebot/core/model"
)

func newTestScorer() *ScoringEngine {
	return NewScoringEngine(20000, 100000, 5000)
}

func breakdownSum(res *model.ScoreResult) int {
	sum := 0
	for _, f := range res.Breakdown {
		sum += f.Points
	}
	return sum
}

func TestScoreBreakdownSumsToTotal(t *testing.T) {
	now := time.Now()
	e := newTestScorer()

	res := e.Score(goodSnapshot(now), false)
	assert.Equal(t, res.Total, breakdownSum(res))
	assert.False(t, res.Capped)
}

func TestScoreWatchlistBoost(t *testing.T) {
	now := time.Now()
	e := newTestScorer()
	tok := goodSnapshot(now)

	plain := e.Score(tok, false)
	boosted := e.Score(tok, true)
	assert.Equal(t, plain.Total+10, boosted.Total)
}

func TestScoreMarketCapRules(t *testing.T) {
	now := time.Now()
	e := newTestScorer()

	sweet := goodSnapshot(now)
	sweet.MarketCapUsd = 50000
	res := e.Score(sweet, false)
	assert.Contains(t, factorNames(res), "mc_sweet_spot")

	hot := goodSnapshot(now)
	hot.MarketCapUsd = 250000
	res = e.Score(hot, false)
	assert.Contains(t, factorNames(res), "mc_overheated")

	// watchlist match skips the overheated penalty
	res = e.Score(hot, true)
	assert.NotContains(t, factorNames(res), "mc_overheated")
}

func TestScoreLiquidityPoints(t *testing.T) {
	now := time.Now()
	e := newTestScorer()

	thin := goodSnapshot(now)
	thin.LiquidityUsd = 3000
	res := e.Score(thin, false)
	assert.Contains(t, factorNames(res), "liquidity_thin")
}

func TestScoreFakePumpCap(t *testing.T) {
	now := time.Now()
	e := newTestScorer()

	tok := goodSnapshot(now)
	tok.PriceChange5m = 50
	tok.Buys5m = 4
	tok.Sells5m = 16 // buy ratio 0.2

	res := e.Score(tok, true) // watchlist pushes raw score well above 4
	assert.Equal(t, fakePumpScoreCap, res.Total)
	assert.True(t, res.Capped)
	// breakdown keeps the pre-cap audit trail
	assert.Greater(t, breakdownSum(res), res.Total)
}

func TestScoreOrganicPump(t *testing.T) {
	now := time.Now()
	e := newTestScorer()

	tok := goodSnapshot(now)
	tok.PriceChange5m = 50
	tok.Buys5m = 30
	tok.Sells5m = 10

	res := e.Score(tok, false)
	assert.Contains(t, factorNames(res), "organic_pump")
	assert.False(t, res.Capped)
}

func TestScoreVolatilityFlag(t *testing.T) {
	now := time.Now()
	e := newTestScorer()

	tok := goodSnapshot(now)
	tok.Volume5mUsd = 40000
	tok.LiquidityUsd = 10000

	res := e.Score(tok, false)
	assert.True(t, res.Volatile)
}

func TestAgeAdjustmentCurve(t *testing.T) {
	cases := []struct {
		ageHours float64
		want     int
	}{
		{1, 10},
		{4, 10},
		{12, 0},
		{24, -5},
		{48, -10},
		{96, -15},
		{168, -30},
		{400, -30},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AgeAdjustment(c.ageHours*60), "age %v hours", c.ageHours)
	}
}

func TestAdjustForAgeClampsAtZero(t *testing.T) {
	res := &model.ScoreResult{Total: 3}
	adjusted := AdjustForAge(res, 200*60) // -30
	assert.Equal(t, 0, adjusted)
	assert.Equal(t, -30, res.Adjustment)
}

func TestMatchWatchlist(t *testing.T) {
	tok := &model.TokenSnapshot{Name: "Pepe Reborn", Symbol: "PEPER"}
	assert.True(t, MatchWatchlist(tok, []string{"pepe"}))
	assert.False(t, MatchWatchlist(tok, []string{"doge"}))
	assert.False(t, MatchWatchlist(tok, nil))
}

func factorNames(res *model.ScoreResult) []string {
	names := make([]string, 0, len(res.Breakdown))
	for _, f := range res.Breakdown {
		names = append(names, f.Factor)
	}
	return names
}
