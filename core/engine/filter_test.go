package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFilter(now time.Time) *HardFilter {
	f := NewHardFilter([]string{"scam", "rug"})
	f.now = fixedClock(now)
	return f
}

func TestHardFilterPassesHealthyToken(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	res := f.Evaluate(goodSnapshot(now))
	assert.True(t, res.Passed)
	assert.Empty(t, res.Reason)
}

func TestHardFilterLiquidityTooLow(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	tok := goodSnapshot(now)
	tok.LiquidityUsd = 3000

	res := f.Evaluate(tok)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonLiquidityTooLow, res.Reason)
}

func TestHardFilterSafeZonePass(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	// ratio 20%, age 30 min, 40 holders, lp burned
	tok := goodSnapshot(now)
	tok.MarketCapUsd = 50000
	tok.LiquidityUsd = 10000
	tok.HolderCount = 40
	tok.LpBurned = true

	res := f.Evaluate(tok)
	assert.True(t, res.Passed)
}

func TestHardFilterFakePumpBeforeScoring(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	tok := goodSnapshot(now)
	tok.PriceChange5m = 45
	tok.Buys5m = 3

	res := f.Evaluate(tok)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonFakePump, res.Reason)
}

func TestHardFilterBlacklist(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	tok := goodSnapshot(now)
	tok.Name = "Totally Not A Rug"

	res := f.Evaluate(tok)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonBlacklistedName, res.Reason)
}

func TestHardFilterAgeBounds(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	young := goodSnapshot(now)
	young.CreatedAt = now.Add(-10 * time.Minute)
	res := f.Evaluate(young)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonTooYoung, res.Reason)

	old := goodSnapshot(now)
	old.CreatedAt = now.Add(-25 * time.Hour)
	res = f.Evaluate(old)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonTooOld, res.Reason)
}

func TestHardFilterRatioGates(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	high := goodSnapshot(now)
	high.MarketCapUsd = 10000
	high.LiquidityUsd = 9500
	res := f.Evaluate(high)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonLiqMcRatioTooHigh, res.Reason)

	low := goodSnapshot(now)
	low.MarketCapUsd = 400000
	low.LiquidityUsd = 8000 // ratio 2%
	res = f.Evaluate(low)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonLiqMcRatioTooLow, res.Reason)

	// 8% ratio sits in the safe zone but below the $20k floor
	zone := goodSnapshot(now)
	zone.MarketCapUsd = 100000
	zone.LiquidityUsd = 8000
	res = f.Evaluate(zone)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonLowLiqInSafeZone, res.Reason)

	// zero market cap means ratio 0, caught as too low
	zero := goodSnapshot(now)
	zero.MarketCapUsd = 0
	res = f.Evaluate(zero)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonLiqMcRatioTooLow, res.Reason)
}

func TestHardFilterMarketCapBounds(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	big := goodSnapshot(now)
	big.MarketCapUsd = 600000
	big.LiquidityUsd = 60000 // keep ratio at 10%
	res := f.Evaluate(big)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonMcTooHigh, res.Reason)
}

func TestHardFilterSecurityFlags(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	tok := goodSnapshot(now)
	tok.IsMintable = true
	res := f.Evaluate(tok)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonMintableOrPause, res.Reason)
}

func TestHardFilterWhaleTrap(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	tok := goodSnapshot(now)
	tok.Top10HoldersPercent = 65
	res := f.Evaluate(tok)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonWhaleTrap, res.Reason)
}

func TestHardFilterHolderFloorByAge(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	// 30 min old: floor is 30
	young := goodSnapshot(now)
	young.HolderCount = 29
	res := f.Evaluate(young)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonNotEnoughHolders, res.Reason)

	// two hours old: floor rises to 50
	settled := goodSnapshot(now)
	settled.CreatedAt = now.Add(-2 * time.Hour)
	settled.HolderCount = 40
	res = f.Evaluate(settled)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonNotEnoughHolders, res.Reason)
}

func TestHardFilterRugRiskFallback(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	tok := goodSnapshot(now)
	tok.LpBurned = false
	tok.LpLockedPercent = 10
	tok.Top10HoldersPercent = 30 // not dispersed enough
	res := f.Evaluate(tok)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonRugRiskLowLock, res.Reason)

	// dispersed holders rescue an unlocked pool
	dispersed := goodSnapshot(now)
	dispersed.LpBurned = false
	dispersed.LpLockedPercent = 0
	dispersed.Top10HoldersPercent = 20
	dispersed.HolderCount = 150
	res = f.Evaluate(dispersed)
	assert.True(t, res.Passed)
}

func TestHardFilterReportsFirstFailingGate(t *testing.T) {
	now := time.Now()
	f := newTestFilter(now)

	// fails both liquidity and whale gates; liquidity comes first
	tok := goodSnapshot(now)
	tok.LiquidityUsd = 1000
	tok.Top10HoldersPercent = 90

	res := f.Evaluate(tok)
	require.False(t, res.Passed)
	assert.Equal(t, ReasonLiquidityTooLow, res.Reason)
}
