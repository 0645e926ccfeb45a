package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/tokenscope/memebot/core/model"
)

// Gate thresholds. These are the governing policy for the hard filter and
// are deliberately compiled in; everything tunable per deployment lives in
// ScanConfig instead.
const (
	minAgeMinutes = 20
	maxAgeMinutes = 1440

	gateMinLiquidityUsd = 5000

	liqMcRatioMax      = 0.90
	liqMcRatioMin      = 0.05
	liqMcSafeZoneRatio = 0.10
	liqMcSafeZoneFloor = 20000

	gateMaxMarketCap = 500000
	gateMinMarketCap = 10000

	fakePumpChangePercent = 40
	fakePumpMinBuys       = 10

	whaleTop10MaxPercent = 50

	minHoldersYoung    = 30
	minHoldersSettled  = 50
	holderAgeCutoffMin = 60

	lpLockedMinPercent    = 80
	dispersedTop10Percent = 25
	dispersedMinHolders   = 100
)

// GateResult is the outcome of the hard-filter sequence. Reason is the first
// failing rule; Detail is free text for logs and the rejection cache.
type GateResult struct {
	Passed bool
	Reason RejectReason
	Detail string
}

func pass() GateResult {
	return GateResult{Passed: true}
}

func reject(reason RejectReason, detail string) GateResult {
	return GateResult{Reason: reason, Detail: detail}
}

// HardFilter applies the ordered sequence of binary gates. Checks are
// mutually orthogonal; order only decides which reason gets reported.
type HardFilter struct {
	blacklist []string
	now       func() time.Time
}

func NewHardFilter(blacklist []string) *HardFilter {
	words := make([]string, 0, len(blacklist))
	for _, w := range blacklist {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			words = append(words, w)
		}
	}
	return &HardFilter{blacklist: words, now: time.Now}
}

// Evaluate short-circuits at the first failing gate.
func (f *HardFilter) Evaluate(tok *model.TokenSnapshot) GateResult {
	text := strings.ToLower(tok.Name + " " + tok.Symbol)
	for _, word := range f.blacklist {
		if strings.Contains(text, word) {
			return reject(ReasonBlacklistedName, fmt.Sprintf("banned word %q", word))
		}
	}

	age := tok.AgeMinutes(f.now())
	if age < minAgeMinutes {
		return reject(ReasonTooYoung, fmt.Sprintf("age %.1f min", age))
	}
	if age > maxAgeMinutes {
		return reject(ReasonTooOld, fmt.Sprintf("age %.1f min", age))
	}

	if tok.LiquidityUsd < gateMinLiquidityUsd {
		return reject(ReasonLiquidityTooLow, fmt.Sprintf("liquidity $%.0f", tok.LiquidityUsd))
	}

	ratio := 0.0
	if tok.MarketCapUsd > 0 {
		ratio = tok.LiquidityUsd / tok.MarketCapUsd
	}
	if ratio > liqMcRatioMax {
		return reject(ReasonLiqMcRatioTooHigh, fmt.Sprintf("liq/mc %.2f", ratio))
	}
	if ratio < liqMcRatioMin {
		return reject(ReasonLiqMcRatioTooLow, fmt.Sprintf("liq/mc %.2f", ratio))
	}
	if ratio < liqMcSafeZoneRatio && tok.LiquidityUsd < liqMcSafeZoneFloor {
		return reject(ReasonLowLiqInSafeZone, fmt.Sprintf("liq/mc %.2f with liquidity $%.0f", ratio, tok.LiquidityUsd))
	}

	if tok.MarketCapUsd > gateMaxMarketCap {
		return reject(ReasonMcTooHigh, fmt.Sprintf("mc $%.0f", tok.MarketCapUsd))
	}
	if tok.MarketCapUsd < gateMinMarketCap {
		return reject(ReasonMcTooLow, fmt.Sprintf("mc $%.0f", tok.MarketCapUsd))
	}

	if tok.PriceChange5m > fakePumpChangePercent && tok.Buys5m < fakePumpMinBuys {
		return reject(ReasonFakePump, fmt.Sprintf("+%.1f%% on %d buys", tok.PriceChange5m, tok.Buys5m))
	}

	if tok.IsMintable || tok.IsFreezable {
		return reject(ReasonMintableOrPause, fmt.Sprintf("mintable=%t freezable=%t", tok.IsMintable, tok.IsFreezable))
	}

	if tok.Top10HoldersPercent > whaleTop10MaxPercent {
		return reject(ReasonWhaleTrap, fmt.Sprintf("top10 %.1f%%", tok.Top10HoldersPercent))
	}

	minHolders := minHoldersSettled
	if age < holderAgeCutoffMin {
		minHolders = minHoldersYoung
	}
	if tok.HolderCount < minHolders {
		return reject(ReasonNotEnoughHolders, fmt.Sprintf("%d holders, floor %d", tok.HolderCount, minHolders))
	}

	locked := tok.LpLockedPercent >= lpLockedMinPercent || tok.LpBurned
	dispersed := tok.Top10HoldersPercent < dispersedTop10Percent && tok.HolderCount > dispersedMinHolders
	if !locked && !dispersed {
		return reject(ReasonRugRiskLowLock, fmt.Sprintf("lp locked %.1f%% burned=%t top10 %.1f%%", tok.LpLockedPercent, tok.LpBurned, tok.Top10HoldersPercent))
	}

	return pass()
}
