package engine

import (
	"github.com/tokenscope/memebot/core/model"
)

const (
	servedMcMultiple   = 3
	cookingMcFraction  = 0.8
	cookingScoreFloor  = 8
	trackingAgeMinutes = 10
	trackingVolume5m   = 5000
)

// PhaseDetector classifies a token into a lifecycle phase from its current
// metrics. Deliberately stateless: the phase is recomputed every cycle and a
// token can move backwards, e.g. from COOKING to SPOTTED, when its metrics
// regress. There is no transition guard and none should be added.
type PhaseDetector struct {
	minMarketCap float64
	maxMarketCap float64
}

func NewPhaseDetector(minMarketCap, maxMarketCap float64) *PhaseDetector {
	return &PhaseDetector{minMarketCap: minMarketCap, maxMarketCap: maxMarketCap}
}

// Detect returns the first matching phase in decision order.
func (d *PhaseDetector) Detect(tok *model.TokenSnapshot, res *model.ScoreResult, ageMinutes float64) model.Phase {
	mc := tok.MarketCapUsd

	if mc > d.maxMarketCap*servedMcMultiple {
		return model.PhaseServed
	}
	if mc >= d.maxMarketCap || (mc > d.maxMarketCap*cookingMcFraction && res.Total >= cookingScoreFloor) {
		return model.PhaseCooking
	}
	if mc >= d.minMarketCap && (ageMinutes > trackingAgeMinutes || tok.Volume5mUsd > trackingVolume5m) {
		return model.PhaseTracking
	}
	return model.PhaseSpotted
}
