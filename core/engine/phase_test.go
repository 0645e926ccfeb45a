package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tokenscope/memebot/core/model"
)

func TestPhaseDecisionOrder(t *testing.T) {
	now := time.Now()
	d := NewPhaseDetector(20000, 100000)

	tok := goodSnapshot(now)
	res := &model.ScoreResult{Total: 5}

	tok.MarketCapUsd = 350000
	assert.Equal(t, model.PhaseServed, d.Detect(tok, res, 30))

	tok.MarketCapUsd = 100000
	assert.Equal(t, model.PhaseCooking, d.Detect(tok, res, 30))

	// below the ceiling but above 80% of it, needs the score floor
	tok.MarketCapUsd = 90000
	assert.Equal(t, model.PhaseTracking, d.Detect(tok, res, 30))
	res.Total = 8
	assert.Equal(t, model.PhaseCooking, d.Detect(tok, res, 30))

	res.Total = 5
	tok.MarketCapUsd = 50000
	assert.Equal(t, model.PhaseTracking, d.Detect(tok, res, 30))

	tok.MarketCapUsd = 5000
	assert.Equal(t, model.PhaseSpotted, d.Detect(tok, res, 30))
}

func TestPhaseTrackingNeedsAgeOrVolume(t *testing.T) {
	now := time.Now()
	d := NewPhaseDetector(20000, 100000)
	res := &model.ScoreResult{}

	tok := goodSnapshot(now)
	tok.MarketCapUsd = 50000
	tok.Volume5mUsd = 100

	// five minutes old with no volume: still just spotted
	assert.Equal(t, model.PhaseSpotted, d.Detect(tok, res, 5))

	// same age but heavy volume promotes it
	tok.Volume5mUsd = 6000
	assert.Equal(t, model.PhaseTracking, d.Detect(tok, res, 5))
}

func TestPhaseIsRecomputedNotSticky(t *testing.T) {
	now := time.Now()
	d := NewPhaseDetector(20000, 100000)
	res := &model.ScoreResult{}

	tok := goodSnapshot(now)
	tok.MarketCapUsd = 120000
	assert.Equal(t, model.PhaseCooking, d.Detect(tok, res, 30))

	// market cap collapses; the phase follows it straight back down
	tok.MarketCapUsd = 5000
	assert.Equal(t, model.PhaseSpotted, d.Detect(tok, res, 30))
}
