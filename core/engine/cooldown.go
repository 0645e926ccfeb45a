package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tokenscope/memebot/core/model"
	"github.com/tokenscope/memebot/utils/logger"
)

// SeenStore is the persisted alert-history the cooldown manager consults.
type SeenStore interface {
	GetSeenToken(ctx context.Context, tokenID string) (*model.SeenTokenRecord, error)
	SaveSeenToken(ctx context.Context, rec *model.SeenTokenRecord) error
}

// CooldownManager combines a global sliding-window rate limit with a
// per-token strict cooldown backed by the seen-token store.
//
// Failure policy: store reads fail open (treated as no prior record) so a
// flaky database cannot mute the bot entirely; store writes on RecordAlert
// fail open too, at the accepted risk of a duplicate future alert. Both are
// logged at error level. The security checker is the fail-closed side of
// this asymmetry; see the scan service.
type CooldownManager struct {
	store SeenStore

	maxPerHour int
	cooldown   time.Duration
	reAlertMin int

	mu     sync.Mutex
	window []time.Time

	now func() time.Time
}

func NewCooldownManager(store SeenStore, maxPerHour, cooldownMinutes, reAlertMinScore int) *CooldownManager {
	return &CooldownManager{
		store:      store,
		maxPerHour: maxPerHour,
		cooldown:   time.Duration(cooldownMinutes) * time.Minute,
		reAlertMin: reAlertMinScore,
		now:        time.Now,
	}
}

// CanAlert checks the global window first, then the per-token record.
func (m *CooldownManager) CanAlert(ctx context.Context, tokenID string, currentScore int) (bool, string) {
	now := m.now()

	m.mu.Lock()
	m.pruneWindow(now)
	windowLen := len(m.window)
	m.mu.Unlock()

	if windowLen >= m.maxPerHour {
		return false, "Global hourly limit reached"
	}

	rec, err := m.store.GetSeenToken(ctx, tokenID)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"Token": tokenID, "ErrMsg": err}).Error("cooldown read seen token failed, treating as unseen")
		rec = nil
	}

	if rec == nil || rec.LastAlertAt.IsZero() {
		return true, ""
	}

	since := now.Sub(rec.LastAlertAt)
	if since < m.cooldown {
		return false, fmt.Sprintf("cooldown active, %.0f of %.0f minutes elapsed", since.Minutes(), m.cooldown.Minutes())
	}
	if currentScore < m.reAlertMin {
		return false, fmt.Sprintf("re-alert needs score >= %d, got %d", m.reAlertMin, currentScore)
	}
	return true, ""
}

// RecordAlert appends to the global window and upserts the per-token record,
// preserving FirstSeenAt from any prior row.
func (m *CooldownManager) RecordAlert(ctx context.Context, tok *model.TokenSnapshot, res *model.ScoreResult) {
	now := m.now()

	m.mu.Lock()
	m.window = append(m.window, now)
	m.pruneWindow(now)
	m.mu.Unlock()

	rec := &model.SeenTokenRecord{
		TokenAddress: tok.Address,
		FirstSeenAt:  now,
		LastAlertAt:  now,
		LastScore:    res.Combined,
		LastPhase:    string(res.Phase),
		LastPrice:    tok.PriceUsd,
	}

	if prior, err := m.store.GetSeenToken(ctx, tok.Address); err == nil && prior != nil && !prior.FirstSeenAt.IsZero() {
		rec.FirstSeenAt = prior.FirstSeenAt
	}

	if analysis, err := json.Marshal(res); err == nil {
		rec.Analysis = string(analysis)
	}
	if raw, err := json.Marshal(tok); err == nil {
		rec.RawSnapshot = string(raw)
	}

	if err := m.store.SaveSeenToken(ctx, rec); err != nil {
		// accepted risk: a lost write can produce a duplicate alert later
		logger.Logrus.WithFields(logrus.Fields{"Token": tok.Address, "ErrMsg": err}).Error("cooldown save seen token failed")
	}
}

// pruneWindow drops entries older than one hour. Caller holds the lock.
func (m *CooldownManager) pruneWindow(now time.Time) {
	cutoff := now.Add(-time.Hour)
	kept := m.window[:0]
	for _, t := range m.window {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	m.window = kept
}
