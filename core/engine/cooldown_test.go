package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokenscope/memebot/core/model"
)

type fakeSeenStore struct {
	records map[string]*model.SeenTokenRecord
	getErr  error
	saveErr error
	saved   int
}

func newFakeSeenStore() *fakeSeenStore {
	return &fakeSeenStore{records: make(map[string]*model.SeenTokenRecord)}
}

func (s *fakeSeenStore) GetSeenToken(_ context.Context, tokenID string) (*model.SeenTokenRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.records[tokenID], nil
}

func (s *fakeSeenStore) SaveSeenToken(_ context.Context, rec *model.SeenTokenRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records[rec.TokenAddress] = rec
	s.saved++
	return nil
}

func TestCooldownFirstAlertAllowed(t *testing.T) {
	store := newFakeSeenStore()
	m := NewCooldownManager(store, 6, 120, 80)

	ok, reason := m.CanAlert(context.Background(), "tok1", 60)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestCooldownBlocksRepeatWithinWindow(t *testing.T) {
	base := time.Now()
	current := base
	store := newFakeSeenStore()
	m := NewCooldownManager(store, 6, 120, 80)
	m.now = func() time.Time { return current }

	tok := goodSnapshot(base)
	m.RecordAlert(context.Background(), tok, &model.ScoreResult{Combined: 70, Phase: model.PhaseTracking})

	// 30 minutes later, even a strong score stays muted
	current = base.Add(30 * time.Minute)
	ok, reason := m.CanAlert(context.Background(), tok.Address, 95)
	require.False(t, ok)
	assert.Contains(t, reason, "cooldown active")
}

func TestCooldownReAlertNeedsScoreFloor(t *testing.T) {
	base := time.Now()
	current := base
	store := newFakeSeenStore()
	m := NewCooldownManager(store, 6, 120, 80)
	m.now = func() time.Time { return current }

	tok := goodSnapshot(base)
	m.RecordAlert(context.Background(), tok, &model.ScoreResult{Combined: 70, Phase: model.PhaseTracking})

	current = base.Add(121 * time.Minute)

	ok, reason := m.CanAlert(context.Background(), tok.Address, 79)
	require.False(t, ok)
	assert.Contains(t, reason, "re-alert")

	ok, _ = m.CanAlert(context.Background(), tok.Address, 85)
	assert.True(t, ok)
}

func TestCooldownGlobalHourlyLimit(t *testing.T) {
	base := time.Now()
	current := base
	store := newFakeSeenStore()
	m := NewCooldownManager(store, 2, 120, 80)
	m.now = func() time.Time { return current }

	m.RecordAlert(context.Background(), goodSnapshot(base), &model.ScoreResult{})
	tok2 := goodSnapshot(base)
	tok2.Address = "tok2"
	m.RecordAlert(context.Background(), tok2, &model.ScoreResult{})

	ok, reason := m.CanAlert(context.Background(), "tok3", 90)
	require.False(t, ok)
	assert.Equal(t, "Global hourly limit reached", reason)

	// the window slides: an hour later both slots are free again
	current = base.Add(61 * time.Minute)
	ok, _ = m.CanAlert(context.Background(), "tok3", 90)
	assert.True(t, ok)
}

func TestCooldownReadFailureFailsOpen(t *testing.T) {
	store := newFakeSeenStore()
	store.getErr = errors.New("connection refused")
	m := NewCooldownManager(store, 6, 120, 80)

	ok, _ := m.CanAlert(context.Background(), "tok1", 60)
	assert.True(t, ok)
}

func TestCooldownSaveFailureDoesNotPanic(t *testing.T) {
	store := newFakeSeenStore()
	store.saveErr = errors.New("connection refused")
	m := NewCooldownManager(store, 6, 120, 80)

	m.RecordAlert(context.Background(), goodSnapshot(time.Now()), &model.ScoreResult{})
	assert.Equal(t, 0, store.saved)
}

func TestCooldownPreservesFirstSeenAt(t *testing.T) {
	base := time.Now()
	current := base
	store := newFakeSeenStore()
	m := NewCooldownManager(store, 6, 120, 80)
	m.now = func() time.Time { return current }

	tok := goodSnapshot(base)
	m.RecordAlert(context.Background(), tok, &model.ScoreResult{Combined: 70})
	first := store.records[tok.Address].FirstSeenAt

	current = base.Add(3 * time.Hour)
	m.RecordAlert(context.Background(), tok, &model.ScoreResult{Combined: 90})

	rec := store.records[tok.Address]
	assert.Equal(t, first, rec.FirstSeenAt)
	assert.Equal(t, current, rec.LastAlertAt)
	assert.Equal(t, 90, rec.LastScore)
}
