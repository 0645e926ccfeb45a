package engine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tokenscope/memebot/core/model"
	"github.com/uptrace/bun"
)

// TokenStore persists seen-token records and per-alert performance rows.
type TokenStore struct {
	db *bun.DB
}

func NewTokenStore(db *bun.DB) *TokenStore {
	return &TokenStore{db: db}
}

// GetSeenToken returns (nil, nil) when the token has never been recorded.
func (s *TokenStore) GetSeenToken(ctx context.Context, tokenID string) (*model.SeenTokenRecord, error) {
	rec := new(model.SeenTokenRecord)
	err := s.db.NewSelect().Model(rec).Where("token_address = ?", tokenID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// SaveSeenToken upserts the record. first_seen_at is only written on insert;
// the last_* columns are replaced every time.
func (s *TokenStore) SaveSeenToken(ctx context.Context, rec *model.SeenTokenRecord) error {
	_, err := s.db.NewInsert().Model(rec).
		On("CONFLICT (token_address) DO UPDATE").
		Set("last_alert_at = EXCLUDED.last_alert_at").
		Set("last_score = EXCLUDED.last_score").
		Set("last_phase = EXCLUDED.last_phase").
		Set("last_price = EXCLUDED.last_price").
		Set("analysis = EXCLUDED.analysis").
		Set("raw_snapshot = EXCLUDED.raw_snapshot").
		Exec(ctx)
	return err
}

func (s *TokenStore) SavePerformance(ctx context.Context, row *model.TokenPerformance) error {
	_, err := s.db.NewInsert().Model(row).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}
