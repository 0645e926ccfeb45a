package engine

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tokenscope/memebot/core/model"
	"github.com/tokenscope/memebot/utils/logger"
)

func TestMain(m *testing.M) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	logger.Logrus = l

	os.Exit(m.Run())
}

// goodSnapshot returns a token that passes every hard-filter gate when
// evaluated at now.
func goodSnapshot(now time.Time) *model.TokenSnapshot {
	return &model.TokenSnapshot{
		Address:             "So11111111111111111111111111111111111111112",
		Name:                "Good Boy",
		Symbol:              "GOODBOY",
		PriceUsd:            0.0001,
		MarketCapUsd:        50000,
		LiquidityUsd:        10000,
		Volume5mUsd:         2000,
		Volume30mUsd:        6000,
		Buys5m:              30,
		Sells5m:             10,
		PriceChange5m:       10,
		HolderCount:         40,
		Top10HoldersPercent: 20,
		LpBurned:            true,
		CreatedAt:           now.Add(-30 * time.Minute),
		ObservedAt:          now,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
