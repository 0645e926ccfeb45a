package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tokenscope/memebot/config"
	"github.com/tokenscope/memebot/core/model"
	"github.com/tokenscope/memebot/utils/logger"
)

// Collaborator boundaries. The engine only consumes these shapes; wire
// formats are the clients' concern.
type Discovery interface {
	FetchCandidates(ctx context.Context) ([]model.TokenSnapshot, error)
}

type DetailFetcher interface {
	FetchDetails(ctx context.Context, tokenID string) (*model.TokenDetails, error)
}

type SecurityChecker interface {
	CheckSecurity(ctx context.Context, tokenID string) (*model.SecurityReport, error)
}

type TweetSearcher interface {
	Search(ctx context.Context, query string) ([]model.Tweet, error)
}

type SocialScorer interface {
	ScoreSocial(ctx context.Context, tok *model.TokenSnapshot, tweets []model.Tweet) (*model.SocialReport, error)
}

type Notifier interface {
	SendAlert(ctx context.Context, narrative string, tok *model.TokenSnapshot, res *model.ScoreResult) (int, error)
}

type PerformanceStore interface {
	SavePerformance(ctx context.Context, row *model.TokenPerformance) error
}

// Fresh holder floors applied against re-fetched detail data. Looser than
// the hard-filter floors while the token is still settling.
const (
	freshFloorEarlyAge    = 15
	freshFloorEarly       = 20
	freshFloorSettlingAge = 60
	freshFloorSettling    = 30
	freshFloorDefault     = 50
)

// CycleSummary is the per-cycle report exposed on the status endpoint and in
// logs. Counts only.
type CycleSummary struct {
	ID            string         `json:"id"`
	StartedAt     time.Time      `json:"started_at"`
	DurationMs    int64          `json:"duration_ms"`
	Fetched       int            `json:"fetched"`
	Deduped       int            `json:"deduped"`
	SkippedCached int            `json:"skipped_cached"`
	CacheSwept    int            `json:"cache_swept"`
	Fresh         int            `json:"fresh"`
	Alerts        int            `json:"alerts"`
	Rejections    map[string]int `json:"rejections"`
}

// ScanService drives the candidate evaluation pipeline on a fixed interval.
// Cycles are strictly serial: the next tick is armed only after the previous
// cycle has fully completed, and RunCycle itself is guarded against
// re-entrant calls.
type ScanService struct {
	feeds    []Discovery
	details  DetailFetcher
	security SecurityChecker
	tweets   TweetSearcher
	social   SocialScorer

	store    PerformanceStore
	cooldown *CooldownManager
	cache    *RetryCache
	filter   *HardFilter
	scorer   *ScoringEngine
	phases   *PhaseDetector
	notify   Notifier

	scanning atomic.Bool

	summaryMu   sync.RWMutex
	lastSummary *CycleSummary

	cfgFn func() config.ScanConfig
	now   func() time.Time
	sleep func(time.Duration)
}

func NewScanService(
	feeds []Discovery,
	details DetailFetcher,
	security SecurityChecker,
	tweets TweetSearcher,
	social SocialScorer,
	store PerformanceStore,
	cooldown *CooldownManager,
	cache *RetryCache,
	filter *HardFilter,
	scorer *ScoringEngine,
	phases *PhaseDetector,
	notify Notifier,
) *ScanService {
	return &ScanService{
		feeds:    feeds,
		details:  details,
		security: security,
		tweets:   tweets,
		social:   social,
		store:    store,
		cooldown: cooldown,
		cache:    cache,
		filter:   filter,
		scorer:   scorer,
		phases:   phases,
		notify:   notify,
		cfgFn:    config.GetScanConfig,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Start runs cycles until ctx is cancelled. The timer is re-armed after each
// cycle completes so cycles never overlap.
func (s *ScanService) Start(ctx context.Context) {
	for {
		s.RunCycle(ctx)

		cfg := s.cfgFn()
		config.ApplyScanDefaults(&cfg)
		interval := time.Duration(cfg.TickIntervalSec) * time.Second
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// LastSummary returns the most recent cycle report, nil before the first
// cycle finishes.
func (s *ScanService) LastSummary() *CycleSummary {
	s.summaryMu.RLock()
	defer s.summaryMu.RUnlock()
	return s.lastSummary
}

// RunCycle performs one full scan pass. A call while another cycle is
// in-flight is a logged no-op; concurrent cycles could double-alert or
// corrupt the rejection cache.
func (s *ScanService) RunCycle(ctx context.Context) *CycleSummary {
	if !s.scanning.CompareAndSwap(false, true) {
		logger.Logrus.Warn("scan cycle already in flight, skipping")
		return nil
	}
	defer s.scanning.Store(false)

	cfg := s.cfgFn()
	config.ApplyScanDefaults(&cfg)
	start := s.now()
	summary := &CycleSummary{
		ID:         uuid.NewString(),
		StartedAt:  start,
		Rejections: make(map[string]int),
	}

	summary.CacheSwept = s.cache.SweepExpired()

	candidates := s.fetchCandidates(ctx)
	summary.Fetched = len(candidates)

	deduped := dedupe(candidates)
	summary.Deduped = len(deduped)

	fresh := make([]model.TokenSnapshot, 0, len(deduped))
	for i := range deduped {
		if entry := s.cache.Get(deduped[i].Address); entry != nil {
			summary.SkippedCached++
			continue
		}
		fresh = append(fresh, deduped[i])
	}
	summary.Fresh = len(fresh)

	s.processCandidates(ctx, fresh, cfg, summary)

	summary.DurationMs = s.now().Sub(start).Milliseconds()

	s.summaryMu.Lock()
	s.lastSummary = summary
	s.summaryMu.Unlock()

	logger.Logrus.WithFields(logrus.Fields{
		"CycleID":    summary.ID,
		"DurationMs": summary.DurationMs,
		"Fetched":    summary.Fetched,
		"Fresh":      summary.Fresh,
		"Skipped":    summary.SkippedCached,
		"Alerts":     summary.Alerts,
		"Rejections": summary.Rejections,
	}).Info("scan cycle complete")

	return summary
}

// fetchCandidates polls every feed; a failing feed contributes nothing and
// never aborts the cycle.
func (s *ScanService) fetchCandidates(ctx context.Context) []model.TokenSnapshot {
	var all []model.TokenSnapshot
	for _, feed := range s.feeds {
		batch, err := feed.FetchCandidates(ctx)
		if err != nil {
			logger.Logrus.WithFields(logrus.Fields{"ErrMsg": err}).Error("candidate feed fetch failed")
			continue
		}
		all = append(all, batch...)
	}
	return all
}

// dedupe keeps the last snapshot per address, preserving first-seen order.
func dedupe(candidates []model.TokenSnapshot) []model.TokenSnapshot {
	index := make(map[string]int, len(candidates))
	out := make([]model.TokenSnapshot, 0, len(candidates))
	for i := range candidates {
		addr := candidates[i].Address
		if addr == "" {
			continue
		}
		if pos, seen := index[addr]; seen {
			out[pos] = candidates[i]
			continue
		}
		index[addr] = len(out)
		out = append(out, candidates[i])
	}
	return out
}

// processCandidates runs per-token pipelines behind a fixed-permit
// semaphore, pausing after every permit group so concurrent outbound calls
// stay within what the rate-limited providers tolerate.
func (s *ScanService) processCandidates(ctx context.Context, fresh []model.TokenSnapshot, cfg config.ScanConfig, summary *CycleSummary) {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, cfg.BatchSize)
	)

	for i := range fresh {
		if i > 0 && i%cfg.BatchSize == 0 {
			s.sleep(time.Duration(cfg.BatchPauseMs) * time.Millisecond)
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(tok model.TokenSnapshot) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					logger.Logrus.WithFields(logrus.Fields{"Token": tok.Address, "Panic": r}).Error("token pipeline panicked")
				}
			}()

			alerted, reason, _ := s.evaluateToken(ctx, &tok, cfg)

			mu.Lock()
			defer mu.Unlock()
			if alerted {
				summary.Alerts++
				return
			}
			if reason != "" {
				summary.Rejections[string(reason)]++
			}
		}(fresh[i])
	}
	wg.Wait()
}

// evaluateToken runs the full gate -> score -> enrich -> cooldown pipeline
// for one token. Every rejection is written to the retry cache with the
// reason's TTL policy.
func (s *ScanService) evaluateToken(ctx context.Context, tok *model.TokenSnapshot, cfg config.ScanConfig) (bool, RejectReason, string) {
	rejectWith := func(reason RejectReason, detail string) (bool, RejectReason, string) {
		s.cache.Set(tok.Address, reason, detail)
		logger.Logrus.WithFields(logrus.Fields{"Token": tok.Address, "Symbol": tok.Symbol, "Reason": reason, "Detail": detail}).Debug("token rejected")
		return false, reason, detail
	}

	if gate := s.filter.Evaluate(tok); !gate.Passed {
		return rejectWith(gate.Reason, gate.Detail)
	}

	watchlistHit := MatchWatchlist(tok, cfg.Watchlist)
	res := s.scorer.Score(tok, watchlistHit)

	age := tok.AgeMinutes(s.now())
	adjusted := AdjustForAge(res, age)
	if adjusted < cfg.WeakScoreMin {
		return rejectWith(ReasonWeakScore, fmt.Sprintf("adjusted score %d below %d", adjusted, cfg.WeakScoreMin))
	}

	// inability to verify safety is treated as unsafe
	report, err := s.security.CheckSecurity(ctx, tok.Address)
	if err != nil {
		return rejectWith(ReasonSecurityUnverified, fmt.Sprintf("security check failed: %v", err))
	}
	if !report.Safe {
		return rejectWith(ReasonSecurityRisk, report.Reason)
	}

	details, err := s.details.FetchDetails(ctx, tok.Address)
	if err != nil || details == nil {
		return rejectWith(ReasonAPIError, fmt.Sprintf("detail fetch failed: %v", err))
	}
	tok.HolderCount = details.HolderCount
	tok.Top10HoldersPercent = details.Top10Percent
	tok.IsMintable = details.IsMintable
	tok.IsFreezable = details.IsFreezable
	if details.LiquidityBurnedPercent >= lpLockedMinPercent {
		tok.LpBurned = true
	}

	if tok.IsMintable || tok.IsFreezable {
		return rejectWith(ReasonMintableOrPause, "authority still set per fresh details")
	}
	if tok.Top10HoldersPercent > whaleTop10MaxPercent {
		return rejectWith(ReasonWhaleTrap, fmt.Sprintf("top10 %.1f%% per fresh details", tok.Top10HoldersPercent))
	}
	if tok.HolderCount < freshHolderFloor(age) {
		return rejectWith(ReasonNotEnoughHolders, fmt.Sprintf("%d holders, fresh floor %d", tok.HolderCount, freshHolderFloor(age)))
	}

	narrative := ""
	vibe := 0
	tweets, err := s.tweets.Search(ctx, fmt.Sprintf("%s %s", tok.Symbol, tok.Address))
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"Token": tok.Address, "ErrMsg": err}).Warn("tweet search failed, scoring without social signal")
		tweets = nil
	}
	if len(tweets) > 0 {
		social, err := s.social.ScoreSocial(ctx, tok, tweets)
		if err != nil {
			logger.Logrus.WithFields(logrus.Fields{"Token": tok.Address, "ErrMsg": err}).Warn("social scoring failed, using zero contribution")
		} else if social != nil {
			vibe = social.VibeScore
			narrative = social.Reasoning
		}
	}
	res.VibeScore = vibe
	res.Combined = int(float64(adjusted)*cfg.TechFactor + float64(vibe)*cfg.VibeFactor)

	if res.Combined < cfg.CombinedScoreMin {
		return rejectWith(ReasonLowCombinedScore, fmt.Sprintf("combined %d below %d", res.Combined, cfg.CombinedScoreMin))
	}

	res.Phase = s.phases.Detect(tok, res, age)

	if ok, why := s.cooldown.CanAlert(ctx, tok.Address, res.Combined); !ok {
		return rejectWith(ReasonCooldownActive, why)
	}

	s.cooldown.RecordAlert(ctx, tok, res)

	if _, err := s.notify.SendAlert(ctx, narrative, tok, res); err != nil {
		logger.Logrus.WithFields(logrus.Fields{"Token": tok.Address, "ErrMsg": err}).Error("alert send failed")
	}

	perf := &model.TokenPerformance{
		TokenAddress:   tok.Address,
		TokenSymbol:    tok.Symbol,
		AlertAt:        s.now(),
		AlertPrice:     tok.PriceUsd,
		AlertMarketCap: tok.MarketCapUsd,
		Score:          res.Combined,
		VibeScore:      vibe,
		Phase:          string(res.Phase),
	}
	if err := s.store.SavePerformance(ctx, perf); err != nil {
		logger.Logrus.WithFields(logrus.Fields{"Token": tok.Address, "ErrMsg": err}).Error("save performance row failed")
	}

	logger.Logrus.WithFields(logrus.Fields{
		"Token":    tok.Address,
		"Symbol":   tok.Symbol,
		"Score":    res.Total,
		"Adjusted": res.Adjusted,
		"Vibe":     vibe,
		"Combined": res.Combined,
		"Phase":    res.Phase,
	}).Info("alert emitted")

	return true, "", ""
}

func freshHolderFloor(ageMinutes float64) int {
	switch {
	case ageMinutes < freshFloorEarlyAge:
		return freshFloorEarly
	case ageMinutes < freshFloorSettlingAge:
		return freshFloorSettling
	default:
		return freshFloorDefault
	}
}
