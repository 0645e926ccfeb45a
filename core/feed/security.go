package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/tokenscope/memebot/core/model"
	"github.com/tokenscope/memebot/core/redis"
	"github.com/tokenscope/memebot/utils/logger"
)

const securityCacheTTL = 10 * time.Minute

// SecurityService layers the GoPlus scanner over the on-chain fallback and
// caches verdicts in redis. It only returns an error when neither source can
// produce a verdict; the caller's fail-closed policy does the rest.
type SecurityService struct {
	scanner *GoPlusClient
	chain   *ChainClient
	cache   *goredis.Client
}

func NewSecurityService(scanner *GoPlusClient, chain *ChainClient, cache *goredis.Client) *SecurityService {
	return &SecurityService{scanner: scanner, chain: chain, cache: cache}
}

func (s *SecurityService) CheckSecurity(ctx context.Context, tokenID string) (*model.SecurityReport, error) {
	key := fmt.Sprintf("meta:security:%s", tokenID)
	if s.cache != nil {
		if cached, err := redis.Get(ctx, s.cache, key); err == nil {
			var report model.SecurityReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				return &report, nil
			}
		}
	}

	report, err := s.scanner.CheckSecurity(ctx, tokenID)
	if err != nil {
		logger.Logrus.WithFields(logrus.Fields{"Token": tokenID, "ErrMsg": err}).Warn("scanner unavailable, falling back to on-chain mint check")
		report, err = s.chain.CheckSecurity(ctx, tokenID)
		if err != nil {
			return nil, fmt.Errorf("security unverifiable, %v", err)
		}
	}

	if s.cache != nil {
		if bt, err := json.Marshal(report); err == nil {
			_ = redis.Set(ctx, s.cache, key, string(bt), securityCacheTTL)
		}
	}

	return report, nil
}
