package engine

import "time"

// RejectReason is the closed set of gate and pipeline rejection outcomes.
// Each reason carries its retry TTL as data; zero means the rejection holds
// for the process lifetime.
type RejectReason string

const (
	ReasonBlacklistedName   RejectReason = "BLACKLISTED_NAME"
	ReasonTooYoung          RejectReason = "TOO_YOUNG"
	ReasonTooOld            RejectReason = "TOO_OLD"
	ReasonLiquidityTooLow   RejectReason = "LIQUIDITY_TOO_LOW"
	ReasonLiqMcRatioTooHigh RejectReason = "LIQ_MC_RATIO_TOO_HIGH"
	ReasonLiqMcRatioTooLow  RejectReason = "LIQ_MC_RATIO_TOO_LOW"
	ReasonLowLiqInSafeZone  RejectReason = "LOW_LIQ_IN_SAFE_ZONE"
	ReasonMcTooHigh         RejectReason = "MC_TOO_HIGH"
	ReasonMcTooLow          RejectReason = "MC_TOO_LOW"
	ReasonFakePump          RejectReason = "FAKE_PUMP"
	ReasonMintableOrPause   RejectReason = "MINTABLE_OR_PAUSABLE"
	ReasonWhaleTrap         RejectReason = "WHALE_TRAP"
	ReasonNotEnoughHolders  RejectReason = "NOT_ENOUGH_HOLDERS"
	ReasonRugRiskLowLock    RejectReason = "RUG_RISK_LOW_LOCK"

	ReasonWeakScore          RejectReason = "WEAK_SCORE"
	ReasonSecurityRisk       RejectReason = "SECURITY_RISK"
	ReasonSecurityUnverified RejectReason = "SECURITY_UNVERIFIED"
	ReasonLowCombinedScore   RejectReason = "LOW_COMBINED_SCORE"
	ReasonCooldownActive     RejectReason = "COOLDOWN_ACTIVE"
	ReasonAPIError           RejectReason = "API_ERROR"
)

// rejectTTL maps every reason to its retry window. Transient conditions get
// short-to-medium TTLs so the token is re-evaluated once the condition may
// have changed; structural conditions stay blocked until restart.
var rejectTTL = map[RejectReason]time.Duration{
	ReasonBlacklistedName:   0,
	ReasonTooYoung:          10 * time.Minute,
	ReasonTooOld:            0,
	ReasonLiquidityTooLow:   120 * time.Minute,
	ReasonLiqMcRatioTooHigh: 0,
	ReasonLiqMcRatioTooLow:  0,
	ReasonLowLiqInSafeZone:  60 * time.Minute,
	ReasonMcTooHigh:         0,
	ReasonMcTooLow:          60 * time.Minute,
	ReasonFakePump:          120 * time.Minute,
	ReasonMintableOrPause:   0,
	ReasonWhaleTrap:         0,
	ReasonNotEnoughHolders:  30 * time.Minute,
	ReasonRugRiskLowLock:    120 * time.Minute,

	ReasonWeakScore:          30 * time.Minute,
	ReasonSecurityRisk:       0,
	ReasonSecurityUnverified: 30 * time.Minute,
	ReasonLowCombinedScore:   60 * time.Minute,
	ReasonCooldownActive:     30 * time.Minute,
	ReasonAPIError:           10 * time.Minute,
}

// TTL returns the retry window for the reason and whether the rejection is
// permanent for the process lifetime.
func (r RejectReason) TTL() (time.Duration, bool) {
	ttl, ok := rejectTTL[r]
	if !ok {
		// unknown reasons retry quickly rather than blocking forever
		return 10 * time.Minute, false
	}
	return ttl, ttl == 0
}
