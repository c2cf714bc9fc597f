// config/commission.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/vivanet/vivanet_backend/models"
)

// CommissionConfig carries the commission policy numbers. These are business
// policy, not engine logic, so they are injected everywhere the engine runs.
type CommissionConfig struct {
	// PointsToCurrency converts commission points into currency.
	PointsToCurrency float64
	// PersonalRate is applied to a member's own performance points.
	PersonalRate float64
	// GenerationRates are the per-generation rates used for the team share of
	// performance profit. GenerationRates[0] applies to generation 1.
	GenerationRates [5]float64
	// PlatformFeePercent is deducted from the expected-profit total.
	PlatformFeePercent float64
	// PeriodWorkers bounds the worker pool used during period calculation.
	PeriodWorkers int
}

// LoadCommissionConfig reads the commission policy from environment variables,
// falling back to the platform defaults.
func LoadCommissionConfig() CommissionConfig {
	cfg := CommissionConfig{
		PointsToCurrency:   0.55,
		PersonalRate:       0.20,
		GenerationRates:    [5]float64{0.11, 0.08, 0.06, 0.03, 0.02},
		PlatformFeePercent: 0.05,
		PeriodWorkers:      8,
	}

	cfg.PointsToCurrency = envFloat("POINTS_TO_CURRENCY", cfg.PointsToCurrency)
	cfg.PersonalRate = envFloat("PERSONAL_COMMISSION_RATE", cfg.PersonalRate)
	cfg.PlatformFeePercent = envFloat("PLATFORM_FEE_PERCENT", cfg.PlatformFeePercent)

	if workersStr := os.Getenv("PERIOD_WORKERS"); workersStr != "" {
		if workers, err := strconv.Atoi(workersStr); err == nil && workers > 0 {
			cfg.PeriodWorkers = workers
		}
	}

	// Comma-separated list, e.g. "0.11,0.08,0.06,0.03,0.02"
	if ratesStr := os.Getenv("GENERATION_COMMISSION_RATES"); ratesStr != "" {
		parts := strings.Split(ratesStr, ",")
		if len(parts) == len(cfg.GenerationRates) {
			var rates [5]float64
			ok := true
			for i, part := range parts {
				rate, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
				if err != nil || rate < 0 {
					ok = false
					break
				}
				rates[i] = rate
			}
			if ok {
				cfg.GenerationRates = rates
			} else {
				log.Printf("Warning: invalid GENERATION_COMMISSION_RATES %q, using defaults", ratesStr)
			}
		} else {
			log.Printf("Warning: GENERATION_COMMISSION_RATES must have %d entries, using defaults", len(cfg.GenerationRates))
		}
	}

	return cfg
}

func envFloat(key string, fallback float64) float64 {
	str := os.Getenv(key)
	if str == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(str, 64)
	if err != nil || value < 0 {
		log.Printf("Warning: invalid %s value %q, using default %v", key, str, fallback)
		return fallback
	}
	return value
}

// DefaultRankCommissionTable returns the leadership rate table shipped with
// the platform. Rank 1 has no leadership tier yet, so all its rates are zero;
// leadership commission activates once cumulative points promote a member out
// of rank 1.
func DefaultRankCommissionTable() models.RankCommissionTable {
	return models.RankCommissionTable{
		1: {0, 0, 0, 0, 0},
		2: {0.03, 0.02, 0.01, 0, 0},
		3: {0.05, 0.04, 0.03, 0, 0},
		4: {0.06, 0.05, 0.04, 0.02, 0},
		5: {0.07, 0.06, 0.05, 0.03, 0.01},
		6: {0.08, 0.07, 0.06, 0.04, 0.02},
		7: {0.09, 0.08, 0.07, 0.05, 0.03},
		8: {0.10, 0.09, 0.08, 0.06, 0.04},
		9: {0.12, 0.10, 0.09, 0.07, 0.05},
	}
}
