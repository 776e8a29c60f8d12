package service

import (
	"math"

	"github.com/noah-isme/spool-tracker/internal/models"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
)

// fullDisplayThreshold absorbs scale noise near a full spool.
const fullDisplayThreshold = 98.0

// ReconcileUsage turns one usage observation into a new remaining weight.
// used is consumption since the last reading, remaining an absolute gross
// reading. Supplying neither returns prior unchanged.
func ReconcileUsage(prior float64, used, remaining *float64) (float64, error) {
	switch {
	case used != nil && remaining != nil:
		return 0, appErrors.Validation("supply exactly one of used-weight or remaining-weight")
	case used != nil:
		if !finite(*used) || *used < 0 {
			return 0, appErrors.Validation("used weight must be a non-negative number")
		}
		next := prior - *used
		if next < 0 {
			return 0, appErrors.Validation("used weight exceeds remaining weight")
		}
		return next, nil
	case remaining != nil:
		if !finite(*remaining) || *remaining < 0 {
			return 0, appErrors.Validation("remaining weight must be a non-negative number")
		}
		if *remaining >= prior {
			return 0, appErrors.Validation("remaining weight must be lower than the current remaining weight")
		}
		return *remaining, nil
	default:
		return prior, nil
	}
}

// FilamentWeight is the gross remaining weight minus the spool tare. It is
// not clamped and goes negative when the tare is wrong.
func FilamentWeight(spool *models.Spool, t models.SpoolType) float64 {
	return spool.RemainingWeight - t.SpoolWeight
}

// RemainingPercent is the display percentage of filament left, in [0, 100].
func RemainingPercent(spool *models.Spool, t models.SpoolType) float64 {
	if t.FilamentWeight <= 0 {
		return 0
	}
	pct := FilamentWeight(spool, t) / t.FilamentWeight * 100
	switch {
	case pct >= fullDisplayThreshold:
		return 100
	case pct < 0:
		return 0
	default:
		return math.Round(pct*10) / 10
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
