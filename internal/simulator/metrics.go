package simulator

import (
	"github.com/predelinq/riskgen/internal/models"
	"github.com/predelinq/riskgen/internal/utils"
)

// ApplyRollingBalance fills the trailing-mean field on a single customer's
// snapshot series, in order. Days before a full window stay nil; the mean
// is never back-filled or padded.
func ApplyRollingBalance(days []models.DailySnapshot, window int) {
	if window <= 0 {
		return
	}

	var sum int64
	for i := range days {
		sum += days[i].ClosingBalance.ToCents()
		if i >= window {
			sum -= days[i-window].ClosingBalance.ToCents()
		}
		if i >= window-1 {
			mean := utils.Cents(divRound(sum, int64(window)))
			days[i].Rolling30DBalance = &mean
		}
	}
}

// divRound divides rounding half away from zero.
func divRound(num, den int64) int64 {
	if num >= 0 {
		return (num + den/2) / den
	}
	return (num - den/2) / den
}
