package services

import (
	"math"
	"time"
)

// BilledHours converts elapsed wall-clock time into billable whole hours.
// Any started hour counts as a full hour, and every session bills at least
// one hour, so a zero or sub-second stay still charges 1.
func BilledHours(elapsed time.Duration) int {
	hours := int(math.Ceil(elapsed.Hours()))
	if hours < 1 {
		return 1
	}
	return hours
}

// RoundAmount rounds an amount to the currency minor unit (2 decimals),
// half up.
func RoundAmount(amount float64) float64 {
	return math.Floor(amount*100+0.5) / 100
}
