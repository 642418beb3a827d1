package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBilledHours(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"zero duration bills minimum hour", 0, 1},
		{"one minute bills one hour", 1 * time.Minute, 1},
		{"exactly one hour bills one hour", 1 * time.Hour, 1},
		{"61 minutes bills two hours", 61 * time.Minute, 2},
		{"two hours bills two hours", 2 * time.Hour, 2},
		{"2h15m bills three hours", 2*time.Hour + 15*time.Minute, 3},
		{"just under a day", 23*time.Hour + 59*time.Minute, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BilledHours(tt.elapsed))
		})
	}
}

func TestRoundAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   float64
	}{
		{"whole amount unchanged", 1500.0, 1500.0},
		{"two decimals unchanged", 123.45, 123.45},
		{"exact half rounds up", 0.125, 0.13},
		{"exact half rounds up again", 0.375, 0.38},
		{"below half rounds down", 10.004, 10.0},
		{"above half rounds up", 10.006, 10.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundAmount(tt.amount), 1e-9)
		})
	}
}
