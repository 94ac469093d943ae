package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKelly(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		b    float64
		want float64
	}{
		{"even money with 60% win", 0.60, 1.0, 0.20},
		{"even money with 50% win has no edge", 0.50, 1.0, 0.0},
		{"even money with 40% win is negative", 0.40, 1.0, -0.20},
		{"fee-adjusted payout", 0.60, 0.93, 0.169892473},
		{"zero payout yields zero", 0.60, 0, 0},
		{"negative payout yields zero", 0.60, -0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Kelly(tt.p, tt.b), 1e-6)
		})
	}
}

func TestNetPayoutAfterFees(t *testing.T) {
	assert.InDelta(t, 0.93, NetPayoutAfterFees(1.0, 0.07), 1e-9)
	assert.InDelta(t, 1.0, NetPayoutAfterFees(1.0, 0), 1e-9)
	assert.InDelta(t, 0.465, NetPayoutAfterFees(0.5, 0.07), 1e-9)
}
