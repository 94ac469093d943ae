// Package risk implements fee-adjusted Kelly position sizing and order
// commitment (paper journal or live submission).
package risk

// Kelly returns the optimal bankroll fraction f* = (p(b+1) - 1) / b for
// win probability p and net payout b per dollar wagered. Non-positive b
// yields 0; a negative result means the bet has no edge.
func Kelly(p, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return (p*(b+1) - 1) / b
}

// NetPayoutAfterFees adjusts the net payout ratio b for an exchange fee
// charged on profit: net b = b * (1 - feeRate).
func NetPayoutAfterFees(b, feeRate float64) float64 {
	return b * (1 - feeRate)
}
