package report

// Result is the full log bundle of one simulated session: the three
// append-only row sequences, ordered by creation. Once a session finishes
// its Result is never mutated, only merged or written.
type Result struct {
	Round int
	Day   int

	SandboxRows    []SandboxRow
	SubmissionRows []SubmissionRow
	ActivityRows   []ActivityRow
}

// LastTimestamp returns the timestamp of the final diagnostic row, the
// anchor used when another session is merged after this one.
func (r Result) LastTimestamp() int {
	if len(r.SandboxRows) == 0 {
		return 0
	}
	return r.SandboxRows[len(r.SandboxRows)-1].Timestamp
}

// FinalProfits returns the per-product P&L of the final timestamp's
// activity rows.
func (r Result) FinalProfits() map[string]float64 {
	profits := make(map[string]float64)
	if len(r.ActivityRows) == 0 {
		return profits
	}

	last := r.ActivityRows[len(r.ActivityRows)-1].Timestamp
	for i := len(r.ActivityRows) - 1; i >= 0; i-- {
		row := r.ActivityRows[i]
		if row.Timestamp != last {
			break
		}
		profits[row.Product] = row.ProfitLoss
	}
	return profits
}

// TotalProfit returns the session's total P&L: the sum of the final
// timestamp's per-product activity rows.
func (r Result) TotalProfit() float64 {
	total := 0.0
	for _, profit := range r.FinalProfits() {
		total += profit
	}
	return total
}
