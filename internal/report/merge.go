package report

// TimestampGap is the distance between the last timestamp of one session
// and the first timestamp of the next on a merged timeline, matching the
// 100-unit tick of the historical files.
const TimestampGap = 100

// Merge concatenates two session results in chronological order. Every row
// of b is shifted by a's final timestamp plus one tick; diagnostic text is
// rebased through the substitution contract of SandboxRow.WithOffset.
//
// With continuity enabled, b's activity rows additionally carry a's final
// per-product P&L forward, making cumulative profit continuous across the
// boundary. Without it b's P&L stays as computed in isolation. Merging is
// applied as a left fold and is not commutative: a defines the base
// timeline.
func Merge(a, b Result, continuity bool) Result {
	if len(a.SandboxRows) == 0 {
		return b
	}

	merged := Result{Round: a.Round, Day: a.Day}
	merged.SandboxRows = append(merged.SandboxRows, a.SandboxRows...)
	merged.SubmissionRows = append(merged.SubmissionRows, a.SubmissionRows...)
	merged.ActivityRows = append(merged.ActivityRows, a.ActivityRows...)

	aLast := a.LastTimestamp()
	offset := aLast + TimestampGap

	profitOffsets := make(map[string]float64)
	if continuity {
		for i := len(a.ActivityRows) - 1; i >= 0; i-- {
			row := a.ActivityRows[i]
			if row.Timestamp != aLast {
				break
			}
			profitOffsets[row.Product] = row.ProfitLoss
		}
	}

	for _, row := range b.SandboxRows {
		merged.SandboxRows = append(merged.SandboxRows, row.WithOffset(offset))
	}
	for _, row := range b.SubmissionRows {
		merged.SubmissionRows = append(merged.SubmissionRows, row.WithOffset(offset))
	}
	for _, row := range b.ActivityRows {
		merged.ActivityRows = append(merged.ActivityRows, row.WithOffset(offset, profitOffsets[row.Product]))
	}
	return merged
}

// MergeAll folds results left to right. Callers pass results in
// chronological order.
func MergeAll(results []Result, continuity bool) Result {
	if len(results) == 0 {
		return Result{}
	}

	merged := results[0]
	for _, next := range results[1:] {
		merged = Merge(merged, next, continuity)
	}
	return merged
}
