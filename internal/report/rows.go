// Package report holds the log bundle a simulated session produces: the
// three row kinds, their textual rendering, the session merger, and the
// bundle writer. The textual shape is a compatibility contract with the
// visualizer and existing tooling and is reproduced byte for byte.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/backtide/backtide/internal/market"
)

// SandboxRow is one diagnostic row: the opaque text an algorithm emitted
// at one timestamp. Text carries its own trailing newline when present.
type SandboxRow struct {
	Timestamp int
	Text      string
}

// WithOffset shifts the row onto a merged timeline. Besides the structured
// field, the literal patterns "timestamp":<old> and "t":<old> inside the
// text are substituted, matching the two JSON dump encodings. Timestamps
// in any other textual shape are not rebased.
func (r SandboxRow) WithOffset(offset int) SandboxRow {
	shifted := r.Timestamp + offset

	text := r.Text
	for _, pattern := range []string{`"timestamp":%d`, `"t":%d`} {
		old := fmt.Sprintf(pattern, r.Timestamp)
		replacement := fmt.Sprintf(pattern, shifted)
		text = strings.ReplaceAll(text, old, replacement)
	}

	return SandboxRow{Timestamp: shifted, Text: text}
}

// SubmissionRow is one rejection/diagnostic row produced by the engine
// itself, such as a position limit rejection.
type SubmissionRow struct {
	Timestamp int
	Message   string
}

// WithOffset shifts the row onto a merged timeline.
func (r SubmissionRow) WithOffset(offset int) SubmissionRow {
	return SubmissionRow{Timestamp: r.Timestamp + offset, Message: r.Message}
}

// ActivityRow is one line of the activity section: the quoted levels, mid
// price, and running P&L of one product at one timestamp. Bids and Asks
// hold at most three levels each, best first; absent levels render as
// empty fields.
type ActivityRow struct {
	Day        int
	Timestamp  int
	Product    string
	Bids       []market.Level
	Asks       []market.Level
	MidPrice   float64
	ProfitLoss float64
}

// WithOffset shifts the row onto a merged timeline and adds the P&L
// carried over from the preceding session.
func (r ActivityRow) WithOffset(timestampOffset int, profitLossOffset float64) ActivityRow {
	shifted := r
	shifted.Timestamp += timestampOffset
	shifted.ProfitLoss += profitLossOffset
	return shifted
}

// Render returns the row's 17 semicolon-separated fields.
func (r ActivityRow) Render() string {
	cells := make([]string, 0, 17)
	cells = append(cells, strconv.Itoa(r.Day), strconv.Itoa(r.Timestamp), r.Product)
	cells = appendLevelCells(cells, r.Bids)
	cells = appendLevelCells(cells, r.Asks)
	cells = append(cells, FormatFloat(r.MidPrice), FormatFloat(r.ProfitLoss))
	return strings.Join(cells, ";")
}

func appendLevelCells(cells []string, levels []market.Level) []string {
	for i := 0; i < 3; i++ {
		if i < len(levels) {
			cells = append(cells, strconv.Itoa(levels[i].Price), strconv.Itoa(levels[i].Volume))
		} else {
			cells = append(cells, "", "")
		}
	}
	return cells
}

// ParseActivityRow parses one rendered activity row. Levels are
// prefix-contiguous: reading stops at the first empty price cell.
func ParseActivityRow(line string) (ActivityRow, error) {
	cells := strings.Split(line, ";")
	if len(cells) != 17 {
		return ActivityRow{}, fmt.Errorf("activity row has %d fields, want 17", len(cells))
	}

	var row ActivityRow
	var err error
	if row.Day, err = strconv.Atoi(cells[0]); err != nil {
		return ActivityRow{}, fmt.Errorf("invalid day %q: %w", cells[0], err)
	}
	if row.Timestamp, err = strconv.Atoi(cells[1]); err != nil {
		return ActivityRow{}, fmt.Errorf("invalid timestamp %q: %w", cells[1], err)
	}
	row.Product = cells[2]

	if row.Bids, err = parseLevelCells(cells[3:9]); err != nil {
		return ActivityRow{}, fmt.Errorf("invalid bid levels: %w", err)
	}
	if row.Asks, err = parseLevelCells(cells[9:15]); err != nil {
		return ActivityRow{}, fmt.Errorf("invalid ask levels: %w", err)
	}

	if row.MidPrice, err = strconv.ParseFloat(cells[15], 64); err != nil {
		return ActivityRow{}, fmt.Errorf("invalid mid price %q: %w", cells[15], err)
	}
	if row.ProfitLoss, err = strconv.ParseFloat(cells[16], 64); err != nil {
		return ActivityRow{}, fmt.Errorf("invalid profit and loss %q: %w", cells[16], err)
	}
	return row, nil
}

func parseLevelCells(cells []string) ([]market.Level, error) {
	var levels []market.Level
	for i := 0; i+1 < len(cells); i += 2 {
		if cells[i] == "" {
			break
		}
		price, err := strconv.Atoi(cells[i])
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", cells[i], err)
		}
		volume, err := strconv.Atoi(cells[i+1])
		if err != nil {
			return nil, fmt.Errorf("volume %q: %w", cells[i+1], err)
		}
		levels = append(levels, market.Level{Price: price, Volume: volume})
	}
	return levels, nil
}
