package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/backtide/backtide/internal/logger"
	"github.com/backtide/backtide/internal/market"
)

const (
	roundDirPattern = "round%d"
	pricesPattern   = "prices_round_%d_day_%d.csv"
	tradesPattern   = "trades_round_%d_day_%d_wn.csv"
	pricesPrefix    = "prices_round_"
)

// DayRef identifies one trading day inside a round.
type DayRef struct {
	Round int
	Day   int
}

// String renders the selector form of the reference, e.g. "1-0" or "2--1".
func (r DayRef) String() string {
	return fmt.Sprintf("%d-%d", r.Round, r.Day)
}

// PricesPath returns the price file path for a day under dataDir.
func PricesPath(dataDir string, ref DayRef) string {
	return filepath.Join(dataDir, fmt.Sprintf(roundDirPattern, ref.Round), fmt.Sprintf(pricesPattern, ref.Round, ref.Day))
}

// TradesPath returns the trade file path for a day under dataDir.
func TradesPath(dataDir string, ref DayRef) string {
	return filepath.Join(dataDir, fmt.Sprintf(roundDirPattern, ref.Round), fmt.Sprintf(tradesPattern, ref.Round, ref.Day))
}

// ExpandSelectors turns command line day selectors into day references.
//
// Two forms are accepted:
//   - "ROUND-DAY" (e.g. "1-0", "2--1"): a single day. The split happens at
//     the FIRST dash, so negative day numbers work.
//   - "ROUND" (e.g. "3"): every day that has a price file in the round
//     directory.
//
// Duplicates collapse and the result is ordered by round then day, so the
// session order (and with it the merge order) is chronological no matter
// how the arguments were given.
func ExpandSelectors(dataDir string, args []string) ([]DayRef, error) {
	seen := make(map[DayRef]struct{})
	for _, arg := range args {
		if roundPart, dayPart, found := strings.Cut(arg, "-"); found {
			round, err := strconv.Atoi(roundPart)
			if err != nil {
				return nil, fmt.Errorf("invalid selector %q: bad round: %v", arg, err)
			}
			day, err := strconv.Atoi(dayPart)
			if err != nil {
				return nil, fmt.Errorf("invalid selector %q: bad day: %v", arg, err)
			}
			seen[DayRef{Round: round, Day: day}] = struct{}{}
			continue
		}

		round, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid selector %q: %v", arg, err)
		}
		expanded, err := daysInRound(dataDir, round)
		if err != nil {
			return nil, err
		}
		for _, ref := range expanded {
			seen[ref] = struct{}{}
		}
	}

	refs := make([]DayRef, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Round != refs[j].Round {
			return refs[i].Round < refs[j].Round
		}
		return refs[i].Day < refs[j].Day
	})
	return refs, nil
}

// daysInRound lists every day with a price file in the round directory.
func daysInRound(dataDir string, round int) ([]DayRef, error) {
	dir := filepath.Join(dataDir, fmt.Sprintf(roundDirPattern, round))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("round %d: %w", round, err)
	}

	var refs []DayRef
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, pricesPrefix) || !strings.HasSuffix(name, ".csv") {
			continue
		}
		stem := strings.TrimSuffix(name, ".csv")
		parts := strings.Split(stem, "_")
		day, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			return nil, fmt.Errorf("round %d: cannot read day from file name %q: %v", round, name, err)
		}
		refs = append(refs, DayRef{Round: round, Day: day})
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("round %d has no price files under %s", round, dir)
	}
	return refs, nil
}

// VerifyFiles checks upfront that the price and trade files for every
// referenced day exist, so a multi-day run fails before any work starts.
func VerifyFiles(dataDir string, refs []DayRef) error {
	var missing []string
	for _, ref := range refs {
		for _, path := range []string{PricesPath(dataDir, ref), TradesPath(dataDir, ref)} {
			if _, err := os.Stat(path); err != nil {
				if os.IsNotExist(err) {
					missing = append(missing, filepath.Base(path))
				} else {
					return fmt.Errorf("stat failed for %s: %w", path, err)
				}
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required files: %s", strings.Join(missing, ", "))
	}
	return nil
}

// LoadDay reads the price and trade files for one day and builds the
// indexed market data for it.
func LoadDay(ctx context.Context, dataDir string, ref DayRef) (*market.Day, error) {
	start := time.Now()

	pricesPath := PricesPath(dataDir, ref)
	snapshots, err := LoadPrices(ctx, pricesPath)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", pricesPath, err)
	}

	tradesPath := TradesPath(dataDir, ref)
	trades, err := LoadTrades(ctx, tradesPath)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", tradesPath, err)
	}

	day := market.NewDay(ref.Round, ref.Day, snapshots, trades)
	logger.L().Debug().
		Str("day", ref.String()).
		Int("price_rows", len(snapshots)).
		Int("trade_rows", len(trades)).
		Dur("elapsed", time.Since(start)).
		Msg("day loaded")
	return day, nil
}
