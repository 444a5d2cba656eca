package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ActivityHeader is the fixed header row of the activities section.
const ActivityHeader = "day;timestamp;product;bid_price_1;bid_volume_1;bid_price_2;bid_volume_2;bid_price_3;bid_volume_3;ask_price_1;ask_volume_1;ask_price_2;ask_volume_2;ask_price_3;ask_volume_3;mid_price;profit_and_loss"

// Write renders the three sections of a result bundle. Sandbox rows are
// written without an added newline: their text carries its own line
// endings, empty text included.
func Write(w io.Writer, result Result) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("Sandbox logs:\n"); err != nil {
		return err
	}
	for _, row := range result.SandboxRows {
		if _, err := fmt.Fprintf(bw, "%d %s", row.Timestamp, row.Text); err != nil {
			return err
		}
	}

	if _, err := bw.WriteString("\nSubmission logs:\n"); err != nil {
		return err
	}
	for _, row := range result.SubmissionRows {
		if _, err := fmt.Fprintf(bw, "%d %s\n", row.Timestamp, row.Message); err != nil {
			return err
		}
	}

	if _, err := bw.WriteString("\nActivities log:\n"); err != nil {
		return err
	}
	if _, err := bw.WriteString(ActivityHeader + "\n"); err != nil {
		return err
	}
	for _, row := range result.ActivityRows {
		if _, err := bw.WriteString(row.Render() + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteFile writes the bundle to path, creating parent directories as
// needed.
func WriteFile(path string, result Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating result bundle: %w", err)
	}

	if err := Write(f, result); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing result bundle: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing result bundle: %w", err)
	}
	return nil
}
