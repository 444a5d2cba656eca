package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backtide/backtide/internal/market"
)

func sampleResult() Result {
	return Result{
		Round: 1, Day: 0,
		SandboxRows: []SandboxRow{
			{Timestamp: 0, Text: "hello\n"},
			{Timestamp: 100, Text: ""},
			{Timestamp: 200, Text: "world\n"},
		},
		SubmissionRows: []SubmissionRow{
			{Timestamp: 100, Message: "Orders for product PEARLS exceeded limit of 20 set"},
		},
		ActivityRows: []ActivityRow{
			{
				Timestamp: 0, Product: "PEARLS",
				Bids:     []market.Level{{Price: 10, Volume: 5}},
				Asks:     []market.Level{{Price: 12, Volume: 5}},
				MidPrice: 11, ProfitLoss: 0,
			},
		},
	}
}

func TestWrite_BundleShape(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleResult()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := "Sandbox logs:\n" +
		"0 hello\n" +
		"100 200 world\n" + // empty text carries no newline, rows run together
		"\nSubmission logs:\n" +
		"100 Orders for product PEARLS exceeded limit of 20 set\n" +
		"\nActivities log:\n" +
		ActivityHeader + "\n" +
		"0;0;PEARLS;10;5;;;;;12;5;;;;;11.0;0.0\n"

	if got := buf.String(); got != want {
		t.Fatalf("bundle mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestWrite_EmptyResultStillHasSections(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Result{}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := buf.String()
	for _, section := range []string{"Sandbox logs:\n", "\nSubmission logs:\n", "\nActivities log:\n"} {
		if !strings.Contains(out, section) {
			t.Fatalf("bundle missing section %q: %q", section, out)
		}
	}
	if !strings.Contains(out, ActivityHeader) {
		t.Fatalf("bundle missing activity header")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backtests", "1-0_2023-04-01_12-00-00.log")

	if err := WriteFile(path, sampleResult()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(data), "Sandbox logs:\n") {
		t.Fatalf("file does not start with the sandbox section: %q", string(data[:40]))
	}
}
