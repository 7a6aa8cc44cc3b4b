package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/hallcount/internal/matcher"
	"github.com/mmynk/hallcount/internal/models"
	"github.com/mmynk/hallcount/internal/storage"
)

func TestWriteMatch(t *testing.T) {
	r, err := matcher.Match(30, 20)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}

	var buf bytes.Buffer
	writeMatch(&buf, 30, 20, r)
	out := buf.String()

	for _, want := range []string{
		"Difference: 10",
		"Accuracy:   66.7%",
		"Status:     major_discrepancy",
		"10 people may have attended without signing",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteHistory(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeHistory(&buf, nil); err != nil {
			t.Fatalf("writeHistory failed: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "No records found." {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("rows", func(t *testing.T) {
		compared := &models.CountRecord{
			ID:          "0123456789abcdef",
			HeadCount:   42,
			SessionName: "CS 101",
			Timestamp:   time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		}
		r, _ := matcher.Match(42, 41)
		compared.SetComparison(41, r)

		pending := &models.CountRecord{ID: "short", HeadCount: 7, Timestamp: time.Now()}

		var buf bytes.Buffer
		if err := writeHistory(&buf, []*models.CountRecord{compared, pending}); err != nil {
			t.Fatalf("writeHistory failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
		}
		if !strings.HasPrefix(lines[0], "ID") {
			t.Errorf("missing header: %q", lines[0])
		}
		if fields := strings.Fields(lines[1]); fields[0] != "01234567" || fields[len(fields)-1] != "matched" {
			t.Errorf("unexpected row: %q", lines[1])
		}
		if fields := strings.Fields(lines[2]); fields[0] != "short" || fields[1] != "-" || fields[len(fields)-1] != "pending" {
			t.Errorf("unexpected row: %q", lines[2])
		}
	})
}

func TestWriteStats(t *testing.T) {
	var buf bytes.Buffer
	writeStats(&buf, &storage.Stats{CountRecords: 3, SignatureRecords: 2, Verifications: 2, Verified: 1, MeanAccuracy: 92.24})
	out := buf.String()
	if !strings.Contains(out, "Hall scans:       3") || !strings.Contains(out, "Mean accuracy:    92.2%") {
		t.Errorf("unexpected output:\n%s", out)
	}

	buf.Reset()
	writeStats(&buf, &storage.Stats{})
	if strings.Contains(buf.String(), "Mean accuracy") {
		t.Errorf("mean accuracy should be hidden without verifications:\n%s", buf.String())
	}
}
