package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/mmynk/hallcount/internal/matcher"
	"github.com/mmynk/hallcount/internal/models"
	"github.com/mmynk/hallcount/internal/storage"
)

func writeMatch(w io.Writer, heads, signatures int, r matcher.Result) {
	fmt.Fprintf(w, "Heads:      %d\n", heads)
	fmt.Fprintf(w, "Signatures: %d\n", signatures)
	fmt.Fprintf(w, "Difference: %d\n", r.Difference)
	fmt.Fprintf(w, "Accuracy:   %.1f%%\n", r.Accuracy)
	fmt.Fprintf(w, "Status:     %s\n", matcher.Classify(r))
	fmt.Fprintln(w, matcher.Explain(heads, signatures, r))
}

func writeHistory(w io.Writer, records []*models.CountRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSESSION\tTIME\tHEADS\tSIGNATURES\tRESULT")
	for _, r := range records {
		session := r.SessionName
		if session == "" {
			session = "-"
		}
		signatures, result := "-", "pending"
		if sig, ok := r.SignatureCount(); ok {
			signatures = strconv.Itoa(sig)
			result = "mismatch"
			if matched, _ := r.IsMatched(); matched {
				result = "matched"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			shortID(r.ID),
			session,
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.HeadCount,
			signatures,
			result,
		)
	}
	return tw.Flush()
}

func writeStats(w io.Writer, s *storage.Stats) {
	fmt.Fprintf(w, "Hall scans:       %d\n", s.CountRecords)
	fmt.Fprintf(w, "Signature scans:  %d\n", s.SignatureRecords)
	fmt.Fprintf(w, "Verifications:    %d\n", s.Verifications)
	fmt.Fprintf(w, "Verified:         %d\n", s.Verified)
	if s.Verifications > 0 {
		fmt.Fprintf(w, "Mean accuracy:    %.1f%%\n", s.MeanAccuracy)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
