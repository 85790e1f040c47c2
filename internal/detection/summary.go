package detection

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// RoundConfidence rounds a score to 3 decimal places. Rounding is done on
// the exact binary value, with exact ties going to even.
func RoundConfidence(score float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(score, 'f', 3, 64), 64)
	if err != nil {
		return score
	}
	return r
}

// Summarize converts one filtered detection into its display record.
func Summarize(f FilteredDetection) DetectionRecord {
	return DetectionRecord{
		Label:      f.Label,
		Confidence: RoundConfidence(f.Score),
		Box:        [4]int{f.XMin, f.YMin, f.XMax, f.YMax},
	}
}

// SummarizeAll converts every detection, preserving order. The result is
// never nil.
func SummarizeAll(dets []FilteredDetection) []DetectionRecord {
	records := make([]DetectionRecord, 0, len(dets))
	for _, d := range dets {
		records = append(records, Summarize(d))
	}
	return records
}

// WriteTable writes records as an aligned text table with a header row.
func WriteTable(w io.Writer, records []DetectionRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Label\tConfidence\tBox (xmin, ymin, xmax, ymax)")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%.3f\t(%d, %d, %d, %d)\n", r.Label, r.Confidence, r.Box[0], r.Box[1], r.Box[2], r.Box[3])
	}
	return tw.Flush()
}
