// Package record buffers reaction-curve samples in a fixed-capacity
// arena and renders them as CSV.
package record

import (
	"fmt"
	"io"
)

// Record is one reaction-curve sample. Records are immutable once
// appended.
type Record struct {
	// TimeMs is elapsed milliseconds since sweep start,
	// non-decreasing across records.
	TimeMs uint32
	// Duty is the duty cycle applied when the sample was taken,
	// 0 to 100.
	Duty uint8
	// RPM is the speed estimated over the sampling window.
	RPM float64
}

// CSVHeader is the header line of an exported curve.
const CSVHeader = "Tiempo_ms,PWM,RPM"

// Recorder is an append-only sample buffer with a fixed capacity.
// Once full, further samples are silently dropped, never overwritten;
// memory stays bounded for the life of the process.
type Recorder struct {
	records []Record
	dropped int
}

// NewRecorder creates a Recorder holding at most capacity records.
func NewRecorder(capacity int) *Recorder {
	return &Recorder{records: make([]Record, 0, capacity)}
}

// Reset clears the buffer. Called only at sweep start.
func (r *Recorder) Reset() {
	r.records = r.records[:0]
	r.dropped = 0
}

// TryAppend appends rec if there is room and reports whether it was
// stored.
func (r *Recorder) TryAppend(rec Record) bool {
	if len(r.records) == cap(r.records) {
		r.dropped++
		return false
	}
	r.records = append(r.records, rec)
	return true
}

// Len returns the number of buffered records.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Dropped returns how many samples were discarded since the last
// Reset because the buffer was full.
func (r *Recorder) Dropped() int {
	return r.dropped
}

// Export returns the buffered records in insertion order. The result
// is a copy; calling Export repeatedly yields identical content.
func (r *Recorder) Export() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// WriteCSV writes the header line followed by one line per record,
// RPM at two decimals.
func (r *Recorder) WriteCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, CSVHeader); err != nil {
		return err
	}
	for _, rec := range r.records {
		if _, err := fmt.Fprintf(w, "%d,%d,%.2f\n", rec.TimeMs, rec.Duty, rec.RPM); err != nil {
			return err
		}
	}
	return nil
}
