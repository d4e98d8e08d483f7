package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/sheikh-saqib/payment-engine/internal/models"
)

// AmountPlaces is the number of decimal places amounts are rendered with.
const AmountPlaces = 4

var header = []string{"client", "available", "held", "total", "locked"}

// Writer renders account records as CSV rows. It implements interfaces.RecordSink.
type Writer struct {
	csv         *csv.Writer
	wroteHeader bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

func (w *Writer) WriteRecord(rec models.Record) error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	return w.csv.Write([]string{
		strconv.FormatUint(uint64(rec.Client), 10),
		rec.Available.StringFixed(AmountPlaces),
		rec.Held.StringFixed(AmountPlaces),
		rec.Total.StringFixed(AmountPlaces),
		strconv.FormatBool(rec.Locked),
	})
}

// Flush writes any buffered rows. The header is written even when no
// record was exported.
func (w *Writer) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

func (w *Writer) writeHeader() error {
	if w.wroteHeader {
		return nil
	}
	w.wroteHeader = true
	return w.csv.Write(header)
}
