package recording

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// header is the subset of the EDF header needed to interpret the signals.
type header struct {
	patientID   string
	recordingID string
	start       time.Time
	records     int
	duration    float64 // seconds per data record
	signals     []signalHeader
}

type signalHeader struct {
	label, transducer, unit, prefiltering string
	physMin, physMax                      float64
	digMin, digMax                        int
	samplesPerRecord                      int
}

// fieldReader reads consecutive fixed-width ASCII fields and keeps the first
// error.
type fieldReader struct {
	r   io.Reader
	err error
}

func (f *fieldReader) str(width int) string {
	if f.err != nil {
		return ""
	}
	b := make([]byte, width)
	if _, err := io.ReadFull(f.r, b); err != nil {
		f.err = fmt.Errorf("%w: %v", ErrBadHeader, err)
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (f *fieldReader) int(width int, name string) int {
	s := f.str(width)
	if f.err != nil {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f.err = fmt.Errorf("%w: %s %q", ErrBadHeader, name, s)
	}
	return v
}

func (f *fieldReader) float(width int, name string) float64 {
	s := f.str(width)
	if f.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f.err = fmt.Errorf("%w: %s %q", ErrBadHeader, name, s)
	}
	return v
}

// readHeader parses the fixed 256-byte header and the per-signal fields.
func readHeader(r io.Reader) (*header, error) {
	f := &fieldReader{r: r}
	h := &header{}

	f.str(8) // version
	h.patientID = f.str(80)
	h.recordingID = f.str(80)
	date, clock := f.str(8), f.str(8)
	f.int(8, "header bytes")
	f.str(44) // reserved
	h.records = f.int(8, "data records")
	h.duration = f.float(8, "record duration")
	ns := f.int(4, "signal count")
	if f.err != nil {
		return nil, f.err
	}
	if ns <= 0 || h.records < 0 || !(h.duration > 0) {
		return nil, fmt.Errorf("%w: %d signals, %d records of %gs", ErrBadHeader, ns, h.records, h.duration)
	}
	if start, err := time.Parse("02.01.06 15.04.05", date+" "+clock); err == nil {
		h.start = start
	}

	sh := make([]signalHeader, ns)
	for i := range sh {
		sh[i].label = f.str(16)
	}
	for i := range sh {
		sh[i].transducer = f.str(80)
	}
	for i := range sh {
		sh[i].unit = f.str(8)
	}
	for i := range sh {
		sh[i].physMin = f.float(8, "physical minimum")
	}
	for i := range sh {
		sh[i].physMax = f.float(8, "physical maximum")
	}
	for i := range sh {
		sh[i].digMin = f.int(8, "digital minimum")
	}
	for i := range sh {
		sh[i].digMax = f.int(8, "digital maximum")
	}
	for i := range sh {
		sh[i].prefiltering = f.str(80)
	}
	for i := range sh {
		sh[i].samplesPerRecord = f.int(8, "samples per record")
	}
	for range sh {
		f.str(32) // reserved
	}
	if f.err != nil {
		return nil, f.err
	}
	h.signals = sh
	return h, nil
}
