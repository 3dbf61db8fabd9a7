package recording

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/OpenPSG/edf"
)

// maxRecordBytes is the EDF recommendation for one data record.
const maxRecordBytes = 61440

// ReadEDF reads every signal of an EDF file into physical units. The sample
// rate of a signal is its samples per record divided by the record duration.
func ReadEDF(r io.ReadSeeker) (*Recording, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("recording: rewind: %w", err)
	}
	er, err := edf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}

	rec := &Recording{
		PatientID:   h.patientID,
		RecordingID: h.recordingID,
		Start:       h.start,
		Signals:     make([]Signal, len(h.signals)),
	}
	for i, sh := range h.signals {
		sr, err := er.Signal(i)
		if err != nil {
			return nil, fmt.Errorf("recording: signal %d: %w", i, err)
		}
		data := make([]float64, h.records*sh.samplesPerRecord)
		n, err := sr.Read(data)
		if err != nil && !(errors.Is(err, io.EOF) && n == len(data)) {
			return nil, fmt.Errorf("recording: signal %q: %w", sh.label, err)
		}
		rec.Signals[i] = Signal{
			Label:        sh.label,
			Transducer:   sh.transducer,
			Unit:         sh.unit,
			Prefiltering: sh.prefiltering,
			SampleRate:   float64(sh.samplesPerRecord) / h.duration,
			PhysicalMin:  sh.physMin,
			PhysicalMax:  sh.physMax,
			DigitalMin:   sh.digMin,
			DigitalMax:   sh.digMax,
			Data:         data,
		}
	}
	return rec, nil
}

// ReadEDFFile reads the EDF file at path.
func ReadEDFFile(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	defer f.Close()
	return ReadEDF(f)
}

// WriteEDF writes rec as EDF with one-second data records and 16-bit
// samples. All signals must share an integral sample rate and a length; the
// last record is padded with each signal's final sample. The physical range
// of every signal is widened to cover its data.
func WriteEDF(w io.WriteSeeker, rec *Recording) error {
	n, err := rec.Samples()
	if err != nil {
		return err
	}
	fs, err := rec.SampleRate()
	if err != nil {
		return err
	}
	spr := int(math.Round(fs))
	if spr <= 0 || math.Abs(fs-float64(spr)) > 1e-9 {
		return fmt.Errorf("%w: %g Hz", ErrUnsupportedRate, fs)
	}
	if bytes := 2 * spr * len(rec.Signals); bytes > maxRecordBytes {
		return fmt.Errorf("recording: data record of %d bytes exceeds %d", bytes, maxRecordBytes)
	}

	hdr := edf.Header{
		Version:            edf.Version0,
		PatientID:          truncate(rec.PatientID, 80),
		RecordingID:        truncate(rec.RecordingID, 80),
		StartTime:          rec.Start,
		DataRecordDuration: time.Second,
		SignalCount:        len(rec.Signals),
		Signals:            make([]edf.Signal, len(rec.Signals)),
	}
	if hdr.StartTime.IsZero() {
		hdr.StartTime = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	for i := range rec.Signals {
		s := &rec.Signals[i]
		lo, hi, err := physicalRange(s)
		if err != nil {
			return err
		}
		hdr.Signals[i] = edf.Signal{
			Label:             truncate(s.Label, 16),
			TransducerType:    truncate(s.Transducer, 80),
			PhysicalDimension: truncate(s.Unit, 8),
			PhysicalMin:       lo,
			PhysicalMax:       hi,
			DigitalMin:        math.MinInt16,
			DigitalMax:        math.MaxInt16,
			Prefiltering:      truncate(s.Prefiltering, 80),
			SamplesPerRecord:  spr,
		}
	}

	ew, err := edf.Create(w, hdr)
	if err != nil {
		return fmt.Errorf("recording: %w", err)
	}
	record := make([][]float64, len(rec.Signals))
	for start := 0; start < n; start += spr {
		for i := range rec.Signals {
			record[i] = recordSlice(rec.Signals[i].Data, start, spr, record[i])
		}
		if err := ew.WriteRecord(record); err != nil {
			return fmt.Errorf("recording: record at sample %d: %w", start, err)
		}
	}
	if err := ew.Close(); err != nil {
		return fmt.Errorf("recording: %w", err)
	}
	return nil
}

// WriteEDFFile writes rec to path, replacing an existing file.
func WriteEDFFile(path string, rec *Recording) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("recording: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("recording: %w", cerr)
		}
	}()
	return WriteEDF(f, rec)
}

// recordSlice returns data[start:start+size], padded with the last sample.
func recordSlice(data []float64, start, size int, buf []float64) []float64 {
	end := start + size
	if end <= len(data) {
		return data[start:end]
	}
	if cap(buf) < size {
		buf = make([]float64, size)
	}
	buf = buf[:size]
	k := copy(buf, data[start:])
	for i := k; i < size; i++ {
		buf[i] = data[len(data)-1]
	}
	return buf
}

// physicalRange returns header limits that enclose the data of s and
// survive the 8-character header fields unchanged. The existing calibration
// is kept when it already covers the data.
func physicalRange(s *Signal) (lo, hi float64, err error) {
	dmin, dmax := math.Inf(1), math.Inf(-1)
	for _, v := range s.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("recording: signal %q has non-finite samples", s.Label)
		}
		dmin, dmax = min(dmin, v), max(dmax, v)
	}
	if span := s.PhysicalMax - s.PhysicalMin; span > 0 &&
		s.PhysicalMin-1e-9*span <= dmin && dmax <= s.PhysicalMax+1e-9*span &&
		fitsField(s.PhysicalMin) && fitsField(s.PhysicalMax) {
		return s.PhysicalMin, s.PhysicalMax, nil
	}

	lo, hi = math.Floor(dmin*100)/100, math.Ceil(dmax*100)/100
	if !fitsField(lo) || !fitsField(hi) {
		lo, hi = math.Floor(dmin), math.Ceil(dmax)
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi, nil
}

// fitsField reports whether v is written to the header without loss.
func fitsField(v float64) bool {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if len(s) > 8 {
		s = strconv.FormatFloat(v, 'f', 0, 64)
	}
	parsed, err := strconv.ParseFloat(s, 64)
	return err == nil && len(s) <= 8 && parsed == v
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
