package linalg

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteCSV writes m as plain text, one matrix column per line with the
// column's values separated by commas.
func WriteCSV(w io.Writer, m *Matrix) error {
	if err := m.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	var line []byte
	for c := 0; c < m.Cols; c++ {
		line = line[:0]
		for r, v := range m.Col(c) {
			if r > 0 {
				line = append(line, ',')
			}
			line = strconv.AppendFloat(line, v, 'g', 14, 64)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("linalg: write csv: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("linalg: write csv: %w", err)
	}
	return nil
}

// ReadCSV parses the format produced by WriteCSV. Every line must carry the
// same number of values; the line count becomes the column count.
func ReadCSV(r io.Reader) (*Matrix, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	var (
		data []float64
		rows = -1
		cols int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, csv.ErrFieldCount) {
			return nil, fmt.Errorf("%w: line %d", ErrRaggedCSV, cols+1)
		}
		if err != nil {
			return nil, fmt.Errorf("linalg: read csv: %w", err)
		}
		if rows < 0 {
			rows = len(rec)
		}
		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("linalg: read csv: line %d value %d: %w", cols+1, i+1, err)
			}
			data = append(data, v)
		}
		cols++
	}
	if cols == 0 {
		return nil, ErrEmptyMatrix
	}
	return &Matrix{
		Rows:      rows,
		Cols:      cols,
		LD:        rows,
		AllocCols: cols,
		Data:      data,
	}, nil
}
