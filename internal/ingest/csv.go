package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// RawClaim is one source record before schema normalization: raw field
// name -> raw string value, keyed by whatever vocabulary the source uses.
type RawClaim map[string]string

// ReadAlphaCSV loads the alpha EMR export. The first row is the header;
// every following row becomes one RawClaim keyed by the header names.
// Ragged rows fail the whole read.
func ReadAlphaCSV(path string) ([]RawClaim, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 256*1024)
	skipBOM(br)

	r := csv.NewReader(br)
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %s: empty file", path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var batch []RawClaim
	for {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return batch, nil
			}
			return nil, fmt.Errorf("read row: %w", err)
		}

		if allEmpty(row) {
			continue
		}

		rec := make(RawClaim, len(header))
		for i, name := range header {
			rec[name] = row[i]
		}
		batch = append(batch, rec)
	}
}

func allEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// skipBOM discards a UTF-8 byte order mark if the stream starts with one.
func skipBOM(br *bufio.Reader) {
	bom, err := br.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}
}
