package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// ReadBetaJSON loads the beta EMR export: a top-level JSON array of flat
// objects. Scalar values are kept as their literal text (numbers verbatim
// via json.Number); JSON null becomes the empty string so the sentinel
// rule applies downstream.
func ReadBetaJSON(path string) ([]RawClaim, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 256*1024)
	skipBOM(br)

	dec := json.NewDecoder(br)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read opening token: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("expected top-level array, got %v", tok)
	}

	var batch []RawClaim
	for dec.More() {
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", len(batch)+1, err)
		}

		rec := make(RawClaim, len(obj))
		for k, v := range obj {
			rec[k] = scalarString(v)
		}
		batch = append(batch, rec)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read closing token: %w", err)
	}

	return batch, nil
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
