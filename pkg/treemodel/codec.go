package treemodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	mgerrors "github.com/matzehuels/mindgrove/pkg/errors"
	"github.com/matzehuels/mindgrove/pkg/tree"
)

// =============================================================================
// Artifact Serialization API
// =============================================================================

// Marshal converts an artifact to indented JSON bytes.
func Marshal(m TreeModel) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes an artifact as JSON to an io.Writer.
func Write(m TreeModel, w io.Writer) error {
	if m.Class == "" {
		m.Class = ModelClass
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes an artifact to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(m TreeModel, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(m, f)
}

// Read decodes a JSON artifact from an io.Reader.
// Use ReadFile for files or pass bytes.NewReader for in-memory data.
func Read(r io.Reader) (TreeModel, error) {
	var m TreeModel
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return TreeModel{}, mgerrors.Wrap(mgerrors.ErrCodeParse, err, "decode tree model")
	}
	if m.Class == "" {
		m.Class = ModelClass
	}
	return m, nil
}

// ReadFile reads a JSON file and returns the decoded artifact.
func ReadFile(path string) (TreeModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return TreeModel{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// =============================================================================
// Tolerant Decoding of Generator Output
// =============================================================================

// DecodeReport counts the individual records a loose decode had to drop.
// Dropped records are recovered locally; only a malformed envelope is
// fatal.
type DecodeReport struct {
	BadKey    int // key was neither an integer nor an integer string
	BadParent int // parent present but uncoercible
	BadText   int // text missing or uncoercible
}

// Total returns the number of records dropped during decoding.
func (r DecodeReport) Total() int { return r.BadKey + r.BadParent + r.BadText }

// looseNode defers field decoding so each field can be coerced
// independently without one bad value sinking the whole record.
type looseNode struct {
	Key    json.RawMessage `json:"key"`
	Text   json.RawMessage `json:"text"`
	Parent json.RawMessage `json:"parent"`
	Brush  string          `json:"brush"`
	Dir    string          `json:"dir"`
	Loc    string          `json:"loc"`
}

type looseModel struct {
	NodeDataArray []looseNode `json:"nodeDataArray"`
}

// DecodeRecords decodes loosely-typed generator JSON into raw records.
//
// Generators routinely emit keys as floats or quoted digits and texts as
// bare numbers; those are coerced. A record whose key or text resists
// coercion is dropped and counted in the report, together with any
// dependents the normalizer will later find orphaned. An envelope that is
// not a JSON object with a nodeDataArray fails with a PARSE_ERROR.
func DecodeRecords(data []byte) ([]tree.Record, DecodeReport, error) {
	var m looseModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, DecodeReport{}, mgerrors.Wrap(mgerrors.ErrCodeParse, err, "decode raw node list")
	}
	if m.NodeDataArray == nil {
		return nil, DecodeReport{}, mgerrors.New(mgerrors.ErrCodeParse, "raw node list has no nodeDataArray")
	}

	var report DecodeReport
	records := make([]tree.Record, 0, len(m.NodeDataArray))
	for _, n := range m.NodeDataArray {
		key, ok := coerceInt(n.Key)
		if !ok {
			report.BadKey++
			continue
		}
		text, ok := coerceString(n.Text)
		if !ok {
			report.BadText++
			continue
		}
		r := tree.Record{Key: key, Text: text, Brush: n.Brush, Dir: n.Dir, Loc: n.Loc}
		if len(n.Parent) > 0 && !bytes.Equal(n.Parent, []byte("null")) {
			parent, ok := coerceInt(n.Parent)
			if !ok {
				report.BadParent++
				continue
			}
			r.Parent = parent
			r.HasParent = true
		}
		records = append(records, r)
	}
	return records, report, nil
}

// coerceInt accepts integers, integral floats, and quoted integers.
func coerceInt(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var i int
	if err := json.Unmarshal(raw, &i); err == nil {
		return i, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil && f == float64(int(f)) {
		return int(f), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// coerceString accepts strings and stringifies bare numbers.
func coerceString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}
