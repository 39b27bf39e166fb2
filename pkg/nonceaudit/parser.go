package nonceaudit

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
)

// SignatureParser loads audit records from a source.
type SignatureParser interface {
	// ParseSignatures parses the records stored at source.
	ParseSignatures(source string) ([]*Record, error)
}

// JSONParser parses records from a JSON array of objects.
type JSONParser struct {
	MessageField string // Field name for message (default: "message")
	RField       string // Field name for r (default: "r")
	SField       string // Field name for s (default: "s")
	ZField       string // Field name for z (default: "z")
}

// ParseSignatures parses records from a JSON file.
//
// Expected format:
//
//	[
//	  {"message": "...", "r": "0x...", "s": "0x..."},
//	  {"z": "0x...", "r": "0x...", "s": "0x..."}
//	]
//
// String values are hex, with or without the 0x prefix. Bare JSON numbers
// are decimal. A precomputed z takes precedence over the message.
func (p *JSONParser) ParseSignatures(jsonFile string) ([]*Record, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.parse(file)
}

func (p *JSONParser) parse(r io.Reader) ([]*Record, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	messageField := orDefault(p.MessageField, "message")
	zField := orDefault(p.ZField, "z")
	rField := orDefault(p.RField, "r")
	sField := orDefault(p.SField, "s")

	records := make([]*Record, 0, len(items))
	for i, item := range items {
		rec := &Record{}

		if zVal, ok := item[zField]; ok {
			z, err := parseBigInt(zVal)
			if err != nil {
				return nil, fmt.Errorf("record %d: failed to parse z: %w", i, err)
			}
			rec.Z = z
		} else if msgVal, ok := item[messageField]; ok {
			message, ok := msgVal.(string)
			if !ok {
				return nil, fmt.Errorf("record %d: message field must be a string", i)
			}
			rec.Z = ecdsa.HashMessage([]byte(message))
		} else {
			return nil, fmt.Errorf("record %d: missing message or z field", i)
		}

		for _, f := range []struct {
			name string
			dst  **big.Int
		}{{rField, &rec.R}, {sField, &rec.S}} {
			val, ok := item[f.name]
			if !ok {
				return nil, fmt.Errorf("record %d: missing %s field", i, f.name)
			}
			v, err := parseBigInt(val)
			if err != nil {
				return nil, fmt.Errorf("record %d: failed to parse %s: %w", i, f.name, err)
			}
			*f.dst = v
		}

		records = append(records, rec)
	}

	log.Debugf("Parsed %d records from JSON", len(records))
	return records, nil
}

// CSVParser parses records from a CSV file with a header row.
type CSVParser struct {
	MessageCol string // Column name for message (default: "message")
	RCol       string // Column name for r (default: "r")
	SCol       string // Column name for s (default: "s")
	ZCol       string // Column name for z (default: "z")
}

// ParseSignatures parses records from a CSV file.
func (p *CSVParser) ParseSignatures(csvFile string) ([]*Record, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.parse(file)
}

func (p *CSVParser) parse(r io.Reader) ([]*Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.TrimSpace(col)] = i
	}

	messageIdx, hasMessage := columns[orDefault(p.MessageCol, "message")]
	zIdx, hasZ := columns[orDefault(p.ZCol, "z")]
	rIdx, hasR := columns[orDefault(p.RCol, "r")]
	sIdx, hasS := columns[orDefault(p.SCol, "s")]
	if !hasR || !hasS {
		return nil, errors.New("missing required columns: r or s")
	}
	if !hasMessage && !hasZ {
		return nil, errors.New("missing message or z column")
	}

	var records []*Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		rec := &Record{}
		if hasZ {
			if rec.Z, err = parseBigInt(row[zIdx]); err != nil {
				return nil, fmt.Errorf("line %d: failed to parse z: %w", line, err)
			}
		} else {
			rec.Z = ecdsa.HashMessage([]byte(row[messageIdx]))
		}
		if rec.R, err = parseBigInt(row[rIdx]); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse r: %w", line, err)
		}
		if rec.S, err = parseBigInt(row[sIdx]); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse s: %w", line, err)
		}

		records = append(records, rec)
	}

	log.Debugf("Parsed %d records from CSV", len(records))
	return records, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// parseBigInt parses a non-negative integer. Strings are hex with an optional
// 0x prefix, so zero padded %064x output round trips. JSON numbers are
// decimal.
func parseBigInt(val interface{}) (*big.Int, error) {
	var s string
	base := 16
	switch v := val.(type) {
	case string:
		s = strings.TrimSpace(v)
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s = s[2:]
		}
	case json.Number:
		s = v.String()
		base = 10
	default:
		return nil, fmt.Errorf("unsupported type: %T", val)
	}

	// SetString accepts a leading sign.
	if s == "" || s[0] == '-' || s[0] == '+' {
		return nil, fmt.Errorf("invalid number format: %q", s)
	}
	z, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid number format: %q", s)
	}
	return z, nil
}
