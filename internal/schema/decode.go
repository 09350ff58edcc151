package schema

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// decoder reads typed fields out of a JSON object one at a time and collects
// every failure instead of stopping at the first one.
type decoder struct {
	raw    map[string]json.RawMessage
	errs   Errors
	failed map[string]bool
}

func newDecoder(body []byte) (*decoder, error) {
	if !json.Valid(body) {
		return nil, Errors{fieldError(TypeJSONInvalid, "", "Invalid JSON", nil)}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, Errors{fieldError(TypeNotObject, "", "Input should be a valid dictionary or object to extract fields from", nil)}
	}

	return &decoder{raw: raw, failed: make(map[string]bool)}, nil
}

func (d *decoder) fail(typ, field, msg string, input any) {
	d.failed[field] = true
	d.errs = append(d.errs, fieldError(typ, field, msg, input))
}

// lookup returns the raw value of field. A missing required field is recorded
// as an error.
func (d *decoder) lookup(field string, required bool) (json.RawMessage, bool) {
	raw, ok := d.raw[field]
	if !ok {
		if required {
			d.fail(TypeMissing, field, "Field required", nil)
		}
		return nil, false
	}
	return raw, true
}

// str decodes a string field. Only JSON strings are accepted.
func (d *decoder) str(field string, required bool) (string, bool) {
	raw, ok := d.lookup(field, required)
	if !ok {
		return "", false
	}

	var s string
	if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &s) != nil {
		d.fail(TypeString, field, "Input should be a valid string", rawInput(raw))
		return "", false
	}
	return s, true
}

// integer decodes an integer field. JSON numbers without a fractional part and
// strings holding a base-10 integer are accepted.
func (d *decoder) integer(field string, required bool) (int64, bool) {
	raw, ok := d.lookup(field, required)
	if !ok {
		return 0, false
	}

	switch v := rawInput(raw).(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
			d.fail(TypeInt, field, "Input should be a valid integer", v)
			return 0, false
		}
		if f != math.Trunc(f) {
			d.fail(TypeIntFromFloat, field, "Input should be a valid integer, got a number with a fractional part", v)
			return 0, false
		}
		return int64(f), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			d.fail(TypeIntParsing, field, "Input should be a valid integer, unable to parse string as an integer", v)
			return 0, false
		}
		return n, true
	default:
		d.fail(TypeInt, field, "Input should be a valid integer", v)
		return 0, false
	}
}

// rawInput decodes raw for echoing back in an error entry.
func rawInput(raw json.RawMessage) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}
