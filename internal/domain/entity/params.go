package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
)

// Param is one submitted spout parameter. Value is the JSON encoding of the
// submitted value, kept as given.
type Param struct {
	ID    string
	Value json.RawMessage
}

// Text returns the value as validation rules see it: strings unquoted,
// numbers as written, true as "1", false and null as "", arrays and objects
// as their JSON text.
func (p Param) Text() string {
	raw := bytes.TrimSpace(p.Value)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case 't':
		return "1"
	case 'f', 'n':
		return ""
	}
	return string(raw)
}

// Params holds the spout parameters of a source in submission order.
// The JSON form is an object whose keys keep that order.
type Params []Param

// NewParams builds Params from alternating ids and string values.
// It panics when given an odd number of arguments.
func NewParams(pairs ...string) Params {
	if len(pairs)%2 == 1 {
		panic("entity.NewParams: odd argument count")
	}
	p := make(Params, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		p = p.SetString(pairs[i], pairs[i+1])
	}
	return p
}

func (p Params) index(id string) int {
	for i := range p {
		if p[i].ID == id {
			return i
		}
	}
	return -1
}

// Has reports whether a value was submitted for id.
func (p Params) Has(id string) bool {
	return p.index(id) >= 0
}

// Value returns the raw JSON value submitted for id.
func (p Params) Value(id string) (json.RawMessage, bool) {
	if i := p.index(id); i >= 0 {
		return p[i].Value, true
	}
	return nil, false
}

// Text returns the textual value of id, or "" when it was not submitted.
func (p Params) Text(id string) string {
	if i := p.index(id); i >= 0 {
		return p[i].Text()
	}
	return ""
}

// Set stores value under id. An existing id keeps its position and takes the
// new value; a new id is appended. The backing array of p may be modified.
func (p Params) Set(id string, value json.RawMessage) Params {
	if i := p.index(id); i >= 0 {
		p[i].Value = value
		return p
	}
	return append(p, Param{ID: id, Value: value})
}

// SetString stores a string value under id.
func (p Params) SetString(id, value string) Params {
	raw, _ := json.Marshal(value) // strings always encode
	return p.Set(id, raw)
}

// MarshalJSON writes p as a JSON object in submission order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(param.ID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		switch {
		case len(param.Value) == 0:
			buf.WriteString("null")
		case json.Valid(param.Value):
			buf.Write(param.Value)
		default:
			return nil, fmt.Errorf("params: %q: invalid JSON value", param.ID)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var errParamsShape = errors.New("params: want a JSON object")

// UnmarshalJSON reads a JSON object keeping key order. null and an empty
// list decode to empty Params. A repeated key keeps its first position and
// its last value.
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("params: %w", err)
	}

	switch tok {
	case nil:
		*p = Params{}
		return nil
	case json.Delim('['):
		// PHP encodes an empty array as a JSON list.
		if end, err := dec.Token(); err != nil || end != json.Delim(']') {
			return errParamsShape
		}
		*p = Params{}
		return nil
	case json.Delim('{'):
	default:
		return errParamsShape
	}

	out := Params{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("params: %w", err)
		}
		id, ok := tok.(string)
		if !ok {
			return errParamsShape
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("params: %q: %w", id, err)
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return fmt.Errorf("params: %q: %w", id, err)
		}
		out = out.Set(id, compact.Bytes())
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("params: %w", err)
	}

	*p = out
	return nil
}

// paramsEscaper produces the entity form used by existing selfoss databases.
// json.Marshal already escapes <, > and & so only quotes remain.
var paramsEscaper = strings.NewReplacer(`"`, "&quot;", `'`, "&#039;")

// EncodeParams serializes params for the sources.params column.
// The JSON document is HTML-escaped before storage so that rows written by
// older installations and rows written here share one format.
func EncodeParams(p Params) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode params: %w", err)
	}
	return paramsEscaper.Replace(string(raw)), nil
}

// DecodeParams reverses EncodeParams.
func DecodeParams(stored string) (Params, error) {
	stored = strings.TrimSpace(stored)
	if stored == "" {
		return Params{}, nil
	}

	var p Params
	if err := json.Unmarshal([]byte(html.UnescapeString(stored)), &p); err != nil {
		return nil, fmt.Errorf("decode params: %w", err)
	}
	if p == nil {
		p = Params{}
	}
	return p, nil
}
