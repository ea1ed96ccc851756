package preference

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Shape identifies which historical backend layout a record was decoded from.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeFlat is {"category": "history", "subDomain": "Ancient India"}.
	ShapeFlat
	// ShapeNested is {"category": {"category": "history"}, "subDomain": "Modern India"}.
	ShapeNested
	// ShapeBare is a plain category string.
	ShapeBare
	// ShapeScanned is an object whose keys are spelling variants, e.g. {"Category": "x", "sub_domain": "y"}.
	ShapeScanned
)

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeNested:
		return "nested"
	case ShapeBare:
		return "bare"
	case ShapeScanned:
		return "scanned"
	default:
		return "unknown"
	}
}

// Record is one preference entry reduced to the fields every shape shares.
// Records with ShapeUnknown carry no category and are dropped by Normalize.
type Record struct {
	Shape      Shape
	Category   string
	SubDomains []string
}

// Flat builds a record in the current backend layout.
func Flat(category string, subDomains ...string) Record {
	return Record{Shape: ShapeFlat, Category: category, SubDomains: subDomains}
}

// Bare builds a category-only record.
func Bare(category string) Record {
	return Record{Shape: ShapeBare, Category: category}
}

// UnmarshalJSON classifies raw JSON into one of the known shapes. It only
// fails on malformed JSON; unrecognised layouts decode to ShapeUnknown.
func (r *Record) UnmarshalJSON(data []byte) error {
	*r = Record{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "" {
			*r = Bare(s)
		}
		return nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		*r = classify(fields)
		return nil
	default:
		// numbers, arrays, null: validate and drop
		var discard any
		return json.Unmarshal(data, &discard)
	}
}

// MarshalJSON always writes the flat layout.
func (r Record) MarshalJSON() ([]byte, error) {
	out := struct {
		Category  string   `json:"category"`
		SubDomain []string `json:"subDomain,omitempty"`
	}{Category: r.Category, SubDomain: r.SubDomains}
	return json.Marshal(out)
}

func classify(fields map[string]json.RawMessage) Record {
	subDomains := subDomainValues(fields["subDomain"])

	if raw, ok := fields["category"]; ok {
		if s, ok := asString(raw); ok && s != "" {
			return Record{Shape: ShapeFlat, Category: s, SubDomains: subDomains}
		}
		var inner map[string]json.RawMessage
		if json.Unmarshal(raw, &inner) == nil {
			if s, ok := asString(inner["category"]); ok && s != "" {
				return Record{Shape: ShapeNested, Category: s, SubDomains: subDomains}
			}
		}
	}

	return scan(fields)
}

// scan matches keys after folding case and dropping separators, so
// "Category", "category_name" and "sub-domain" are all recognised.
func scan(fields map[string]json.RawMessage) Record {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var (
		category   string
		subDomains []string
	)
	for _, key := range keys {
		raw := fields[key]
		switch foldKey(key) {
		case "category", "categoryname":
			if s, ok := asString(raw); ok && s != "" && category == "" {
				category = s
			}
		case "subdomain", "subdomains", "subdomainname":
			subDomains = append(subDomains, subDomainValues(raw)...)
		}
	}
	if category == "" {
		return Record{}
	}
	return Record{Shape: ShapeScanned, Category: category, SubDomains: subDomains}
}

func foldKey(key string) string {
	key = strings.ToLower(key)
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
}

func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// subDomainValues accepts a string or an array of strings; anything else is ignored.
func subDomainValues(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	if s, ok := asString(raw); ok {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := asString(item); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
