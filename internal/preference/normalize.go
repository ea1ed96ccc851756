package preference

import (
	"encoding/json"
	"sort"

	"trivia-client/internal/domain"
)

// Grouping maps a category to its deduplicated subDomains.
type Grouping map[string][]string

// Decode parses a JSON array of preference records in any known layout.
func Decode(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Normalize groups records by category. Records without a category are
// skipped; a category seen without subDomains maps to an empty slice.
func Normalize(records []Record) Grouping {
	out := make(Grouping)
	for _, r := range records {
		if r.Category == "" {
			continue
		}
		subs, ok := out[r.Category]
		if !ok {
			subs = []string{}
		}
		for _, sd := range r.SubDomains {
			if !contains(subs, sd) {
				subs = append(subs, sd)
			}
		}
		out[r.Category] = subs
	}
	return out
}

// Categories returns the category names in lexical order.
func (g Grouping) Categories() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preferences flattens the grouping for display, ordered by category.
func (g Grouping) Preferences() []domain.CategoryPreference {
	out := make([]domain.CategoryPreference, 0, len(g))
	for _, name := range g.Categories() {
		out = append(out, domain.CategoryPreference{
			Category:   name,
			SubDomains: append([]string{}, g[name]...),
		})
	}
	return out
}

// FromPreferences converts canonical pairs back into records.
func FromPreferences(prefs []domain.Preference) []Record {
	out := make([]Record, 0, len(prefs))
	for _, p := range prefs {
		if p.SubDomain == "" {
			out = append(out, Bare(p.Category))
			continue
		}
		out = append(out, Flat(p.Category, p.SubDomain))
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
