package conditions

import (
	"fmt"
	"strings"
)

// Rule is the dietary guidance for one medical condition.
type Rule struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Avoid       []string `json:"avoid"`
	Recommend   []string `json:"recommend"`
	Description string   `json:"description"`
}

func (r Rule) clone() Rule {
	r.Avoid = append([]string(nil), r.Avoid...)
	r.Recommend = append([]string(nil), r.Recommend...)
	return r
}

// Catalog is an immutable lookup table of rules. It is safe for concurrent use.
type Catalog struct {
	order []string
	rules map[string]Rule
}

// NewCatalog builds a catalog from rules. IDs must be unique after normalization.
func NewCatalog(rules []Rule) (*Catalog, error) {
	c := &Catalog{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		key := normalize(r.ID)
		if key == "" {
			return nil, fmt.Errorf("condition %q has an empty id", r.Name)
		}
		if _, dup := c.rules[key]; dup {
			return nil, fmt.Errorf("duplicate condition id %q", r.ID)
		}
		r.ID = key
		if r.Name == "" {
			r.Name = r.ID
		}
		c.rules[key] = r.clone()
		c.order = append(c.order, key)
	}
	return c, nil
}

// normalize folds case and separators so "High Blood Pressure" and "high-blood-pressure" match.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

// Lookup returns the rule for id.
func (c *Catalog) Lookup(id string) (Rule, bool) {
	r, ok := c.rules[normalize(id)]
	if !ok {
		return Rule{}, false
	}
	return r.clone(), true
}

// IDs lists every condition id in catalog order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) Len() int { return len(c.order) }

// Describe returns the rules for ids in input order. Unknown ids are skipped and duplicates collapsed.
func (c *Catalog) Describe(ids []string) []Rule {
	seen := make(map[string]bool, len(ids))
	out := make([]Rule, 0, len(ids))
	for _, id := range ids {
		key := normalize(id)
		r, ok := c.rules[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r.clone())
	}
	return out
}

// Known returns the canonical ids of the conditions in ids that the catalog recognizes.
func (c *Catalog) Known(ids []string) []string {
	rules := c.Describe(ids)
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.ID
	}
	return out
}

// AvoidTerms flattens the avoid lists of ids, without repeats.
func (c *Catalog) AvoidTerms(ids []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range c.Describe(ids) {
		for _, term := range r.Avoid {
			if seen[term] {
				continue
			}
			seen[term] = true
			out = append(out, term)
		}
	}
	return out
}
