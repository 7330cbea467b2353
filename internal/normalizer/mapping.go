package normalizer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapping is an immutable, declaration-ordered table of canonical
// column names and the alias spellings that resolve to them. Lookup is
// case-insensitive and whitespace-trimmed. Alias sets are expected to
// be disjoint; an alias matching two canonical names is a
// configuration defect that Resolve reports so the caller can warn.
type Mapping struct {
	canonical []string
	aliases   map[string]map[string]struct{}
}

// Canonical column names, in declaration order. Declaration order is
// the tie-break for ambiguous aliases.
var defaultMapping = []struct {
	name    string
	aliases []string
}{
	{"order_id", []string{"order id", "orderid", "order no", "order_no", "order number"}},
	{"date_of_sale", []string{"date of sale", "sale date", "sale_date", "order date", "order_date", "date", "purchase date"}},
	{"product_name", []string{"product name", "product", "item name", "item"}},
	{"brand", []string{"brand name", "brand_name", "manufacturer"}},
	{"category", []string{"product category", "product_category", "cat"}},
	{"sub_category", []string{"sub category", "sub-category", "subcategory", "product subcategory"}},
	{"price", []string{"unit price", "unit_price", "list price", "mrp"}},
	{"discount_percent", []string{"discount percent", "discount %", "discount_pct", "discount percentage", "discount"}},
	{"final_price", []string{"final price", "net price", "selling price", "sale price", "amount"}},
	{"quantity", []string{"qty", "units", "quantity sold", "units sold"}},
	{"payment_mode", []string{"payment mode", "payment method", "payment_method", "payment type", "payment"}},
	{"store_location", []string{"store location", "location", "store city", "city", "store"}},
	{"sales_channel", []string{"sales channel", "channel", "platform"}},
	{"delivery_days", []string{"delivery days", "delivery time", "delivery_time", "days to deliver", "shipping days"}},
	{"rating", []string{"customer rating", "stars", "review score", "review_score"}},
	{"review_text", []string{"review text", "review", "customer review", "feedback"}},
	{"return_reason", []string{"return reason", "reason for return", "return_cause"}},
	{"co2_saved", []string{"co2 saved", "co2_saved_kg", "carbon saved", "co2"}},
}

// DefaultMapping returns the built-in retail schema mapping.
func DefaultMapping() *Mapping {
	m := &Mapping{aliases: make(map[string]map[string]struct{})}
	for _, entry := range defaultMapping {
		m.add(entry.name, entry.aliases)
	}
	return m
}

func (m *Mapping) add(canonical string, aliases []string) {
	if _, ok := m.aliases[canonical]; !ok {
		m.canonical = append(m.canonical, canonical)
		m.aliases[canonical] = make(map[string]struct{})
	}
	// A canonical name always resolves to itself.
	m.aliases[canonical][canonical] = struct{}{}
	for _, a := range aliases {
		m.aliases[canonical][strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}
}

// Canonical returns the canonical column names in declaration order.
func (m *Mapping) Canonical() []string {
	return append([]string(nil), m.canonical...)
}

// Resolve maps an input column name to its canonical name.
// It returns the canonical name of the earliest-declared match and the
// number of canonical names whose alias set matched; matches > 1 means
// the configuration is ambiguous for this input. matches == 0 means
// the column passes through unchanged.
func (m *Mapping) Resolve(column string) (canonical string, matches int) {
	needle := strings.ToLower(strings.TrimSpace(column))
	for _, name := range m.canonical {
		if _, ok := m.aliases[name][needle]; ok {
			if matches == 0 {
				canonical = name
			}
			matches++
		}
	}
	return canonical, matches
}

// LoadMappingFile merges alias overrides from a YAML file over the
// built-in mapping. The document maps canonical names to alias lists:
//
//	brand:
//	  - marke
//	  - fabricant
//
// Unknown canonical names declare new columns, appended after the
// built-in ones in document order.
func LoadMappingFile(path string) (*Mapping, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return mergeMapping(DefaultMapping(), raw)
}

func mergeMapping(base *Mapping, raw []byte) (*Mapping, error) {
	// Decoded via yaml.Node instead of a plain map so that document
	// order survives; canonical declaration order is the ambiguity
	// tie-break and must stay deterministic.
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing alias overrides: %w", err)
	}
	if len(doc.Content) == 0 {
		return base, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing alias overrides: expected a mapping document")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		var aliases []string
		if err := root.Content[i+1].Decode(&aliases); err != nil {
			return nil, fmt.Errorf("parsing aliases for %q: %w", name, err)
		}
		base.add(name, aliases)
	}
	return base, nil
}
