package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldMapping translates source-native column names to canonical
// ProductRecord fields. The same table drives the relational and the
// flat-file connectors, so a retailer configures the mapping once per
// source schema. SKU and SellingPrice mappings are mandatory.
type FieldMapping struct {
	ExternalID   string `json:"externalId,omitempty"`
	Name         string `json:"name,omitempty"`
	MRP          string `json:"mrp,omitempty"`
	SellingPrice string `json:"sellingPrice"`
	Quantity     string `json:"quantity,omitempty"`
	SKU          string `json:"sku"`
	Barcode      string `json:"barcode,omitempty"`
	TaxRate      string `json:"taxRate,omitempty"`
	IsActive     string `json:"isActive,omitempty"`
}

// Validate checks the mandatory mappings.
func (m *FieldMapping) Validate() error {
	if m.SKU == "" {
		return fmt.Errorf("%w: sku column mapping is required", ErrInvalidConfig)
	}
	if m.SellingPrice == "" {
		return fmt.Errorf("%w: selling price column mapping is required", ErrInvalidConfig)
	}
	return nil
}

// MapRow converts one source row into a canonical ProductRecord. Missing
// numeric columns coerce to 0 and negative quantities clamp to 0. A row
// without a SKU value cannot be reconciled and is rejected.
func (m *FieldMapping) MapRow(row map[string]any) (ProductRecord, error) {
	rec := ProductRecord{
		ExternalID:   stringValue(row[m.ExternalID]),
		Name:         stringValue(row[m.Name]),
		MRP:          floatValue(row[m.MRP]),
		SellingPrice: floatValue(row[m.SellingPrice]),
		Quantity:     intValue(row[m.Quantity]),
		SKU:          stringValue(row[m.SKU]),
		Barcode:      stringValue(row[m.Barcode]),
		TaxRate:      floatValue(row[m.TaxRate]),
	}

	if m.IsActive != "" {
		if v, ok := row[m.IsActive]; ok {
			active := boolValue(v)
			rec.IsActive = &active
		}
	}

	if rec.Quantity < 0 {
		rec.Quantity = 0
	}
	if rec.SKU == "" {
		return ProductRecord{}, fmt.Errorf("%w: row has no sku value", ErrInvalidInput)
	}
	return rec, nil
}

// stringValue coerces a source cell to a trimmed string.
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// floatValue coerces a source cell to a float64, defaulting to 0.
func floatValue(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case []byte:
		return parseFloat(string(t))
	case string:
		return parseFloat(t)
	default:
		return 0
	}
}

// intValue coerces a source cell to an int, defaulting to 0. Fractional
// stock counts truncate.
func intValue(v any) int {
	return int(floatValue(v))
}

// boolValue treats 1/true/yes/y (any case) as true.
func boolValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	default:
		s := strings.ToLower(stringValue(v))
		return s == "1" || s == "true" || s == "yes" || s == "y"
	}
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
