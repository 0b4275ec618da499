package domain

// ProductRecord is the canonical product form every connector must produce,
// regardless of the source schema. SKU and SellingPrice are mandatory; all
// other fields are best-effort. Records are produced fresh on every fetch
// and never cached across cycles; the server is the system of record.
type ProductRecord struct {
	// ExternalID is the product identifier in the source system.
	ExternalID string `json:"externalProductId,omitempty"`

	// Name is the display name of the product.
	Name string `json:"name,omitempty"`

	// MRP is the maximum retail price, when the source carries one.
	MRP float64 `json:"mrp,omitempty"`

	// SellingPrice is the price the retailer currently sells at.
	SellingPrice float64 `json:"sellingPrice"`

	// Quantity is the current stock on hand.
	Quantity int `json:"quantity"`

	// SKU is the stock keeping unit, the join key across systems.
	SKU string `json:"sku"`

	// Barcode is the EAN/UPC code, when available.
	Barcode string `json:"barcode,omitempty"`

	// TaxRate is the applicable tax percentage, when available.
	TaxRate float64 `json:"taxRate,omitempty"`

	// IsActive reports whether the product is currently listed.
	// Nil means the source does not track listing state.
	IsActive *bool `json:"isActive,omitempty"`
}

// Validate checks the mandatory canonical fields.
func (p *ProductRecord) Validate() error {
	if p.SKU == "" {
		return ErrInvalidInput
	}
	return nil
}

// StockChange is an incremental quantity delta since a given timestamp.
// Only connectors capable of incremental sync produce these; an empty
// result means "full sync only" and callers fall back to FetchProducts.
type StockChange struct {
	SKU      string `json:"sku"`
	QtyDelta int    `json:"qtyDelta"`
}
