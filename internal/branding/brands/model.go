package brands

import "time"

// Brand is a branding profile applied to quotations and invoices.
type Brand struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"company_id"`
	Name           string    `json:"name"`
	LogoPath       *string   `json:"logo_path,omitempty"`
	PrimaryColor   string    `json:"primary_color"`
	SecondaryColor string    `json:"secondary_color"`
	IsDefault      bool      `json:"is_default"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BrandUsage pairs a brand with the number of documents referencing it.
type BrandUsage struct {
	Brand
	QuotationCount int `json:"quotation_count"`
	InvoiceCount   int `json:"invoice_count"`
}

// InUse reports whether any document still references the brand.
func (b BrandUsage) InUse() bool {
	return b.QuotationCount > 0 || b.InvoiceCount > 0
}
