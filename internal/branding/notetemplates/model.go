package notetemplates

import "time"

// TemplateType is the closed set of places a note template can be used on
// a document.
type TemplateType string

const (
	TypeHeader  TemplateType = "header"
	TypeFooter  TemplateType = "footer"
	TypeTerms   TemplateType = "terms"
	TypePayment TemplateType = "payment"
)

// Types lists every valid template type in display order.
func Types() []TemplateType {
	return []TemplateType{TypeHeader, TypeFooter, TypeTerms, TypePayment}
}

// Valid reports whether the type belongs to the closed enum.
func (t TemplateType) Valid() bool {
	switch t {
	case TypeHeader, TypeFooter, TypeTerms, TypePayment:
		return true
	}
	return false
}

// NoteTemplate is a reusable block of document text. At most one template
// per (company, type) carries the default flag.
type NoteTemplate struct {
	ID        int64        `json:"id"`
	CompanyID int64        `json:"company_id"`
	Type      TemplateType `json:"type"`
	Name      string       `json:"name"`
	Content   string       `json:"content"`
	IsDefault bool         `json:"is_default"`
	IsActive  bool         `json:"is_active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TypeListing is what the document builder consumes when prefilling
// content: every template of one type plus the current default, if any.
type TypeListing struct {
	Templates []NoteTemplate `json:"templates"`
	Default   *NoteTemplate  `json:"default,omitempty"`
}
