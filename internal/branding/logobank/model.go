package logobank

import "time"

// Logo is an uploaded image asset in the company's logo bank. Whenever a
// company has any logos, exactly one of them is the default.
type Logo struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	FilePath  string    `json:"file_path"`
	Notes     *string   `json:"notes,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientLogo is the lightweight listing embedded in the document composer.
// URL carries a cache-buster keyed by the last update timestamp.
type ClientLogo struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	IsDefault bool    `json:"is_default"`
	Notes     *string `json:"notes,omitempty"`
}
