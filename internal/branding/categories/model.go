package categories

import "time"

// ServiceCategory groups a company's service items for catalogs and
// filtering. Slugs are unique per company.
type ServiceCategory struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Color       string    `json:"color"`
	Icon        *string   `json:"icon,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryUsage is a category together with its dependent item count for
// listings and deletion guards.
type CategoryUsage struct {
	ServiceCategory
	ItemCount int `json:"item_count"`
}

// InUse reports whether service items still reference the category.
func (c CategoryUsage) InUse() bool {
	return c.ItemCount > 0
}
