package models

// Category is a row of the categories table. A NULL user_id marks a system category.
type Category struct {
	CategoryID string  `db:"category_id"`
	UserID     *string `db:"user_id"`
	Name       string  `db:"name"`
	Icon       *string `db:"icon"`
	Color      *string `db:"color"`
	AuditFields
}
