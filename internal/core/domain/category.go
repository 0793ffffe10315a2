package domain

// Category groups transactions. A nil UserID marks a system-wide category.
type Category struct {
	CategoryID string  `json:"categoryID"`
	UserID     *string `json:"userID,omitempty"`
	Name       string  `json:"name"`
	Icon       *string `json:"icon,omitempty"`
	Color      *string `json:"color,omitempty"`
	AuditFields
}

// IsSystem reports whether the category is shared by all users.
func (c Category) IsSystem() bool {
	return c.UserID == nil
}

// VisibleTo reports whether userID may assign this category.
func (c Category) VisibleTo(userID string) bool {
	return c.IsSystem() || *c.UserID == userID
}

// Confidence is the certainty tier attached to a classifier match.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

func (c Confidence) rank() int {
	switch c {
	case ConfidenceLow:
		return 1
	case ConfidenceMedium:
		return 2
	case ConfidenceHigh:
		return 3
	}
	return 0
}

// IsValid reports whether c is a known tier.
func (c Confidence) IsValid() bool {
	return c.rank() > 0
}

// AtLeast reports whether c meets the min tier. An empty min accepts everything.
func (c Confidence) AtLeast(min Confidence) bool {
	if min == "" {
		return c.IsValid()
	}
	return c.rank() >= min.rank()
}

// Classification is the classifier's verdict for one description.
type Classification struct {
	CategoryName string     `json:"categoryName,omitempty"`
	Keyword      string     `json:"keyword,omitempty"`
	Confidence   Confidence `json:"confidence,omitempty"`
	Matched      bool       `json:"matched"`
}

// CategorizationResult summarizes a categorize-all run.
type CategorizationResult struct {
	Processed          int `json:"processed"`
	Matched            int `json:"matched"`
	Updated            int `json:"updated"`
	BelowConfidence    int `json:"belowConfidence"`
	CategoriesResolved int `json:"categoriesResolved"`
}
