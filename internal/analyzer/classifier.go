package analyzer

// Category is the editorial tag that drives decision lookup.
type Category string

const (
	CategoryImpact  Category = "impacto"
	CategoryTension Category = "tension"
	CategoryReveal  Category = "revelacion"
	CategoryCalm    Category = "calma"
	CategoryEnergy  Category = "energia"
	CategoryClosing Category = "cierre"
	CategoryDefault Category = "default"
)

// Categories lists the closed set in declaration order. Ties in scoring go
// to the earliest entry.
var Categories = []Category{
	CategoryImpact,
	CategoryTension,
	CategoryReveal,
	CategoryCalm,
	CategoryEnergy,
	CategoryClosing,
}

// Valid reports whether c is part of the closed set (default included).
func (c Category) Valid() bool {
	if c == CategoryDefault {
		return true
	}
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Result is the outcome of classifying one segment of narration.
type Result struct {
	Category Category
	Score    int      // keyword hits for Category
	Keywords []string // salient terms, at most MaxKeywords
}

// Classifier is the interface for text classification strategies
type Classifier interface {
	Classify(text string) Result
}
