package analyzer

import "fmt"

// NewClassifier creates a classifier based on the specified variant
func NewClassifier(variant string) (Classifier, error) {
	switch variant {
	case "keyword", "":
		return NewKeywordClassifier(), nil
	case "embedding":
		return nil, fmt.Errorf("embedding classifier not yet implemented")
	default:
		return nil, fmt.Errorf("unknown classifier variant: %s", variant)
	}
}
