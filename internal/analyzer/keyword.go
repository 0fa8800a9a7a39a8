package analyzer

import "strings"

const MaxKeywords = 6

// categoryKeywords maps each category to trigger fragments. Matching is plain
// substring containment on lower-cased text, so fragments like "suscrib" or
// "explosi" cover their inflections.
var categoryKeywords = []struct {
	Category Category
	Keywords []string
}{
	{CategoryImpact, []string{"cambia", "revolucion", "increible", "impactante", "nunca", "jamas", "shockeante", "quiebre"}},
	{CategoryTension, []string{"pero", "sin embargo", "aunque", "contra", "conflicto", "problema", "crisis", "guerra"}},
	{CategoryReveal, []string{"secreto", "verdad", "nadie", "oculto", "descubri", "revela", "dato", "clave"}},
	{CategoryCalm, []string{"tranquil", "paz", "suave", "simple", "lento", "natural", "calm"}},
	{CategoryEnergy, []string{"rapido", "boom", "explosi", "power", "fuerza", "energia", "intenso", "accion"}},
	{CategoryClosing, []string{"final", "conclusion", "resume", "segui", "suscrib", "compartir", "proxim"}},
}

var stopwords = map[string]struct{}{
	"el": {}, "la": {}, "los": {}, "las": {}, "de": {}, "del": {}, "en": {}, "un": {},
	"una": {}, "que": {}, "por": {}, "con": {}, "se": {}, "es": {}, "no": {}, "lo": {},
	"su": {}, "al": {}, "le": {}, "ya": {}, "o": {}, "y": {}, "a": {},
}

// KeywordClassifier scores text against the static keyword table
type KeywordClassifier struct{}

// NewKeywordClassifier creates the table-driven classifier
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify picks the category with the most keyword hits. Zero hits yields
// CategoryDefault.
func (c *KeywordClassifier) Classify(text string) Result {
	category, score := Score(text)
	return Result{
		Category: category,
		Score:    score,
		Keywords: ExtractKeywords(text),
	}
}

// Score counts how many keywords of each category occur in text and returns
// the winner. A keyword counts once however often it appears.
func Score(text string) (Category, int) {
	lower := strings.ToLower(text)

	best, bestScore := CategoryDefault, 0
	for _, row := range categoryKeywords {
		score := 0
		for _, k := range row.Keywords {
			if strings.Contains(lower, k) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = row.Category, score
		}
	}
	return best, bestScore
}

// ExtractKeywords returns the first MaxKeywords tokens longer than three
// letters that are not stopwords. Repeats are kept.
func ExtractKeywords(text string) []string {
	keywords := []string{}
	for _, field := range strings.Fields(strings.ToLower(text)) {
		w := strings.Map(keepLetter, field)
		if len([]rune(w)) <= 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == MaxKeywords {
			break
		}
	}
	return keywords
}

func keepLetter(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r
	}
	switch r {
	case 'á', 'é', 'í', 'ó', 'ú', 'ñ', 'ü':
		return r
	}
	return -1
}
