package analyzer

import (
	"reflect"
	"testing"
)

func TestKeywordClassifier(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{"impact", "Esto lo cambia todo, es increible", CategoryImpact},
		{"tension", "Pero la crisis empeoro el conflicto", CategoryTension},
		{"reveal", "El secreto que nadie te conto", CategoryReveal},
		{"calm", "Un paseo tranquilo y simple", CategoryCalm},
		{"energy", "Rapido, con fuerza y mucha energia", CategoryEnergy},
		{"closing", "Para terminar, suscribite y compartir", CategoryClosing},
		{"no hits", "Hola a todos", CategoryDefault},
		{"upper case", "UN SECRETO OCULTO", CategoryReveal},
		{"tie keeps first declared", "Este es un secreto increible.", CategoryImpact},
	}

	c := NewKeywordClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.text)
			if res.Category != tt.want {
				t.Errorf("Classify(%q) = %s (score %d), want %s", tt.text, res.Category, res.Score, tt.want)
			}
		})
	}
}

func TestScoreCountsDistinctKeywords(t *testing.T) {
	// "secreto" twice still counts once; two tension fragments beat it.
	cat, score := Score("secreto secreto, pero hay un problema")
	if cat != CategoryTension || score != 2 {
		t.Errorf("Expected tension with 2 hits, got %s with %d", cat, score)
	}
}

// Substring containment is kept on purpose; these partial-word hits are a
// known limitation of the heuristic.
func TestScorePartialWordMatches(t *testing.T) {
	tests := []struct {
		text string
		want Category
	}{
		{"Te espero mañana", CategoryTension},        // "pero" inside "espero"
		{"Los datos del censo", CategoryReveal},      // "dato" inside "datos"
		{"El contrato fue firmado", CategoryTension}, // "contra" inside "contrato"
		{"Una pazguata respuesta", CategoryCalm},     // "paz" inside "pazguata"
	}

	for _, tt := range tests {
		if got, _ := Score(tt.text); got != tt.want {
			t.Errorf("Score(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestScoreIgnoresAccentedSpelling(t *testing.T) {
	// Keywords are unaccented; "revolución" does not contain "revolucion".
	if got, _ := Score("Una revolución"); got != CategoryDefault {
		t.Errorf("Expected default for accented spelling, got %s", got)
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Este es un secreto increible.", []string{"este", "secreto", "increible"}},
		{"¡La Revolución cambió TODO!", []string{"revolución", "cambió", "todo"}},
		{"Pero para entender como paso esto", []string{"pero", "para", "entender", "como", "paso", "esto"}},
		{
			"uno dos tres cuatro cinco seis siete ocho nueve diez once doce",
			[]string{"cuatro", "cinco", "seis", "siete", "ocho", "nueve"},
		},
		{"agua agua agua agua agua agua agua", []string{"agua", "agua", "agua", "agua", "agua", "agua"}},
		{"a y o", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		got := ExtractKeywords(tt.text)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("Expected %s to be valid", c)
		}
	}
	if !CategoryDefault.Valid() {
		t.Error("Expected default to be valid")
	}
	if Category("alegria").Valid() {
		t.Error("Expected unknown category to be invalid")
	}
}

func TestClassifierRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"keyword", false},
		{"", false}, // default
		{"embedding", true},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			classifier, err := NewClassifier(tt.variant)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if classifier == nil {
					t.Error("Expected classifier, got nil")
				}
			}
		})
	}
}
