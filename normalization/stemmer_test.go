package normalization

import (
	"reflect"
	"testing"
)

// TestStemRussian_WordForms разные падежные формы сводятся к одной основе
func TestStemRussian_WordForms(t *testing.T) {
	groups := [][]string{
		{"геология", "геологии", "геологию"},
		{"минералы", "минералов", "минералам"},
		{"экспедиция", "экспедиции"},
	}

	for _, forms := range groups {
		base := StemRussian(forms[0])
		if base == "" {
			t.Fatalf("StemRussian(%q) returned empty stem", forms[0])
		}
		for _, form := range forms[1:] {
			if got := StemRussian(form); got != base {
				t.Errorf("StemRussian(%q) = %q, want %q (same stem as %q)",
					form, got, base, forms[0])
			}
		}
	}
}

func TestStemRussian_Edge(t *testing.T) {
	if got := StemRussian("  "); got != "" {
		t.Errorf("StemRussian(blank) = %q, want empty", got)
	}
	if got := StemRussian("ГЕОЛОГИЯ"); got != StemRussian("геология") {
		t.Errorf("case-sensitive stemming: %q", got)
	}
}

func TestQueryVariants(t *testing.T) {
	terms := QueryVariants("История геологии, 1956")
	if len(terms) != 3 {
		t.Fatalf("QueryVariants returned %d terms, want 3", len(terms))
	}

	// каждый терм начинается с исходной формы в нижнем регистре
	if terms[0][0] != "история" || terms[1][0] != "геологии" || terms[2][0] != "1956" {
		t.Errorf("unexpected term heads: %v", terms)
	}

	// у склоняемого слова появляется вариант-основа
	if len(terms[1]) < 2 {
		t.Errorf("term %q has no stem variant: %v", "геологии", terms[1])
	}

	// у числа вариантов не прибавляется
	if !reflect.DeepEqual(terms[2], []string{"1956"}) {
		t.Errorf("numeric term variants = %v, want just the token", terms[2])
	}
}

func TestQueryVariants_Empty(t *testing.T) {
	if terms := QueryVariants("  ,;  "); len(terms) != 0 {
		t.Errorf("QueryVariants on separators = %v, want none", terms)
	}
}
