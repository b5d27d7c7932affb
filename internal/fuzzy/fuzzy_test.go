package fuzzy

import "testing"

var currencyChoices = []string{
	"USD:US Dollar",
	"EUR:Euro",
	"KZT:Казахстанский тенге",
	"RUB:Российский рубль",
	"GBP:Pound Sterling",
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"usd":             "USD",
		"  us   dollar  ": "US DOLLAR",
		"USD:US Dollar":   "USD US DOLLAR",
		"тенге!":          "ТЕНГЕ",
		"":                "",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio("EURO", "EURO"); got != 100 {
		t.Errorf("identical strings should score 100, got %d", got)
	}
	if got := Ratio("ABC", "XYZ"); got != 0 {
		t.Errorf("disjoint strings should score 0, got %d", got)
	}
	if got := Ratio("", ""); got != 100 {
		t.Errorf("two empty strings should score 100, got %d", got)
	}
	if got := Ratio("EURO", "EUR"); got != 75 {
		t.Errorf("expected 75, got %d", got)
	}
}

func TestPartialRatio(t *testing.T) {
	if got := PartialRatio("DOLLAR", "DOLLAR US USD"); got != 100 {
		t.Errorf("substring should score 100, got %d", got)
	}
	if got := PartialRatio("", "ABC"); got != 0 {
		t.Errorf("empty against non-empty should score 0, got %d", got)
	}
}

func TestExtractOne(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantISO   string
		wantAbove int
	}{
		{"english_name", "dollar", "USD:US Dollar", 50},
		{"name_with_noise", "euro!!", "EUR:Euro", 50},
		{"cyrillic_name", "тенге", "KZT:Казахстанский тенге", 50},
		{"word_order_ignored", "sterling pound", "GBP:Pound Sterling", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, ok := ExtractOne(tt.query, currencyChoices)
			if !ok {
				t.Fatal("expected a match")
			}
			if match.Choice != tt.wantISO {
				t.Errorf("expected %s, got %s (score %d)", tt.wantISO, match.Choice, match.Score)
			}
			if match.Score <= tt.wantAbove {
				t.Errorf("expected score above %d, got %d", tt.wantAbove, match.Score)
			}
		})
	}

	t.Run("unrelated_query_scores_low", func(t *testing.T) {
		match, ok := ExtractOne("bitcoin", currencyChoices)
		if !ok {
			t.Fatal("expected a best candidate")
		}
		if match.Score > 50 {
			t.Errorf("expected low score for unrelated query, got %d for %s", match.Score, match.Choice)
		}
	})

	t.Run("no_choices", func(t *testing.T) {
		if _, ok := ExtractOne("usd", nil); ok {
			t.Error("expected no match without choices")
		}
	})
}
