package metrics

import (
	"reflect"
	"testing"
)

func TestTokenizer_ExtractsLowercasedTokens(t *testing.T) {
	tokenizer := NewTokenizer()

	got := tokenizer.Run("Cheap Flights To Rome")
	want := []string{"cheap", "flights", "rome"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Run = %v, want %v", got, want)
	}
}

func TestTokenizer_DropsShortTokens(t *testing.T) {
	tokenizer := NewTokenizer()

	got := tokenizer.Run("Go to EU on a 5-day pass")
	for _, tok := range got {
		if len([]rune(tok)) < 3 {
			t.Errorf("token %q shorter than 3 runes", tok)
		}
	}
}

func TestTokenizer_DropsStopwords(t *testing.T) {
	tokenizer := NewTokenizer()

	got := tokenizer.Run("The Best Travel Guide For Your Trip")
	if len(got) != 0 {
		t.Errorf("expected all stopwords dropped, got %v", got)
	}
}

func TestTokenizer_KeepsAccentedLetters(t *testing.T) {
	tokenizer := NewTokenizer()

	got := tokenizer.Run("Escapada a Cádiz y Málaga")
	want := []string{"escapada", "cádiz", "málaga"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Run = %v, want %v", got, want)
	}
}

func TestTokenizer_AllowsApostrophes(t *testing.T) {
	tokenizer := NewTokenizer()

	got := tokenizer.Run("Rome's hidden piazzas")
	if len(got) == 0 || got[0] != "rome's" {
		t.Errorf("Run = %v, want leading token \"rome's\"", got)
	}
}

func TestTokenizer_PreservesOrderAndRepeats(t *testing.T) {
	tokenizer := NewTokenizer()

	got := tokenizer.Run("Lisbon loves Lisbon")
	want := []string{"lisbon", "loves", "lisbon"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Run = %v, want %v", got, want)
	}
}

func TestTokenizer_EmptyTitle(t *testing.T) {
	tokenizer := NewTokenizer()

	if got := tokenizer.Run(""); len(got) != 0 {
		t.Errorf("Run(\"\") = %v, want empty", got)
	}
}

func TestTokenizer_ExtraStopwords(t *testing.T) {
	tokenizer := NewTokenizer("truck", "vehicle")

	got := tokenizer.Run("Truck routes and vehicle rentals in Oslo")
	want := []string{"routes", "rentals", "oslo"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Run = %v, want %v", got, want)
	}
}
