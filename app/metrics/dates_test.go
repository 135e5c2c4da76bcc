package metrics

import (
	"testing"
	"time"
)

func TestNormalize_ISO8601(t *testing.T) {
	want := time.Date(2026, 2, 11, 9, 7, 10, 0, time.UTC)

	cases := []string{
		"2026-02-11T09:07:10Z",
		"2026-02-11T09:07:10+00:00",
		"2026-02-11T10:07:10+01:00",
		"2026-02-11T09:07:10",
	}

	for _, raw := range cases {
		got := Normalize(raw)
		if got == nil {
			t.Errorf("Normalize(%q) returned nil, want %v", raw, want)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("Normalize(%q) = %v, want %v", raw, got, want)
		}
		if got.Location() != time.UTC {
			t.Errorf("Normalize(%q) location = %v, want UTC", raw, got.Location())
		}
	}
}

func TestNormalize_ISO8601DateOnly(t *testing.T) {
	got := Normalize("2026-02-11")
	if got == nil {
		t.Fatal("Normalize returned nil for date-only input")
	}
	want := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalize_RFC822(t *testing.T) {
	want := time.Date(2026, 2, 11, 9, 7, 10, 0, time.UTC)

	cases := []string{
		"Wed, 11 Feb 2026 09:07:10 GMT",
		"Wed, 11 Feb 2026 09:07:10 +0000",
		"Wed, 11 Feb 2026 10:07:10 +0100",
	}

	for _, raw := range cases {
		got := Normalize(raw)
		if got == nil {
			t.Errorf("Normalize(%q) returned nil, want %v", raw, want)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("Normalize(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestNormalize_Unparseable(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"not a date",
		"yesterday",
		"11/02/2026",
	}

	for _, raw := range cases {
		if got := Normalize(raw); got != nil {
			t.Errorf("Normalize(%q) = %v, want nil", raw, got)
		}
	}
}

func TestEffectiveTime_PrefersPublishedAt(t *testing.T) {
	it := Item{
		PublishedAt: "2026-02-10T08:00:00Z",
		ParsedAt:    "2026-02-11T09:00:00Z",
	}

	got := EffectiveTime(it)
	if got == nil {
		t.Fatal("EffectiveTime returned nil")
	}
	want := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("EffectiveTime = %v, want published_at %v", got, want)
	}
}

func TestEffectiveTime_FallsBackToParsedAt(t *testing.T) {
	it := Item{
		PublishedAt: "garbage",
		ParsedAt:    "2026-02-11T09:00:00Z",
	}

	got := EffectiveTime(it)
	if got == nil {
		t.Fatal("EffectiveTime returned nil")
	}
	want := time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("EffectiveTime = %v, want parsed_at %v", got, want)
	}
}

func TestEffectiveTime_BothInvalid(t *testing.T) {
	it := Item{PublishedAt: "garbage", ParsedAt: "also garbage"}

	if got := EffectiveTime(it); got != nil {
		t.Errorf("EffectiveTime = %v, want nil", got)
	}
}
