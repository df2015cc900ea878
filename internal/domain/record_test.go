package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validItem() RawItem {
	return RawItem{
		Title:       "Grid upgrade announced",
		Body:        strings.Repeat("Transmission lines will be extended. ", 8),
		SourceURL:   "https://news.example/grid",
		Publisher:   "Wire",
		PublishedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateAcceptsWellFormedItem(t *testing.T) {
	if err := validItem().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	item := RawItem{Title: "Hi", Body: "short", SourceURL: "/relative", Publisher: "W"}

	err := item.Validate()
	if !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
	for _, want := range []string{"title", "body", "source_url", "publisher", "published_at"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestReady(t *testing.T) {
	if !(RawItem{Title: "t", Body: "b"}).Ready() {
		t.Fatalf("title and body should be enough")
	}
	if (RawItem{Title: "t", Body: "   "}).Ready() {
		t.Fatalf("blank body must not be ready")
	}
}

func TestNewGeoBuildsMapURL(t *testing.T) {
	geo := NewGeo(-33.9249, 18.4241, "Cape Town, South Africa")
	if geo.MapURL != "https://www.openstreetmap.org/?mlat=-33.9249&mlon=18.4241&zoom=10" {
		t.Fatalf("unexpected map url %q", geo.MapURL)
	}
}
