package service

import (
	"testing"
	"time"
)

func fp(v float64) *float64 { return &v }

func TestRankResultsOrder(t *testing.T) {
	// A: near with solid history. B: further but higher rated. C: rated but
	// unlocated. D: nothing known.
	a := SearchResult{NannyID: 1, DistanceKm: fp(2), AverageRating12m: fp(4.5), ReviewCount12m: 10}
	b := SearchResult{NannyID: 2, DistanceKm: fp(5), AverageRating12m: fp(5.0), ReviewCount12m: 3}
	c := SearchResult{NannyID: 3, AverageRating12m: fp(5.0), ReviewCount12m: 3}
	d := SearchResult{NannyID: 4}

	results := []SearchResult{d, c, b, a}
	rankResults(results)

	want := []int64{1, 2, 3, 4}
	for i, id := range want {
		if results[i].NannyID != id {
			t.Fatalf("position %d: want nanny %d, got %d", i, id, results[i].NannyID)
		}
	}
}

func TestRankResultsTieBreaks(t *testing.T) {
	// Same distance: higher rating wins.
	a := SearchResult{NannyID: 1, DistanceKm: fp(3), AverageRating12m: fp(4.0)}
	b := SearchResult{NannyID: 2, DistanceKm: fp(3), AverageRating12m: fp(4.8)}
	results := []SearchResult{a, b}
	rankResults(results)
	if results[0].NannyID != 2 {
		t.Error("higher rating must win at equal distance")
	}

	// Same distance and rating: more reviews wins.
	a = SearchResult{NannyID: 1, DistanceKm: fp(3), AverageRating12m: fp(4.0), ReviewCount12m: 2}
	b = SearchResult{NannyID: 2, DistanceKm: fp(3), AverageRating12m: fp(4.0), ReviewCount12m: 9}
	results = []SearchResult{a, b}
	rankResults(results)
	if results[0].NannyID != 2 {
		t.Error("more reviews must win at equal distance and rating")
	}

	// Everything equal: lower nanny id wins.
	a = SearchResult{NannyID: 7, DistanceKm: fp(3)}
	b = SearchResult{NannyID: 4, DistanceKm: fp(3)}
	results = []SearchResult{a, b}
	rankResults(results)
	if results[0].NannyID != 4 {
		t.Error("lower id must be the final tie-break")
	}

	// Known rating before unknown, among unknown-distance candidates.
	a = SearchResult{NannyID: 1}
	b = SearchResult{NannyID: 2, AverageRating12m: fp(1.0)}
	results = []SearchResult{a, b}
	rankResults(results)
	if results[0].NannyID != 2 {
		t.Error("known rating must sort before unknown")
	}
}

func TestRatingFilterExcludesAbsent(t *testing.T) {
	// A nanny with no reviews inside the window has no rating at all, so
	// min_rating excludes it even if older reviews exist.
	if passesRatingFilter(nil, fp(4.0)) {
		t.Error("absent rating must fail min_rating")
	}
	if !passesRatingFilter(fp(4.2), fp(4.0)) {
		t.Error("rating above threshold must pass")
	}
	if passesRatingFilter(fp(3.9), fp(4.0)) {
		t.Error("rating below threshold must fail")
	}
	if !passesRatingFilter(nil, nil) {
		t.Error("no filter passes everything")
	}
}

func TestDistanceFilterExcludesAbsent(t *testing.T) {
	if passesDistanceFilter(nil, fp(10)) {
		t.Error("absent distance must fail max_distance_km")
	}
	if !passesDistanceFilter(fp(9.5), fp(10)) {
		t.Error("distance under cap must pass")
	}
	if passesDistanceFilter(fp(10.5), fp(10)) {
		t.Error("distance over cap must fail")
	}
}

func TestHasAllIDs(t *testing.T) {
	have := []int64{1, 2, 3}
	if !hasAllIDs(have, nil) {
		t.Error("empty want always passes")
	}
	if !hasAllIDs(have, []int64{2, 3}) {
		t.Error("subset must pass")
	}
	if hasAllIDs(have, []int64{2, 4}) {
		t.Error("missing one wanted id must fail")
	}
	if hasAllIDs(nil, []int64{1}) {
		t.Error("empty have cannot satisfy a filter")
	}
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	dob := time.Date(1990, 6, 16, 0, 0, 0, 0, time.UTC)
	if got := ageAt(&dob, now); got == nil || *got != 35 {
		t.Errorf("day before birthday: want 35, got %v", got)
	}
	dob = time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	if got := ageAt(&dob, now); got == nil || *got != 36 {
		t.Errorf("on birthday: want 36, got %v", got)
	}
	if ageAt(nil, now) != nil {
		t.Error("nil dob gives nil age")
	}
}
