package service

import (
	"context"
	"sort"
	"time"

	"nannybook-service/internal/clock"
	"nannybook-service/internal/geo"
	"nannybook-service/internal/httperr"
	"nannybook-service/internal/models"
	"nannybook-service/internal/repository"
)

// ratingWindowDays is the trailing window used for search ratings and the
// public reviews endpoint.
const ratingWindowDays = 365

// CodeParentLocationRequired tags the soft empty result returned when the
// parent has not confirmed a default location yet.
const CodeParentLocationRequired = "PARENT_LOCATION_REQUIRED"

// SearchParams are the optional nanny search filters.
type SearchParams struct {
	ParentUserID     int64
	MaxDistanceKm    *float64
	MinRating        *float64
	QualificationIDs []int64
	TagIDs           []int64
	LanguageIDs      []int64
}

// SearchResult is one ranked nanny summary.
type SearchResult struct {
	NannyID          int64              `json:"nanny_id"`
	Approved         bool               `json:"approved"`
	UserID           int64              `json:"user_id"`
	Name             string             `json:"name"`
	Nickname         *string            `json:"nickname,omitempty"`
	LastInitial      *string            `json:"last_initial,omitempty"`
	ProfilePhotoURL  *string            `json:"profile_photo_url,omitempty"`
	Bio              *string            `json:"bio,omitempty"`
	DateOfBirth      *time.Time         `json:"date_of_birth,omitempty"`
	Age              *int               `json:"age,omitempty"`
	Nationality      *string            `json:"nationality,omitempty"`
	Ethnicity        *string            `json:"ethnicity,omitempty"`
	Qualifications   []models.NamedRef  `json:"qualifications"`
	Tags             []models.NamedRef  `json:"tags"`
	Languages        []models.NamedRef  `json:"languages"`
	AverageRating12m *float64           `json:"average_rating_12m,omitempty"`
	ReviewCount12m   int                `json:"review_count_12m"`
	DistanceKm       *float64           `json:"distance_km,omitempty"`
}

// SearchResponse wraps results with a soft-outcome code.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Code    *string        `json:"code"`
	Message *string        `json:"message"`
}

// SearchService ranks nannies for a parent.
type SearchService struct {
	DB    repository.DBTX
	Clock clock.Clock
}

// Search runs the full pipeline: area inclusion, attribute containment,
// trailing-window rating, distance, filters, multi-key ranking.
func (s *SearchService) Search(ctx context.Context, p SearchParams) (SearchResponse, error) {
	parent, found, err := repository.GetParentProfile(ctx, s.DB, p.ParentUserID)
	if err != nil {
		return SearchResponse{}, err
	}
	if !found {
		return SearchResponse{}, httperr.NotFoundf("Parent profile not found")
	}
	if !parent.HasDefaultLocation() {
		code := CodeParentLocationRequired
		msg := "Set your default location first"
		return SearchResponse{Results: []SearchResult{}, Code: &code, Message: &msg}, nil
	}

	candidates, err := repository.ListSearchCandidates(ctx, s.DB, parent.AreaID)
	if err != nil {
		return SearchResponse{}, err
	}

	profileIDs := make([]int64, 0, len(candidates))
	nannyIDs := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		profileIDs = append(profileIDs, c.Profile.ID)
		nannyIDs = append(nannyIDs, c.Nanny.ID)
	}

	attrs := map[string]map[int64][]int64{}
	for _, cat := range []string{"qualifications", "tags", "languages"} {
		m, err := repository.ListProfileAttrIDs(ctx, s.DB, cat, profileIDs)
		if err != nil {
			return SearchResponse{}, err
		}
		attrs[cat] = m
	}

	now := s.Clock.Now()
	windowStart := now.Add(-ratingWindowDays * 24 * time.Hour)
	ratings, err := repository.RatingsSince(ctx, s.DB, nannyIDs, windowStart)
	if err != nil {
		return SearchResponse{}, err
	}

	results := make([]SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if !hasAllIDs(attrs["qualifications"][c.Profile.ID], p.QualificationIDs) ||
			!hasAllIDs(attrs["tags"][c.Profile.ID], p.TagIDs) ||
			!hasAllIDs(attrs["languages"][c.Profile.ID], p.LanguageIDs) {
			continue
		}

		rw := ratings[c.Nanny.ID]

		var distance *float64
		if c.Profile.Lat != nil && c.Profile.Lng != nil {
			d := geo.RoundKm(geo.HaversineKm(*parent.Lat, *parent.Lng, *c.Profile.Lat, *c.Profile.Lng))
			distance = &d
		}

		r := SearchResult{
			NannyID:          c.Nanny.ID,
			Approved:         c.Nanny.Approved,
			UserID:           c.User.ID,
			Name:             c.User.Name,
			Nickname:         c.User.Nickname,
			LastInitial:      c.User.LastInitial,
			ProfilePhotoURL:  c.User.ProfilePhotoURL,
			Bio:              c.Profile.Bio,
			DateOfBirth:      c.Profile.DateOfBirth,
			Age:              ageAt(c.Profile.DateOfBirth, now),
			Nationality:      c.Profile.Nationality,
			Ethnicity:        c.Profile.Ethnicity,
			AverageRating12m: rw.Average,
			ReviewCount12m:   rw.Count,
			DistanceKm:       distance,
		}
		if !passesRatingFilter(r.AverageRating12m, p.MinRating) {
			continue
		}
		if !passesDistanceFilter(r.DistanceKm, p.MaxDistanceKm) {
			continue
		}

		for cat, dst := range map[string]*[]models.NamedRef{
			"qualifications": &r.Qualifications,
			"tags":           &r.Tags,
			"languages":      &r.Languages,
		} {
			refs, err := repository.ListProfileAttrRefs(ctx, s.DB, cat, c.Profile.ID)
			if err != nil {
				return SearchResponse{}, err
			}
			if refs == nil {
				refs = []models.NamedRef{}
			}
			*dst = refs
		}

		results = append(results, r)
	}

	rankResults(results)
	return SearchResponse{Results: results}, nil
}

// hasAllIDs is set containment: every wanted id must be present. An empty
// want list always passes.
func hasAllIDs(have, want []int64) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[int64]struct{}, len(have))
	for _, id := range have {
		set[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// passesRatingFilter excludes candidates whose windowed rating is absent or
// below the threshold.
func passesRatingFilter(rating, minRating *float64) bool {
	if minRating == nil {
		return true
	}
	return rating != nil && *rating >= *minRating
}

// passesDistanceFilter excludes candidates whose distance is absent or above
// the cap.
func passesDistanceFilter(distance, maxDistance *float64) bool {
	if maxDistance == nil {
		return true
	}
	return distance != nil && *distance <= *maxDistance
}

// rankResults sorts in place: known distance first, then nearest, then known
// rating, then highest rating, then most reviews, then nanny id.
func rankResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]

		if (a.DistanceKm == nil) != (b.DistanceKm == nil) {
			return a.DistanceKm != nil
		}
		if a.DistanceKm != nil && *a.DistanceKm != *b.DistanceKm {
			return *a.DistanceKm < *b.DistanceKm
		}

		if (a.AverageRating12m == nil) != (b.AverageRating12m == nil) {
			return a.AverageRating12m != nil
		}
		if a.AverageRating12m != nil && *a.AverageRating12m != *b.AverageRating12m {
			return *a.AverageRating12m > *b.AverageRating12m
		}

		if a.ReviewCount12m != b.ReviewCount12m {
			return a.ReviewCount12m > b.ReviewCount12m
		}
		return a.NannyID < b.NannyID
	})
}

// ageAt returns full years between dob and now, nil when dob is unknown.
func ageAt(dob *time.Time, now time.Time) *int {
	if dob == nil {
		return nil
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return &years
}
