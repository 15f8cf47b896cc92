// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tour_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
	"github.com/taibuivan/trailhead/internal/platform/testkit"
	"github.com/taibuivan/trailhead/internal/tours/tour"
	"github.com/taibuivan/trailhead/pkg/pointer"
	"github.com/taibuivan/trailhead/pkg/query"
)

// memoryCatalogue is an in-memory [tour.Repository].
type memoryCatalogue struct {
	tours    map[string]*tour.Tour
	lastSpec query.Spec
	center   tour.Point
	radius   float64
	unit     tour.Unit
	year     int
}

func newMemoryCatalogue(tours ...tour.Tour) *memoryCatalogue {
	catalogue := &memoryCatalogue{tours: map[string]*tour.Tour{}}
	for _, item := range tours {
		catalogue.tours[item.ID] = &item
	}
	return catalogue
}

func (catalogue *memoryCatalogue) FindByID(_ context.Context, id string, _ ...string) (*tour.Tour, error) {
	item, ok := catalogue.tours[id]
	if !ok {
		return nil, nil
	}
	clone := *item
	return &clone, nil
}

func (catalogue *memoryCatalogue) FindBySlug(_ context.Context, slug string, _ ...string) (*tour.Tour, error) {
	for _, item := range catalogue.tours {
		if item.Slug == slug {
			clone := *item
			return &clone, nil
		}
	}
	return nil, nil
}

func (catalogue *memoryCatalogue) Find(_ context.Context, spec query.Spec, _ ...string) ([]tour.Tour, error) {
	catalogue.lastSpec = spec
	result := []tour.Tour{}
	for _, item := range catalogue.tours {
		result = append(result, *item)
	}
	return result, nil
}

func (catalogue *memoryCatalogue) Create(_ context.Context, item *tour.Tour) (*tour.Tour, error) {
	item.ID = fmt.Sprintf("t%d", len(catalogue.tours)+1)
	catalogue.tours[item.ID] = item
	return item, nil
}

func (catalogue *memoryCatalogue) Replace(_ context.Context, id string, item *tour.Tour) (*tour.Tour, error) {
	if _, ok := catalogue.tours[id]; !ok {
		return nil, nil
	}
	item.ID = id
	catalogue.tours[id] = item
	return item, nil
}

func (catalogue *memoryCatalogue) Delete(_ context.Context, id string) (*tour.Tour, error) {
	item, ok := catalogue.tours[id]
	if !ok {
		return nil, nil
	}
	delete(catalogue.tours, id)
	return item, nil
}

func (catalogue *memoryCatalogue) Stats(context.Context) ([]tour.DifficultyStats, error) {
	return []tour.DifficultyStats{{Difficulty: "EASY", NumTours: 1, AvgPrice: 397}}, nil
}

func (catalogue *memoryCatalogue) MonthlyPlan(_ context.Context, year int) ([]tour.MonthPlan, error) {
	catalogue.year = year
	return []tour.MonthPlan{{Month: 7, NumTourStarts: 3, Tours: []string{"The Forest Hiker"}}}, nil
}

func (catalogue *memoryCatalogue) Within(_ context.Context, center tour.Point, distance float64, unit tour.Unit) ([]tour.Tour, error) {
	catalogue.center, catalogue.radius, catalogue.unit = center, distance, unit
	return []tour.Tour{}, nil
}

func (catalogue *memoryCatalogue) Distances(_ context.Context, center tour.Point, unit tour.Unit) ([]tour.Distance, error) {
	catalogue.center, catalogue.unit = center, unit
	return []tour.Distance{{ID: "t1", Name: "The Forest Hiker", Distance: 12.5}}, nil
}

func newRouter(catalogue *memoryCatalogue) http.Handler {
	router := chi.NewRouter()
	router.Route("/api/v1/tours", tour.NewHandler(catalogue, testkit.HeaderGuard{}).Register)
	return router
}

func forestHiker() tour.Tour {
	return tour.Tour{
		ID:           "t1",
		Name:         "The Forest Hiker",
		Slug:         "the-forest-hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   "easy",
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	}
}

/*
TestTour_Prepare derives the slug from the name and rounds the rating.
*/
func TestTour_Prepare(t *testing.T) {
	item := forestHiker()
	item.Name = "  The Sea Explorer  "
	item.RatingsAverage = pointer.To(4.666)

	require.NoError(t, item.Prepare())
	assert.Equal(t, "The Sea Explorer", item.Name)
	assert.Equal(t, "the-sea-explorer", item.Slug)
	assert.InDelta(t, 4.7, *item.RatingsAverage, 0.0001)
}

/*
TestTour_Validate covers the field rules of a tour.
*/
func TestTour_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(item *tour.Tour)
		field  string
	}{
		{"valid", func(*tour.Tour) {}, ""},
		{"short name", func(item *tour.Tour) { item.Name = "Short" }, tour.FieldName},
		{"long name", func(item *tour.Tour) { item.Name = "The Very Long Tour Name Of The Northern Lights" }, tour.FieldName},
		{"no duration", func(item *tour.Tour) { item.Duration = 0 }, tour.FieldDuration},
		{"difficulty", func(item *tour.Tour) { item.Difficulty = "extreme" }, tour.FieldDifficulty},
		{"rating above five", func(item *tour.Tour) { item.RatingsAverage = pointer.To(5.5) }, tour.FieldRatingsAverage},
		{"discount above price", func(item *tour.Tour) { item.PriceDiscount = pointer.To(400.0) }, tour.FieldPriceDiscount},
		{"no cover", func(item *tour.Tour) { item.ImageCover = "" }, tour.FieldImageCover},
		{"start location", func(item *tour.Tour) {
			item.StartLocation = &tour.Location{Type: "Point", Coordinates: []float64{-200, 51}}
		}, tour.FieldStartLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := forestHiker()
			tt.mutate(&item)

			err := item.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.CodeValidationFailed, appError.Code)

			fields := make([]string, 0, len(appError.Details))
			for _, detail := range appError.Details {
				fields = append(fields, detail.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

/*
TestParseCenter accepts "lat,lng" pairs within range only.
*/
func TestParseCenter(t *testing.T) {
	center, err := tour.ParseCenter("34.111745,-118.113491")
	require.NoError(t, err)
	assert.Equal(t, tour.Point{Latitude: 34.111745, Longitude: -118.113491}, center)

	for _, raw := range []string{"", "34.1", "north,west", "91,0", "0,181"} {
		_, err := tour.ParseCenter(raw)
		assert.True(t, apperr.HasCode(err, apperr.CodeBadRequest), raw)
	}
}

/*
TestParseUnit accepts miles and kilometers and scales the earth radius.
*/
func TestParseUnit(t *testing.T) {
	unit, err := tour.ParseUnit("mi")
	require.NoError(t, err)
	assert.Equal(t, 3963.2, unit.EarthRadius())

	unit, err = tour.ParseUnit("km")
	require.NoError(t, err)
	assert.Equal(t, 6378.1, unit.EarthRadius())

	_, err = tour.ParseUnit("ft")
	assert.Error(t, err)
}

/*
TestTopCheap overrides the caller's query with the preset alias.
*/
func TestTopCheap(t *testing.T) {
	catalogue := newMemoryCatalogue(forestHiker())
	router := newRouter(catalogue)

	recorder := testkit.Call(router, http.MethodGet, "/api/v1/tours/top-5-cheap?limit=50&sort=name", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	spec := catalogue.lastSpec
	assert.Equal(t, 5, spec.Limit)
	assert.Equal(t, []query.SortField{
		{Field: "ratings_average", Desc: true},
		{Field: "price"},
	}, spec.Sort)
	assert.Equal(t, []string{"name", "price", "ratings_average", "summary", "difficulty"}, spec.Fields)
}

/*
TestList_DefaultSort orders tours by rating when no sort is given.
*/
func TestList_DefaultSort(t *testing.T) {
	catalogue := newMemoryCatalogue(forestHiker())
	router := newRouter(catalogue)

	recorder := testkit.Call(router, http.MethodGet, "/api/v1/tours?difficulty=easy", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.Equal(t, []query.SortField{{Field: "ratings_average"}}, catalogue.lastSpec.Sort)
	assert.Equal(t, []query.Predicate{query.Eq("difficulty", "easy")}, catalogue.lastSpec.Predicates)
	assert.EqualValues(t, 1, testkit.Decode(t, recorder)["results"])
}

/*
TestList_RepeatedFilter matches any of the repeated values for whitelisted
fields and keeps only the last value for the rest.
*/
func TestList_RepeatedFilter(t *testing.T) {
	catalogue := newMemoryCatalogue(forestHiker())
	router := newRouter(catalogue)

	recorder := testkit.Call(router, http.MethodGet,
		"/api/v1/tours?difficulty=easy&difficulty=medium&name=a&name=b", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.ElementsMatch(t, []query.Predicate{
		{Field: tour.FieldDifficulty, Op: query.OpIn, Value: []string{"easy", "medium"}},
		query.Eq(tour.FieldName, "b"),
	}, catalogue.lastSpec.Predicates)
}

/*
TestCreate_Roles lets admins and lead guides create tours.
*/
func TestCreate_Roles(t *testing.T) {
	body := `{"name":"The Snow Adventurer","duration":4,"max_group_size":10,"difficulty":"difficult",
		"price":997,"summary":"Exciting adventure in the snow","image_cover":"tour-3-cover.jpg"}`

	tests := []struct {
		name   string
		user   string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"user", "u1:user", http.StatusForbidden},
		{"guide", "g1:guide", http.StatusForbidden},
		{"lead guide", "l1:lead-guide", http.StatusCreated},
		{"admin", "a1:admin", http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(newMemoryCatalogue())

			recorder := testkit.Call(router, http.MethodPost, "/api/v1/tours", tt.user, body)
			assert.Equal(t, tt.status, recorder.Code)
			if tt.status == http.StatusCreated {
				assert.Contains(t, recorder.Body.String(), `"slug":"the-snow-adventurer"`)
			}
		})
	}
}

/*
TestUpdate_RenamesSlug re-derives the slug from the merged name.
*/
func TestUpdate_RenamesSlug(t *testing.T) {
	catalogue := newMemoryCatalogue(forestHiker())
	router := newRouter(catalogue)

	recorder := testkit.Call(router, http.MethodPatch, "/api/v1/tours/t1", "a1:admin", `{"name":"The Forest Walker"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "the-forest-walker", catalogue.tours["t1"].Slug)

	recorder = testkit.Call(router, http.MethodPatch, "/api/v1/tours/t9", "a1:admin", `{"name":"The Forest Walker"}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "No tour found with that id")
}

/*
TestMonthlyPlan is restricted to staff and requires a numeric year.
*/
func TestMonthlyPlan(t *testing.T) {
	catalogue := newMemoryCatalogue()
	router := newRouter(catalogue)

	recorder := testkit.Call(router, http.MethodGet, "/api/v1/tours/monthly-plan/2021", "u1:user", "")
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = testkit.Call(router, http.MethodGet, "/api/v1/tours/monthly-plan/next", "g1:guide", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = testkit.Call(router, http.MethodGet, "/api/v1/tours/monthly-plan/2021", "g1:guide", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 2021, catalogue.year)
	assert.Contains(t, recorder.Body.String(), `"num_tour_starts":3`)
}

/*
TestStats is public.
*/
func TestStats(t *testing.T) {
	recorder := testkit.Call(newRouter(newMemoryCatalogue()), http.MethodGet, "/api/v1/tours/tour-stats", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"difficulty":"EASY"`)
}

/*
TestGeoRoutes parses the path segments of the geospatial searches.
*/
func TestGeoRoutes(t *testing.T) {
	catalogue := newMemoryCatalogue()
	router := newRouter(catalogue)

	recorder := testkit.Call(router, http.MethodGet, "/api/v1/tours/tours-within/250/center/34.1,-118.1/unit/mi", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, tour.Point{Latitude: 34.1, Longitude: -118.1}, catalogue.center)
	assert.Equal(t, 250.0, catalogue.radius)
	assert.Equal(t, tour.Miles, catalogue.unit)

	recorder = testkit.Call(router, http.MethodGet, "/api/v1/tours/tours-within/250/center/34.1/unit/mi", "", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "lat,lng")

	recorder = testkit.Call(router, http.MethodGet, "/api/v1/tours/distances/34.1,-118.1/unit/km", "", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, tour.Kilometers, catalogue.unit)
	assert.Contains(t, recorder.Body.String(), `"distance":12.5`)
}
