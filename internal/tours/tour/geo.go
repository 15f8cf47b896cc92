// Copyright (c) 2026 Trailhead. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tour

import (
	"strconv"
	"strings"

	"github.com/taibuivan/trailhead/internal/platform/apperr"
)

// Unit is a distance unit accepted by the geospatial searches.
type Unit string

const (
	Miles      Unit = "mi"
	Kilometers Unit = "km"
)

// EarthRadius returns the earth radius expressed in the unit.
func (unit Unit) EarthRadius() float64 {
	if unit == Miles {
		return 3963.2
	}
	return 6378.1
}

// ParseUnit accepts "mi" and "km".
func ParseUnit(raw string) (Unit, error) {
	switch Unit(raw) {
	case Miles, Kilometers:
		return Unit(raw), nil
	}
	return "", apperr.BadRequest("Unit must be mi or km")
}

// Point is a coordinate pair in degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// ParseCenter reads a "lat,lng" pair.
func ParseCenter(raw string) (Point, error) {
	invalid := apperr.BadRequest("Please provide latitude and longitude in the format lat,lng")

	latitudeText, longitudeText, found := strings.Cut(raw, ",")
	if !found {
		return Point{}, invalid
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(latitudeText), 64)
	if err != nil || latitude < -90 || latitude > 90 {
		return Point{}, invalid
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(longitudeText), 64)
	if err != nil || longitude < -180 || longitude > 180 {
		return Point{}, invalid
	}

	return Point{Latitude: latitude, Longitude: longitude}, nil
}

// ParseDistance reads a positive search radius.
func ParseDistance(raw string) (float64, error) {
	distance, err := strconv.ParseFloat(raw, 64)
	if err != nil || distance <= 0 {
		return 0, apperr.BadRequest("Distance must be a positive number")
	}
	return distance, nil
}
