package types

// LocalizedText mirrors the Places API localized string shape.
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Rect is a latitude/longitude rectangle (low is the southwest corner).
type Rect struct {
	Low  LatLng `json:"low"`
	High LatLng `json:"high"`
}

// TimePoint is one endpoint of an opening period, indexed by weekday
// (0 = Sunday, matching the Places API).
type TimePoint struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

type OpeningPeriod struct {
	Open  TimePoint  `json:"open"`
	Close *TimePoint `json:"close,omitempty"`
}

type OpeningHours struct {
	Periods []OpeningPeriod `json:"periods"`
}

// AccessibilityOptions carries the four wheelchair accessibility flags the
// Places API exposes.
type AccessibilityOptions struct {
	WheelchairAccessibleParking  bool `json:"wheelchairAccessibleParking"`
	WheelchairAccessibleEntrance bool `json:"wheelchairAccessibleEntrance"`
	WheelchairAccessibleRestroom bool `json:"wheelchairAccessibleRestroom"`
	WheelchairAccessibleSeating  bool `json:"wheelchairAccessibleSeating"`
}

// Place is the immutable record returned by the place search collaborator.
// Optional fields stay pointers so that missing data is distinguishable from
// zero values.
type Place struct {
	ID                   string                `json:"id"`
	DisplayName          LocalizedText         `json:"displayName"`
	Types                []string              `json:"types,omitempty"`
	FormattedAddress     string                `json:"formattedAddress"`
	Rating               float64               `json:"rating,omitempty"`
	PriceLevel           string                `json:"priceLevel,omitempty"`
	CurrentOpeningHours  *OpeningHours         `json:"currentOpeningHours,omitempty"`
	UTCOffsetMinutes     int                   `json:"utcOffsetMinutes,omitempty"`
	EditorialSummary     *LocalizedText        `json:"editorialSummary,omitempty"`
	GoodForChildren      bool                  `json:"goodForChildren,omitempty"`
	GoodForGroups        bool                  `json:"goodForGroups,omitempty"`
	AccessibilityOptions *AccessibilityOptions `json:"accessibilityOptions,omitempty"`
	Location             LatLng                `json:"location,omitempty"`
}

// AccessibilityScore is the fraction of the four accessibility flags set,
// in [0,1]. Missing accessibility data scores 0.
func (p *Place) AccessibilityScore() float64 {
	if p.AccessibilityOptions == nil {
		return 0
	}
	const totalAccessibilityFields = 4
	count := 0
	for _, set := range []bool{
		p.AccessibilityOptions.WheelchairAccessibleParking,
		p.AccessibilityOptions.WheelchairAccessibleEntrance,
		p.AccessibilityOptions.WheelchairAccessibleRestroom,
		p.AccessibilityOptions.WheelchairAccessibleSeating,
	} {
		if set {
			count++
		}
	}
	return float64(count) / float64(totalAccessibilityFields)
}

// NumericPriceLevel maps the Places API price level enum onto 0..4.
// Unknown or unspecified levels map to 0 so missing data never penalizes.
func (p *Place) NumericPriceLevel() int {
	switch p.PriceLevel {
	case "PRICE_LEVEL_VERY_EXPENSIVE":
		return 4
	case "PRICE_LEVEL_EXPENSIVE":
		return 3
	case "PRICE_LEVEL_MODERATE":
		return 2
	case "PRICE_LEVEL_INEXPENSIVE":
		return 1
	default:
		return 0
	}
}
