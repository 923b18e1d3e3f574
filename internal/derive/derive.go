// Package derive computes the synthetic fields attached to a resolved
// entity: estimated creation date, human-readable account age, data-center
// geography, profile photo URL and deep links.
//
// The creation-date estimate is a heuristic, not authoritative: Telegram
// assigns user ids roughly monotonically, so the date is interpolated from a
// small set of (id, date) anchor points with a fixed slope of 20,000,000 ids
// per day. Treat the result as an approximation with no error bounds.
package derive

import (
	"fmt"
	"strings"
	"time"

	"github.com/nkka404/tginfo/internal/model"
)

// idsPerDay is the interpolation slope between anchor points.
const idsPerDay = 20_000_000

// DefaultPhotoSize is the userpic size used when the caller does not ask
// for a specific one.
const DefaultPhotoSize = 320

// anchor pairs a known user id with the approximate date it was issued.
type anchor struct {
	id   int64
	date time.Time
}

// anchors must stay sorted by id ascending for the interpolation to be
// meaningful.
var anchors = []anchor{
	{100_000_000, time.Date(2013, time.August, 1, 0, 0, 0, 0, time.UTC)},
	{1_273_841_502, time.Date(2020, time.August, 13, 0, 0, 0, 0, time.UTC)},
	{1_500_000_000, time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC)},
	{2_000_000_000, time.Date(2022, time.December, 1, 0, 0, 0, 0, time.UTC)},
}

// dcLocations maps Telegram data-center ids to human-readable locations.
var dcLocations = map[int]string{
	1:  "MIA, Miami, USA, US",
	2:  "AMS, Amsterdam, Netherlands, NL",
	3:  "MBA, Mumbai, India, IN",
	4:  "STO, Stockholm, Sweden, SE",
	5:  "SIN, Singapore, SG",
	6:  "LHR, London, United Kingdom, GB",
	7:  "FRA, Frankfurt, Germany, DE",
	8:  "JFK, New York, USA, US",
	9:  "HKG, Hong Kong, HK",
	10: "TYO, Tokyo, Japan, JP",
	11: "SYD, Sydney, Australia, AU",
	12: "GRU, São Paulo, Brazil, BR",
	13: "DXB, Dubai, UAE, AE",
	14: "CDG, Paris, France, FR",
	15: "ICN, Seoul, South Korea, KR",
}

// UnknownLocation is returned for absent or unmapped data-center ids.
const UnknownLocation = "Unknown"

// CreationDate estimates when the account with the given id was created.
// The anchor numerically closest to the id is selected (ties go to the
// earlier anchor) and the remaining distance is converted to days.
func CreationDate(id int64) time.Time {
	closest := anchors[0]
	closestDist := absDiff(id, closest.id)
	for _, a := range anchors[1:] {
		if d := absDiff(id, a.id); d < closestDist {
			closest, closestDist = a, d
		}
	}
	days := float64(id-closest.id) / idsPerDay
	return closest.date.Add(time.Duration(days * 24 * float64(time.Hour)))
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}

// AccountAge formats the calendar-aware difference between created and now
// as "{y} years, {m} months, {d} days". Month and year lengths vary, so the
// difference is computed by borrowing days from the previous month and
// months from the previous year, not by dividing a duration.
func AccountAge(created, now time.Time) string {
	years := now.Year() - created.Year()
	months := int(now.Month()) - int(created.Month())
	days := now.Day() - created.Day()

	if days < 0 {
		// Borrow the length of the month preceding `now`.
		prevMonth := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location())
		days += prevMonth.Day()
		months--
	}
	if months < 0 {
		months += 12
		years--
	}
	return fmt.Sprintf("%d years, %d months, %d days", years, months, days)
}

// Geography resolves a data-center id to its location label. Nil or
// unmapped ids degrade to UnknownLocation rather than failing.
func Geography(dcID *int) string {
	if dcID == nil {
		return UnknownLocation
	}
	loc, ok := dcLocations[*dcID]
	if !ok {
		return UnknownLocation
	}
	return loc
}

// ProfilePhotoURL builds the public userpic URL for a handle, or "" when
// the entity has no handle. A leading @ is tolerated and stripped.
func ProfilePhotoURL(handle string, size int) string {
	handle = strings.TrimPrefix(handle, "@")
	if handle == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/i/userpic/%d/%s.jpg", size, handle)
}

// UserLinks builds the app-native deep links for an account id.
func UserLinks(id int64) model.Links {
	return model.Links{
		Android:   fmt.Sprintf("tg://openmessage?user_id=%d", id),
		IOS:       fmt.Sprintf("tg://user?id=%d", id),
		Permanent: fmt.Sprintf("tg://user?id=%d", id),
	}
}

// ChatLinksFor builds chat links in priority order: a public handle wins;
// otherwise a negative id (the supergroup/channel convention) becomes a
// t.me/c/ link with the -100 marker stripped; anything else falls back to a
// tg://resolve URI.
func ChatLinksFor(handle string, id int64) model.ChatLinks {
	switch {
	case handle != "":
		link := "https://t.me/" + handle
		return model.ChatLinks{Join: link, Permanent: link}
	case id < 0:
		stripped := strings.Replace(fmt.Sprintf("%d", id), "-100", "", 1)
		link := fmt.Sprintf("https://t.me/c/%s/1", stripped)
		return model.ChatLinks{Join: link, Permanent: link}
	default:
		link := fmt.Sprintf("tg://resolve?domain=%d", id)
		return model.ChatLinks{Join: link, Permanent: link}
	}
}
