package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreationDate_AtAnchors(t *testing.T) {
	// An id exactly on an anchor must land exactly on the anchor date.
	got := CreationDate(100_000_000)
	assert.Equal(t, time.Date(2013, time.August, 1, 0, 0, 0, 0, time.UTC), got)

	got = CreationDate(2_000_000_000)
	assert.Equal(t, time.Date(2022, time.December, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestCreationDate_Interpolates(t *testing.T) {
	// 20,000,000 ids past an anchor is one day past the anchor date.
	got := CreationDate(1_500_000_000 + 20_000_000)
	assert.Equal(t, time.Date(2021, time.May, 2, 0, 0, 0, 0, time.UTC), got)

	// Below the first anchor the line extrapolates backwards.
	got = CreationDate(100_000_000 - 40_000_000)
	assert.Equal(t, time.Date(2013, time.July, 30, 0, 0, 0, 0, time.UTC), got)
}

func TestCreationDate_MonotonicWithinSegments(t *testing.T) {
	// Walking up in ids must never step backwards in time within the range
	// governed by a single closest anchor.
	ids := []int64{
		50_000_000, 100_000_000, 400_000_000,
		1_300_000_000, 1_400_000_000, 1_500_000_000,
		1_600_000_000, 1_900_000_000, 2_000_000_000, 5_000_000_000,
	}
	prev := CreationDate(ids[0])
	for _, id := range ids[1:] {
		cur := CreationDate(id)
		assert.False(t, cur.Before(prev), "date went backwards at id %d", id)
		prev = cur
	}
}

func TestAccountAge(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	created := time.Date(2020, time.January, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "5 years, 2 months, 5 days", AccountAge(created, now))

	// Day borrow: created late in a month, now early in a month.
	created = time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1 years, 1 months, 7 days", AccountAge(created, now))

	// Month borrow across a year boundary.
	created = time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "0 years, 4 months, 9 days", AccountAge(created, now))
}

func TestGeography(t *testing.T) {
	one, ninetyNine := 1, 99
	assert.Equal(t, "MIA, Miami, USA, US", Geography(&one))
	assert.Equal(t, UnknownLocation, Geography(&ninetyNine))
	assert.Equal(t, UnknownLocation, Geography(nil))
}

func TestProfilePhotoURL(t *testing.T) {
	assert.Equal(t, "https://t.me/i/userpic/640/abc.jpg", ProfilePhotoURL("@abc", 640))
	assert.Equal(t, "https://t.me/i/userpic/320/abc.jpg", ProfilePhotoURL("abc", DefaultPhotoSize))
	assert.Equal(t, "", ProfilePhotoURL("", 320))
	assert.Equal(t, "", ProfilePhotoURL("@", 320))
}

func TestUserLinks(t *testing.T) {
	links := UserLinks(777000)
	assert.Equal(t, "tg://openmessage?user_id=777000", links.Android)
	assert.Equal(t, "tg://user?id=777000", links.IOS)
	assert.Equal(t, "tg://user?id=777000", links.Permanent)
}

func TestChatLinksFor(t *testing.T) {
	// Public handle wins over everything.
	links := ChatLinksFor("somechannel", -1001234567890)
	assert.Equal(t, "https://t.me/somechannel", links.Join)
	assert.Equal(t, "https://t.me/somechannel", links.Permanent)

	// Negative id without a handle: -100 marker stripped.
	links = ChatLinksFor("", -1001234567890)
	assert.Equal(t, "https://t.me/c/1234567890/1", links.Join)
	assert.Equal(t, "https://t.me/c/1234567890/1", links.Permanent)

	// Positive id without a handle falls back to tg://resolve.
	links = ChatLinksFor("", 424242)
	assert.Equal(t, "tg://resolve?domain=424242", links.Join)
}
