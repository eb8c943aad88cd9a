package alt

import (
	"fmt"
	"time"

	domain "github.com/donaldgifford/auction-proxy/pkg/types"
)

// ToListings converts raw searchCards items into domain listings, computing
// time remaining relative to now.
func ToListings(items []RawListing, now time.Time) []domain.Listing {
	listings := make([]domain.Listing, 0, len(items))
	for i := range items {
		listings = append(listings, toListing(&items[i], now))
	}
	return listings
}

func toListing(item *RawListing, now time.Time) domain.Listing {
	l := domain.Listing{
		ID:          item.ID,
		Title:       item.Title,
		URL:         item.URL,
		ImageURL:    item.ImageURL,
		Status:      item.Status,
		ListingType: item.ListingType,
		EndAt:       item.EndAt,
		BidCount:    item.BidCount,
	}

	if item.Price != nil {
		l.CurrentPrice = &domain.Price{Value: *item.Price, Currency: domain.CurrencyUSD}
	}

	if item.EndAt != nil {
		if end, err := time.Parse(time.RFC3339, *item.EndAt); err == nil {
			secs := SecondsRemaining(end, now)
			human := FormatRemaining(secs)
			l.TimeRemainingSeconds = &secs
			l.TimeRemainingHuman = &human
		}
	}

	return l
}

// SecondsRemaining returns whole seconds from now until end, never negative.
func SecondsRemaining(end, now time.Time) int64 {
	left := int64(end.Sub(now) / time.Second)
	return max(0, left)
}

// FormatRemaining renders seconds as "1d 2h 3m". The day segment is omitted
// when zero; hours and minutes are always present.
func FormatRemaining(secs int64) string {
	d := secs / 86400
	h := (secs % 86400) / 3600
	m := (secs % 3600) / 60
	if d > 0 {
		return fmt.Sprintf("%dd %dh %dm", d, h, m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
