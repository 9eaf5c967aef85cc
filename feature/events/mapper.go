package events

import (
	"errors"
	"strings"

	"shelter-sync/core/reconcile"
	"shelter-sync/core/utils"
)

// ErrMissingTitle is returned for crawled entries without a title.
var ErrMissingTitle = errors.New("missing eventTitle")

// Record is one undecoded crawl entry.
type Record = map[string]any

// MapRecord converts one crawl entry into a PetEvent keyed by its hash.
func MapRecord(raw Record) (*PetEvent, error) {
	str := func(key string) *string {
		return utils.ToOptionalString(raw[key])
	}

	title := str("eventTitle")
	if title == nil || strings.TrimSpace(*title) == "" {
		return nil, reconcile.MappingError(utils.ToString(raw["eventUrl"]), ErrMissingTitle)
	}

	e := &PetEvent{
		Source:          str("source"),
		EventTitle:      title,
		EventURL:        str("eventUrl"),
		Location:        str("location"),
		EventDate:       str("eventDate"),
		ReservationDate: str("reservationDate"),
		EventTime:       str("eventTime"),
		EventMoney:      str("eventMoney"),
		ImagePath:       str("imagePath"),
	}
	e.Hash = Hash(e.EventTitle, e.EventURL, e.Location)
	return e, nil
}
