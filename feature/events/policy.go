package events

type trackedField struct {
	name string
	ptr  func(*PetEvent) **string
}

var trackedFields = []trackedField{
	{"source", func(e *PetEvent) **string { return &e.Source }},
	{"event_title", func(e *PetEvent) **string { return &e.EventTitle }},
	{"event_url", func(e *PetEvent) **string { return &e.EventURL }},
	{"location", func(e *PetEvent) **string { return &e.Location }},
	{"event_date", func(e *PetEvent) **string { return &e.EventDate }},
	{"reservation_date", func(e *PetEvent) **string { return &e.ReservationDate }},
	{"event_time", func(e *PetEvent) **string { return &e.EventTime }},
	{"event_money", func(e *PetEvent) **string { return &e.EventMoney }},
	{"image_path", func(e *PetEvent) **string { return &e.ImagePath }},
}

// Policy implements reconcile.Policy for events.
type Policy struct{}

// Key returns the content hash.
func (Policy) Key(e *PetEvent) string {
	return e.Hash
}

// IsChanged reports whether incoming carries a new value for any tracked field.
func (p Policy) IsChanged(stored, incoming *PetEvent) bool {
	return len(p.ChangedFields(stored, incoming)) > 0
}

// ChangedFields lists the tracked fields for which incoming carries a new value.
func (Policy) ChangedFields(stored, incoming *PetEvent) []string {
	var out []string
	for _, f := range trackedFields {
		in := *f.ptr(incoming)
		if in == nil {
			continue
		}
		if st := *f.ptr(stored); st == nil || *st != *in {
			out = append(out, f.name)
		}
	}
	return out
}

// Merge overlays the present fields of incoming onto stored.
func (Policy) Merge(stored, incoming *PetEvent) *PetEvent {
	out := *stored
	for _, f := range trackedFields {
		if in := *f.ptr(incoming); in != nil {
			*f.ptr(&out) = in
		}
	}
	return &out
}

// IsProtected is always true: events are inserted and updated, never swept.
func (Policy) IsProtected(*PetEvent) bool {
	return true
}
