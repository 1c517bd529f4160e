package models

// All lists every table-backed model for migration.
func All() []any {
	return []any{
		&User{}, &UserRole{}, &Profile{}, &RefreshToken{},
		&Product{}, &ProductImage{}, &Review{},
		&Event{}, &EventImage{}, &EventSpeaker{}, &EventHighlight{}, &EventRegistration{},
		&Workshop{}, &WorkshopTimeSlot{}, &WorkshopRegistration{},
		&Donation{}, &Subscriber{},
	}
}
