package wizard

import (
	"haulaway/models"
	"haulaway/services/session"
)

const (
	minStep = 1
	maxStep = 5
)

// NewState builds a pristine booking state, hydrated from whatever the
// per-session flag store still holds. A stored verified phone only counts
// when the number itself is non-empty.
func NewState(store session.Store) models.BookingState {
	s := models.BookingState{CurrentStep: minStep}

	if verified, phone := store.GetPhoneVerified(); verified && phone != "" {
		s.PhoneNumber = phone
		s.IsPhoneVerified = true
	}
	s.IsPrivacyAccepted = store.GetPrivacyAccepted()

	addr := store.GetAddressFields()
	s.Address = addr.House
	s.City = addr.City
	s.State = addr.State
	s.ZipCode = addr.Zipcode

	return s
}

// Apply runs one action against the state and returns the next state. It is
// total: unknown or out-of-range inputs leave the state unchanged rather than
// failing. Side effects on the flag store happen here so the persisted flags
// can never drift from the in-memory state.
func Apply(store session.Store, s models.BookingState, a Action) models.BookingState {
	switch a.kind {
	case ActionSetFirstName:
		s.FirstName = a.str
	case ActionSetLastName:
		s.LastName = a.str

	case ActionSetPhoneNumber:
		s.PhoneNumber = a.str
		if s.IsPhoneVerified && !store.IsPhoneNumberVerified(a.str) {
			s.IsPhoneVerified = false
			store.ClearPhoneVerified()
		}

	case ActionSetAddress:
		s.Address = a.str
		persistAddress(store, s)
	case ActionSetCity:
		s.City = a.str
		persistAddress(store, s)
	case ActionSetState:
		s.State = a.str
		persistAddress(store, s)
	case ActionSetZipCode:
		s.ZipCode = a.str
		persistAddress(store, s)

	case ActionSetPhoneVerified:
		if a.flag && s.PhoneNumber != "" {
			s.IsPhoneVerified = true
			store.SetPhoneVerified(s.PhoneNumber)
		} else {
			s.IsPhoneVerified = false
			store.ClearPhoneVerified()
		}

	case ActionSetPrivacyAccepted:
		s.IsPrivacyAccepted = a.flag
		if a.flag {
			store.SetPrivacyAccepted()
		} else {
			store.ClearPrivacyAccepted()
		}

	case ActionSetJobSize:
		s.SelectedJobSize = a.jobSize
	case ActionSetNotes:
		s.Notes = a.str
	case ActionSetNotes2:
		s.Notes2 = a.str

	case ActionAddPhoto:
		photos := make([]models.PhotoRef, len(s.Photos), len(s.Photos)+1)
		copy(photos, s.Photos)
		s.Photos = append(photos, *a.photo)
	case ActionRemovePhoto:
		if a.index < 0 || a.index >= len(s.Photos) {
			break
		}
		photos := make([]models.PhotoRef, 0, len(s.Photos)-1)
		photos = append(photos, s.Photos[:a.index]...)
		photos = append(photos, s.Photos[a.index+1:]...)
		s.Photos = photos

	case ActionSetSelectedDate:
		s.SelectedDate = a.date
	case ActionSetSelectedTime:
		s.SelectedTime = a.hour

	case ActionSetCurrentStep:
		s.CurrentStep = clampStep(a.step)
	case ActionNextStep:
		s.CurrentStep = clampStep(s.CurrentStep + 1)
	case ActionPrevStep:
		s.CurrentStep = clampStep(s.CurrentStep - 1)

	case ActionSetSubmitted:
		s.IsSubmitted = a.flag
	case ActionSetAppointmentID:
		id := a.id
		s.AppointmentID = &id
	case ActionSetDispatcherID:
		s.DispatcherID = a.str

	case ActionReset:
		store.ClearPhoneVerified()
		store.ClearPrivacyAccepted()
		store.ClearAddressFields()
		return NewState(store)
	}
	return s
}

// ApplyAll folds a sequence of actions over the state in order.
func ApplyAll(store session.Store, s models.BookingState, actions ...Action) models.BookingState {
	for _, a := range actions {
		s = Apply(store, s, a)
	}
	return s
}

// persistAddress writes the full address quadruple whenever any one of the
// four fields changes, so a restored session always sees a consistent set.
func persistAddress(store session.Store, s models.BookingState) {
	store.SetAddressFields(s.Address, s.City, s.State, s.ZipCode)
}

func clampStep(step int) int {
	if step < minStep {
		return minStep
	}
	if step > maxStep {
		return maxStep
	}
	return step
}
