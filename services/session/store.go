// Package session persists the handful of wizard facts that should survive a
// page reload within one browser session: the verified phone number, the
// privacy-policy acceptance and the last confirmed address. Everything else
// in the wizard is rebuilt from the state cache.
package session

import "haulaway/utils"

// AddressFields is the address quadruple, always read and written as a unit.
type AddressFields struct {
	House   string `json:"house"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

// Store is the persistence capability one wizard session depends on. None of
// the operations return errors: when the backend is unreachable the store
// degrades to defaults so a storage outage can never break the wizard.
type Store interface {
	SetPhoneVerified(phoneNumber string)
	GetPhoneVerified() (isVerified bool, phoneNumber string)
	ClearPhoneVerified()
	// IsPhoneNumberVerified compares digit-only forms of the candidate and
	// the persisted verified number.
	IsPhoneNumberVerified(candidate string) bool

	SetPrivacyAccepted()
	GetPrivacyAccepted() bool
	ClearPrivacyAccepted()

	SetAddressFields(house, city, state, zipcode string)
	GetAddressFields() AddressFields
	ClearAddressFields()
}

// Factory yields the Store bound to one wizard session.
type Factory interface {
	ForSession(sessionID string) Store
}

func samePhoneDigits(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return utils.CleanPhoneNumber(a) == utils.CleanPhoneNumber(b)
}
