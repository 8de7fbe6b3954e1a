package session

import "sync"

// MemoryStore is an in-process Store used by tests and by deployments that
// run without Redis. Behaviourally identical to RedisStore minus the TTL.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// MemoryFactory hands out one MemoryStore per session ID.
type MemoryFactory struct {
	mu     sync.Mutex
	stores map[string]*MemoryStore
}

func NewMemoryFactory() *MemoryFactory {
	return &MemoryFactory{stores: make(map[string]*MemoryStore)}
}

func (f *MemoryFactory) ForSession(sessionID string) Store {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.stores[sessionID]
	if !ok {
		st = NewMemoryStore()
		f.stores[sessionID] = st
	}
	return st
}

func (s *MemoryStore) set(fields map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range fields {
		s.values[k] = v
	}
}

func (s *MemoryStore) get(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[field]
}

func (s *MemoryStore) del(fields ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range fields {
		delete(s.values, f)
	}
}

func (s *MemoryStore) SetPhoneVerified(phoneNumber string) {
	s.set(map[string]string{
		fieldVerifiedPhone:       "true",
		fieldVerifiedPhoneNumber: phoneNumber,
	})
}

func (s *MemoryStore) GetPhoneVerified() (bool, string) {
	return s.get(fieldVerifiedPhone) == "true", s.get(fieldVerifiedPhoneNumber)
}

func (s *MemoryStore) ClearPhoneVerified() {
	s.del(fieldVerifiedPhone, fieldVerifiedPhoneNumber)
}

func (s *MemoryStore) IsPhoneNumberVerified(candidate string) bool {
	isVerified, verified := s.GetPhoneVerified()
	if !isVerified {
		return false
	}
	return samePhoneDigits(candidate, verified)
}

func (s *MemoryStore) SetPrivacyAccepted() {
	s.set(map[string]string{fieldPrivacyAccepted: "true"})
}

func (s *MemoryStore) GetPrivacyAccepted() bool {
	return s.get(fieldPrivacyAccepted) == "true"
}

func (s *MemoryStore) ClearPrivacyAccepted() {
	s.del(fieldPrivacyAccepted)
}

func (s *MemoryStore) SetAddressFields(house, city, state, zipcode string) {
	s.set(map[string]string{
		fieldAddressHouse: house,
		fieldAddressCity:  city,
		fieldAddressState: state,
		fieldAddressZip:   zipcode,
	})
}

func (s *MemoryStore) GetAddressFields() AddressFields {
	return AddressFields{
		House:   s.get(fieldAddressHouse),
		City:    s.get(fieldAddressCity),
		State:   s.get(fieldAddressState),
		Zipcode: s.get(fieldAddressZip),
	}
}

func (s *MemoryStore) ClearAddressFields() {
	s.del(fieldAddressHouse, fieldAddressCity, fieldAddressState, fieldAddressZip)
}
