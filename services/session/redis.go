package session

import (
	"context"
	"time"

	"haulaway/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Field names inside the per-session hash. These mirror the keys the web
// client used in sessionStorage.
const (
	fieldVerifiedPhone       = "verifiedPhone"
	fieldVerifiedPhoneNumber = "verifiedPhoneNumber"
	fieldPrivacyAccepted     = "privacyAccepted"
	fieldAddressHouse        = "addressHouse"
	fieldAddressCity         = "addressCity"
	fieldAddressState        = "addressState"
	fieldAddressZip          = "addressZip"
)

// RedisStore keeps the persisted flags of one wizard session in a single
// Redis hash with a sliding TTL. All failures are swallowed: reads fall back
// to zero values, writes are best effort.
type RedisStore struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

// RedisFactory builds RedisStores over a shared client.
type RedisFactory struct {
	Client *redis.Client
	TTL    time.Duration
}

func (f *RedisFactory) ForSession(sessionID string) Store {
	return &RedisStore{client: f.Client, sessionID: sessionID, ttl: f.TTL}
}

func (s *RedisStore) key() string {
	return "flags:" + s.sessionID
}

func (s *RedisStore) set(fields map[string]interface{}) {
	ctx := context.Background()
	if err := s.client.HSet(ctx, s.key(), fields).Err(); err != nil {
		utils.GetLogger().Debug("session flag write failed", zap.Error(err))
		return
	}
	s.client.Expire(ctx, s.key(), s.ttl)
}

func (s *RedisStore) get(fields ...string) []string {
	vals, err := s.client.HMGet(context.Background(), s.key(), fields...).Result()
	out := make([]string, len(fields))
	if err != nil {
		utils.GetLogger().Debug("session flag read failed", zap.Error(err))
		return out
	}
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[i] = str
		}
	}
	return out
}

func (s *RedisStore) del(fields ...string) {
	if err := s.client.HDel(context.Background(), s.key(), fields...).Err(); err != nil {
		utils.GetLogger().Debug("session flag delete failed", zap.Error(err))
	}
}

func (s *RedisStore) SetPhoneVerified(phoneNumber string) {
	s.set(map[string]interface{}{
		fieldVerifiedPhone:       "true",
		fieldVerifiedPhoneNumber: phoneNumber,
	})
}

func (s *RedisStore) GetPhoneVerified() (bool, string) {
	vals := s.get(fieldVerifiedPhone, fieldVerifiedPhoneNumber)
	return vals[0] == "true", vals[1]
}

func (s *RedisStore) ClearPhoneVerified() {
	s.del(fieldVerifiedPhone, fieldVerifiedPhoneNumber)
}

func (s *RedisStore) IsPhoneNumberVerified(candidate string) bool {
	isVerified, verified := s.GetPhoneVerified()
	if !isVerified {
		return false
	}
	return samePhoneDigits(candidate, verified)
}

func (s *RedisStore) SetPrivacyAccepted() {
	s.set(map[string]interface{}{fieldPrivacyAccepted: "true"})
}

func (s *RedisStore) GetPrivacyAccepted() bool {
	return s.get(fieldPrivacyAccepted)[0] == "true"
}

func (s *RedisStore) ClearPrivacyAccepted() {
	s.del(fieldPrivacyAccepted)
}

func (s *RedisStore) SetAddressFields(house, city, state, zipcode string) {
	s.set(map[string]interface{}{
		fieldAddressHouse: house,
		fieldAddressCity:  city,
		fieldAddressState: state,
		fieldAddressZip:   zipcode,
	})
}

func (s *RedisStore) GetAddressFields() AddressFields {
	vals := s.get(fieldAddressHouse, fieldAddressCity, fieldAddressState, fieldAddressZip)
	return AddressFields{House: vals[0], City: vals[1], State: vals[2], Zipcode: vals[3]}
}

func (s *RedisStore) ClearAddressFields() {
	s.del(fieldAddressHouse, fieldAddressCity, fieldAddressState, fieldAddressZip)
}
