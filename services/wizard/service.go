package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"haulaway/integrations/dispatchapi"
	"haulaway/models"
	"haulaway/services/session"
	"haulaway/utils"
)

// StateKey is the cache key holding the serialized state for one session.
func StateKey(sessionID string) string {
	return "wizard:session:" + sessionID
}

const (
	defaultJobSizeID  = "2"
	invalidCodeMsg    = "Invalid code. Please try again."
	sendCodeFailedMsg = "Could not send the verification code. Please try again."
	badAddressMsg     = "We do not service this address yet."
	submitFailedMsg   = "Could not create the appointment. Please try again."
)

// DefaultWizardService is the production WizardService. State lives in the
// cache as JSON under the session id; per-session flags live in the flag
// store; photos live in the disk spool. The in-flight maps replace the
// single-threaded guarantees a browser tab would give: one OTP send, one
// check per code and one submit per session at a time.
type DefaultWizardService struct {
	cache          StateCache
	flags          session.Factory
	gateway        Gateway
	photos         *PhotoStore
	sessionTTL     time.Duration
	searchDebounce time.Duration

	guard          *inFlightGuard
	searchers      *searcherSet
}

// NewWizardService wires a wizard service from its dependencies.
func NewWizardService(cache StateCache, flags session.Factory, gateway Gateway, photos *PhotoStore, sessionTTL, searchDebounce time.Duration) *DefaultWizardService {
	return &DefaultWizardService{
		cache:          cache,
		flags:          flags,
		gateway:        gateway,
		photos:         photos,
		sessionTTL:     sessionTTL,
		searchDebounce: searchDebounce,
		guard:          newInFlightGuard(),
		searchers:      newSearcherSet(),
	}
}

func (s *DefaultWizardService) StartSession(ctx context.Context, sessionID, dispatcherID string) (string, models.BookingState, error) {
	logger := utils.GetLogger()

	if sessionID != "" {
		state, err := s.loadState(ctx, sessionID)
		if err == nil {
			return sessionID, state, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return "", models.BookingState{}, err
		}
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	store := s.flags.ForSession(sessionID)
	state := NewState(store)
	if dispatcherID != "" {
		state = Apply(store, state, SetDispatcherID(dispatcherID))
	}
	if err := s.saveState(ctx, sessionID, state); err != nil {
		return "", models.BookingState{}, err
	}

	logger.Info("Wizard session started",
		zap.String("sessionID", sessionID),
		zap.Bool("phoneVerified", state.IsPhoneVerified),
		zap.Bool("privacyAccepted", state.IsPrivacyAccepted))
	return sessionID, state, nil
}

func (s *DefaultWizardService) GetState(ctx context.Context, sessionID string) (models.BookingState, error) {
	return s.loadState(ctx, sessionID)
}

func (s *DefaultWizardService) Apply(ctx context.Context, sessionID string, actions ...Action) (models.BookingState, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return models.BookingState{}, err
	}
	store := s.flags.ForSession(sessionID)
	state = ApplyAll(store, state, actions...)
	if err := s.saveState(ctx, sessionID, state); err != nil {
		return models.BookingState{}, err
	}
	return state, nil
}

func (s *DefaultWizardService) Continue(ctx context.Context, sessionID string, from Step) (Step, models.BookingState, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return "", models.BookingState{}, err
	}

	target := ContinueFrom(state, from)
	target = NextAllowedStep(state, target)

	store := s.flags.ForSession(sessionID)
	state = Apply(store, state, SetCurrentStep(StepOrdinal(target)))
	if err := s.saveState(ctx, sessionID, state); err != nil {
		return "", models.BookingState{}, err
	}
	return target, state, nil
}

func (s *DefaultWizardService) Back(ctx context.Context, sessionID string, from Step) (Step, models.BookingState, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return "", models.BookingState{}, err
	}

	target := BackFrom(from)
	store := s.flags.ForSession(sessionID)
	state = Apply(store, state, SetCurrentStep(StepOrdinal(target)))
	if err := s.saveState(ctx, sessionID, state); err != nil {
		return "", models.BookingState{}, err
	}
	return target, state, nil
}

// SearchAddress runs the debounced autocomplete. Queries shorter than the
// minimum, superseded queries and the echo of a just-selected result all
// return an empty list without hitting the dispatch API.
func (s *DefaultWizardService) SearchAddress(ctx context.Context, sessionID, query string) ([]models.AddressResult, error) {
	logger := utils.GetLogger()

	if _, err := s.loadState(ctx, sessionID); err != nil {
		return nil, err
	}

	sr := s.searchers.forSession(sessionID)
	if sr.consumeSuppression(query) {
		return []models.AddressResult{}, nil
	}
	if !searchable(query) {
		return []models.AddressResult{}, nil
	}

	gen := sr.begin()
	if !sr.debounce(ctx, gen, s.searchDebounce) {
		return []models.AddressResult{}, nil
	}

	resp, err := s.gateway.SearchAddress(ctx, query)
	if err != nil {
		logger.Warn("Address search failed", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, err
	}
	if !sr.current(gen) {
		return []models.AddressResult{}, nil
	}
	if !resp.OK() {
		return []models.AddressResult{}, nil
	}
	if resp.Data == nil {
		return []models.AddressResult{}, nil
	}
	return resp.Data, nil
}

// SelectAddress applies one suggestion to the state and arms suppression for
// the query text the selection filled in.
func (s *DefaultWizardService) SelectAddress(ctx context.Context, sessionID string, result models.AddressResult, query string) (models.BookingState, error) {
	state, err := s.Apply(ctx, sessionID,
		SetAddress(result.House),
		SetCity(result.City),
		SetStateField(result.State),
		SetZipCode(result.Zipcode),
	)
	if err != nil {
		return models.BookingState{}, err
	}

	if query == "" {
		query = result.AddressStr
	}
	s.searchers.forSession(sessionID).markSelected(query)
	return state, nil
}

// CheckAddress validates the session's address quadruple with the dispatch
// platform. A business rejection comes back as a RejectionError carrying the
// platform's message.
func (s *DefaultWizardService) CheckAddress(ctx context.Context, sessionID string) (models.BookingState, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return models.BookingState{}, err
	}

	resp, err := s.gateway.CheckAddress(ctx, dispatchapi.CheckAddressRequest{
		House:   state.Address,
		City:    state.City,
		State:   state.State,
		Zipcode: state.ZipCode,
	})
	if err != nil {
		return models.BookingState{}, err
	}
	if !resp.OK() {
		return models.BookingState{}, rejection(resp.Msg, badAddressMsg)
	}
	return state, nil
}

func (s *DefaultWizardService) SendVerificationCode(ctx context.Context, sessionID string) error {
	logger := utils.GetLogger()

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return err
	}
	phone := utils.CleanPhoneNumber(state.PhoneNumber)
	if !utils.ValidatePhoneNumber(phone) {
		return &RejectionError{Msg: utils.FieldError("phoneNumber", state.PhoneNumber)}
	}

	if !s.guard.acquire(sendKey(sessionID)) {
		return ErrSendInFlight
	}
	defer s.guard.release(sendKey(sessionID))

	resp, err := s.gateway.SendPhoneAuthCode(ctx, phone)
	if err != nil {
		logger.Warn("OTP send failed", zap.String("sessionID", sessionID), zap.Error(err))
		return err
	}
	if !resp.OK() {
		return rejection(resp.Msg, sendCodeFailedMsg)
	}
	return nil
}

// VerifyCode checks one OTP code. A repeat call with the same code while the
// first check is still in flight is rejected, so auto-verify on input cannot
// double-fire.
func (s *DefaultWizardService) VerifyCode(ctx context.Context, sessionID, code string) (models.BookingState, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return models.BookingState{}, err
	}
	if !utils.ValidateVerificationCode(code) {
		return models.BookingState{}, &RejectionError{Msg: utils.FieldError("verificationCode", code)}
	}

	if !s.guard.acquire(verifyKey(sessionID, code)) {
		return models.BookingState{}, ErrVerificationInFlight
	}
	defer s.guard.release(verifyKey(sessionID, code))

	phone := utils.CleanPhoneNumber(state.PhoneNumber)
	resp, err := s.gateway.CheckPhoneVerification(ctx, phone, code)
	if err != nil {
		return models.BookingState{}, err
	}
	if !resp.OK() {
		return models.BookingState{}, rejection(resp.Msg, invalidCodeMsg)
	}

	return s.Apply(ctx, sessionID, SetPhoneVerified(true))
}

// JobSizes fetches the catalog and, while the session has no selection yet,
// applies the default tier once.
func (s *DefaultWizardService) JobSizes(ctx context.Context, sessionID string) ([]models.JobSize, models.BookingState, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, models.BookingState{}, err
	}

	resp, err := s.gateway.GetJobSizes(ctx)
	if err != nil {
		return nil, models.BookingState{}, err
	}
	if !resp.OK() || len(resp.Data) == 0 {
		return []models.JobSize{}, state, nil
	}

	if state.SelectedJobSize == nil {
		def := resp.Data[0]
		for _, js := range resp.Data {
			if js.ID == defaultJobSizeID {
				def = js
				break
			}
		}
		state, err = s.Apply(ctx, sessionID, SetJobSize(&def))
		if err != nil {
			return nil, models.BookingState{}, err
		}
	}
	return resp.Data, state, nil
}

// Availability fetches per-hour slots for one day. The session must already
// hold a zip code and a job size. Upstream failures degrade to an empty slot
// list so the date picker stays usable.
func (s *DefaultWizardService) Availability(ctx context.Context, sessionID string, date time.Time) ([]models.TimeSlot, error) {
	logger := utils.GetLogger()

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.ZipCode == "" || state.SelectedJobSize == nil {
		return nil, ErrIncompleteBooking
	}

	resp, err := s.gateway.GetContractorAvailability(ctx, dispatchapi.AvailabilityRequest{
		Zipcode:        state.ZipCode,
		JobSizeID:      state.SelectedJobSize.ID,
		Date:           StartTimestamp(date, 0),
		TimezoneOffset: TimezoneOffsetHours(date),
	})
	if err != nil {
		logger.Warn("Availability lookup failed", zap.String("sessionID", sessionID), zap.Error(err))
		return []models.TimeSlot{}, nil
	}
	if !resp.OK() {
		return []models.TimeSlot{}, nil
	}
	return BuildTimeSlots(resp.Data), nil
}

func (s *DefaultWizardService) AddPhoto(ctx context.Context, sessionID, name, mimeType string, size int64, r io.Reader) (models.BookingState, error) {
	if _, err := s.loadState(ctx, sessionID); err != nil {
		return models.BookingState{}, err
	}
	if !utils.ValidateImageFile(mimeType, size) {
		return models.BookingState{}, &RejectionError{Msg: "Only JPEG, PNG or WebP images up to 10 MB are accepted."}
	}

	ref, err := s.photos.Save(sessionID, name, mimeType, size, r)
	if err != nil {
		return models.BookingState{}, err
	}
	return s.Apply(ctx, sessionID, AddPhoto(ref))
}

func (s *DefaultWizardService) RemovePhoto(ctx context.Context, sessionID string, index int) (models.BookingState, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return models.BookingState{}, err
	}
	if index >= 0 && index < len(state.Photos) {
		if err := s.photos.Remove(sessionID, state.Photos[index]); err != nil {
			return models.BookingState{}, err
		}
	}
	return s.Apply(ctx, sessionID, RemovePhoto(index))
}

// Submit relays the completed booking to the dispatch platform. Exactly one
// submit can succeed per session.
func (s *DefaultWizardService) Submit(ctx context.Context, sessionID string) (models.BookingState, error) {
	logger := utils.GetLogger()

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return models.BookingState{}, err
	}
	if state.IsSubmitted {
		return models.BookingState{}, ErrAlreadySubmitted
	}
	if state.SelectedDate == nil || state.SelectedTime == nil || state.SelectedJobSize == nil {
		return models.BookingState{}, ErrIncompleteBooking
	}

	if !s.guard.acquire(submitKey(sessionID)) {
		return models.BookingState{}, ErrSubmitInFlight
	}
	defer s.guard.release(submitKey(sessionID))

	parts := make([]dispatchapi.PhotoPart, 0, len(state.Photos))
	closers := make([]io.Closer, 0, len(state.Photos))
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()
	for _, ref := range state.Photos {
		f, err := s.photos.Open(sessionID, ref)
		if err != nil {
			logger.Warn("Skipping unreadable photo",
				zap.String("sessionID", sessionID),
				zap.String("photoID", ref.ID),
				zap.Error(err))
			continue
		}
		closers = append(closers, f)
		parts = append(parts, dispatchapi.PhotoPart{
			Filename:    ref.Name,
			ContentType: ref.MIMEType,
			Reader:      f,
		})
	}

	resp, err := s.gateway.AddAppointment(ctx, dispatchapi.AddAppointmentRequest{
		PhoneNumber:    utils.NormalizeUSPhoneNumber(state.PhoneNumber),
		FirstName:      state.FirstName,
		LastName:       state.LastName,
		House:          state.Address,
		City:           state.City,
		State:          state.State,
		Zipcode:        state.ZipCode,
		JobSizeID:      state.SelectedJobSize.ID,
		Notes:          state.CombinedNotes(),
		StartDate:      StartTimestamp(*state.SelectedDate, *state.SelectedTime),
		TimezoneOffset: TimezoneOffsetHours(*state.SelectedDate),
		DispatcherID:   state.DispatcherID,
		Photos:         parts,
	})
	if err != nil {
		return models.BookingState{}, err
	}
	if !resp.OK() {
		return models.BookingState{}, rejection(resp.Msg, submitFailedMsg)
	}

	state, err = s.Apply(ctx, sessionID,
		SetSubmitted(true),
		SetAppointmentID(resp.Data.AppointmentID),
		SetCurrentStep(maxStep),
	)
	if err != nil {
		return models.BookingState{}, err
	}

	if err := s.photos.Clear(sessionID); err != nil {
		logger.Warn("Photo spool cleanup failed", zap.String("sessionID", sessionID), zap.Error(err))
	}

	logger.Info("Appointment created",
		zap.String("sessionID", sessionID),
		zap.Int64("appointmentID", resp.Data.AppointmentID))
	return state, nil
}

// ResetSession drops everything the session accumulated, including the
// persisted flags and spooled photos, and starts it over in place. Resetting
// an already pristine session is a no-op.
func (s *DefaultWizardService) ResetSession(ctx context.Context, sessionID string) (models.BookingState, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return models.BookingState{}, err
	}

	if err := s.photos.Clear(sessionID); err != nil {
		return models.BookingState{}, err
	}
	s.searchers.drop(sessionID)

	store := s.flags.ForSession(sessionID)
	state = Apply(store, state, Reset())
	if err := s.saveState(ctx, sessionID, state); err != nil {
		return models.BookingState{}, err
	}
	return state, nil
}

func (s *DefaultWizardService) loadState(ctx context.Context, sessionID string) (models.BookingState, error) {
	data, err := s.cache.Get(ctx, StateKey(sessionID))
	if errors.Is(err, ErrCacheMiss) {
		return models.BookingState{}, ErrSessionNotFound
	}
	if err != nil {
		return models.BookingState{}, err
	}

	var state models.BookingState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.BookingState{}, err
	}
	return state, nil
}

func (s *DefaultWizardService) saveState(ctx context.Context, sessionID string, state models.BookingState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, StateKey(sessionID), data, s.sessionTTL)
}
