package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haulaway/integrations/dispatchapi"
	"haulaway/models"
	"haulaway/services/session"
)

// memoryCache is an in-process StateCache for tests.
type memoryCache struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.values[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}

func (c *memoryCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = data
	return nil
}

func (c *memoryCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

// fakeGateway scripts dispatch API behaviour per test.
type fakeGateway struct {
	mu sync.Mutex

	searchFn       func(query string) (*dispatchapi.AddressSearchResponse, error)
	checkAddressFn func(req dispatchapi.CheckAddressRequest) (*dispatchapi.CheckAddressResponse, error)
	sendCodeFn     func(phone string) (*dispatchapi.SendPhoneAuthResponse, error)
	checkCodeFn    func(phone, code string) (*dispatchapi.CheckPhoneVerificationResponse, error)
	jobSizesFn     func() (*dispatchapi.JobSizeResponse, error)
	availabilityFn func(req dispatchapi.AvailabilityRequest) (*dispatchapi.AvailabilityResponse, error)
	addFn          func(req dispatchapi.AddAppointmentRequest) (*dispatchapi.AddAppointmentResponse, error)

	searchCalls   int
	sendCalls     int
	checkCalls    int
	jobSizeCalls  int
	lastAdd       dispatchapi.AddAppointmentRequest
	lastAddPhotos []string
}

func okResponse() dispatchapi.Response { return dispatchapi.Response{Status: 1} }

func (g *fakeGateway) SearchAddress(_ context.Context, query string) (*dispatchapi.AddressSearchResponse, error) {
	g.mu.Lock()
	g.searchCalls++
	fn := g.searchFn
	g.mu.Unlock()
	if fn != nil {
		return fn(query)
	}
	return &dispatchapi.AddressSearchResponse{Response: okResponse()}, nil
}

func (g *fakeGateway) CheckAddress(_ context.Context, req dispatchapi.CheckAddressRequest) (*dispatchapi.CheckAddressResponse, error) {
	if g.checkAddressFn != nil {
		return g.checkAddressFn(req)
	}
	return &dispatchapi.CheckAddressResponse{Response: okResponse()}, nil
}

func (g *fakeGateway) SendPhoneAuthCode(_ context.Context, phone string) (*dispatchapi.SendPhoneAuthResponse, error) {
	g.mu.Lock()
	g.sendCalls++
	fn := g.sendCodeFn
	g.mu.Unlock()
	if fn != nil {
		return fn(phone)
	}
	return &dispatchapi.SendPhoneAuthResponse{Response: okResponse()}, nil
}

func (g *fakeGateway) CheckPhoneVerification(_ context.Context, phone, code string) (*dispatchapi.CheckPhoneVerificationResponse, error) {
	g.mu.Lock()
	g.checkCalls++
	fn := g.checkCodeFn
	g.mu.Unlock()
	if fn != nil {
		return fn(phone, code)
	}
	return &dispatchapi.CheckPhoneVerificationResponse{Response: okResponse()}, nil
}

func (g *fakeGateway) GetJobSizes(_ context.Context) (*dispatchapi.JobSizeResponse, error) {
	g.mu.Lock()
	g.jobSizeCalls++
	fn := g.jobSizesFn
	g.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return &dispatchapi.JobSizeResponse{
		Response: okResponse(),
		Data: []models.JobSize{
			{ID: "1", Name: "Pickup load"},
			{ID: "2", Name: "Half truck"},
			{ID: "3", Name: "Full truck"},
		},
	}, nil
}

func (g *fakeGateway) GetContractorAvailability(_ context.Context, req dispatchapi.AvailabilityRequest) (*dispatchapi.AvailabilityResponse, error) {
	if g.availabilityFn != nil {
		return g.availabilityFn(req)
	}
	return &dispatchapi.AvailabilityResponse{Response: okResponse()}, nil
}

func (g *fakeGateway) AddAppointment(_ context.Context, req dispatchapi.AddAppointmentRequest) (*dispatchapi.AddAppointmentResponse, error) {
	g.mu.Lock()
	g.lastAdd = req
	g.lastAddPhotos = nil
	for _, p := range req.Photos {
		var sb strings.Builder
		if p.Reader != nil {
			buf := make([]byte, 64)
			for {
				n, err := p.Reader.Read(buf)
				sb.Write(buf[:n])
				if err != nil {
					break
				}
			}
		}
		g.lastAddPhotos = append(g.lastAddPhotos, p.Filename+":"+sb.String())
	}
	fn := g.addFn
	g.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	resp := &dispatchapi.AddAppointmentResponse{Response: okResponse()}
	resp.Data.AppointmentID = 4242
	return resp, nil
}

func newTestService(t *testing.T, gw Gateway) (*DefaultWizardService, *session.MemoryFactory) {
	t.Helper()
	photos, err := NewPhotoStore(t.TempDir())
	require.NoError(t, err)
	flags := session.NewMemoryFactory()
	svc := NewWizardService(newMemoryCache(), flags, gw, photos, 30*time.Minute, 0)
	return svc, flags
}

func TestStartSessionCreatesAndResumes(t *testing.T) {
	svc, _ := newTestService(t, &fakeGateway{})
	ctx := context.Background()

	id, state, err := svc.StartSession(ctx, "", "dispatch-77")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, "dispatch-77", state.DispatcherID)
	assert.Equal(t, 1, state.CurrentStep)

	// The same id resumes with state intact, ignoring a new dispatcher.
	_, err = svc.Apply(ctx, id, SetFirstName("John"))
	require.NoError(t, err)

	id2, resumed, err := svc.StartSession(ctx, id, "other-dispatcher")
	require.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.Equal(t, "John", resumed.FirstName)
	assert.Equal(t, "dispatch-77", resumed.DispatcherID)
}

func TestStartSessionHydratesFromFlags(t *testing.T) {
	svc, flags := newTestService(t, &fakeGateway{})
	ctx := context.Background()

	// Another request on this session already verified the phone and saved
	// an address, but the cached state expired.
	store := flags.ForSession("session-x")
	store.SetPhoneVerified("5551234567")
	store.SetPrivacyAccepted()
	store.SetAddressFields("42 Elm St", "Austin", "TX", "73301")

	_, state, err := svc.StartSession(ctx, "session-x", "")
	require.NoError(t, err)
	assert.True(t, state.IsPhoneVerified)
	assert.Equal(t, "5551234567", state.PhoneNumber)
	assert.True(t, state.IsPrivacyAccepted)
	assert.Equal(t, "42 Elm St", state.Address)
	assert.Equal(t, "73301", state.ZipCode)
}

func TestGetStateUnknownSession(t *testing.T) {
	svc, _ := newTestService(t, &fakeGateway{})
	_, err := svc.GetState(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSearchAddress(t *testing.T) {
	gw := &fakeGateway{
		searchFn: func(query string) (*dispatchapi.AddressSearchResponse, error) {
			return &dispatchapi.AddressSearchResponse{
				Response: okResponse(),
				Data: []models.AddressResult{
					{AddressStr: "42 Elm St, Austin, TX 73301", House: "42 Elm St", City: "Austin", State: "TX", Zipcode: "73301"},
				},
			}, nil
		},
	}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)

	// Too short: no call goes out.
	results, err := svc.SearchAddress(ctx, id, "  4 ")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, gw.searchCalls)

	results, err = svc.SearchAddress(ctx, id, "42 Elm")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Austin", results[0].City)
	assert.Equal(t, 1, gw.searchCalls)
}

func TestSelectAddressSuppressesEcho(t *testing.T) {
	gw := &fakeGateway{}
	svc, flags := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)

	picked := models.AddressResult{
		AddressStr: "42 Elm St, Austin, TX 73301",
		House:      "42 Elm St", City: "Austin", State: "TX", Zipcode: "73301",
	}
	state, err := svc.SelectAddress(ctx, id, picked, picked.AddressStr)
	require.NoError(t, err)
	assert.Equal(t, "42 Elm St", state.Address)
	assert.Equal(t, "Austin", state.City)
	assert.Equal(t, "TX", state.State)
	assert.Equal(t, "73301", state.ZipCode)

	// The quadruple also landed in the flag store.
	assert.Equal(t, "73301", flags.ForSession(id).GetAddressFields().Zipcode)

	// The search the selection echoes back is swallowed.
	results, err := svc.SearchAddress(ctx, id, picked.AddressStr)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, gw.searchCalls)

	// The next distinct query goes through.
	_, err = svc.SearchAddress(ctx, id, "43 Oak Ave")
	require.NoError(t, err)
	assert.Equal(t, 1, gw.searchCalls)
}

func TestCheckAddressRejection(t *testing.T) {
	gw := &fakeGateway{
		checkAddressFn: func(req dispatchapi.CheckAddressRequest) (*dispatchapi.CheckAddressResponse, error) {
			return &dispatchapi.CheckAddressResponse{
				Response: dispatchapi.Response{Status: 0, Msg: "Out of service area"},
			}, nil
		},
	}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)

	_, err = svc.CheckAddress(ctx, id)
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Out of service area", rej.Msg)
}

func TestSendVerificationCode(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)

	// No phone on the session yet.
	err = svc.SendVerificationCode(ctx, id)
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, 0, gw.sendCalls)

	_, err = svc.Apply(ctx, id, SetPhoneNumber("+1 (555) 123-4567"))
	require.NoError(t, err)
	require.NoError(t, svc.SendVerificationCode(ctx, id))
	assert.Equal(t, 1, gw.sendCalls)
}

func TestVerifyCode(t *testing.T) {
	gw := &fakeGateway{
		checkCodeFn: func(phone, code string) (*dispatchapi.CheckPhoneVerificationResponse, error) {
			if code == "1234" {
				return &dispatchapi.CheckPhoneVerificationResponse{Response: okResponse()}, nil
			}
			return &dispatchapi.CheckPhoneVerificationResponse{
				Response: dispatchapi.Response{Status: 0, Msg: "Wrong code"},
			}, nil
		},
	}
	svc, flags := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)
	_, err = svc.Apply(ctx, id, SetPhoneNumber("5551234567"))
	require.NoError(t, err)

	_, err = svc.VerifyCode(ctx, id, "12") // malformed, rejected locally
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, 0, gw.checkCalls)

	_, err = svc.VerifyCode(ctx, id, "9999")
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Wrong code", rej.Msg)

	state, err := svc.VerifyCode(ctx, id, "1234")
	require.NoError(t, err)
	assert.True(t, state.IsPhoneVerified)
	assert.True(t, flags.ForSession(id).IsPhoneNumberVerified("5551234567"))
}

func TestVerifyCodeSingleFlightPerCode(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gw := &fakeGateway{
		checkCodeFn: func(phone, code string) (*dispatchapi.CheckPhoneVerificationResponse, error) {
			close(started)
			<-release
			return &dispatchapi.CheckPhoneVerificationResponse{Response: okResponse()}, nil
		},
	}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)
	_, err = svc.Apply(ctx, id, SetPhoneNumber("5551234567"))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.VerifyCode(ctx, id, "1234")
		done <- err
	}()

	<-started
	_, err = svc.VerifyCode(ctx, id, "1234")
	assert.ErrorIs(t, err, ErrVerificationInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, gw.checkCalls)
}

func TestJobSizesAppliesDefaultOnce(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)

	sizes, state, err := svc.JobSizes(ctx, id)
	require.NoError(t, err)
	require.Len(t, sizes, 3)
	require.NotNil(t, state.SelectedJobSize)
	assert.Equal(t, "2", state.SelectedJobSize.ID)

	// An explicit choice survives later catalog fetches.
	_, err = svc.Apply(ctx, id, SetJobSize(&sizes[2]))
	require.NoError(t, err)
	_, state, err = svc.JobSizes(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "3", state.SelectedJobSize.ID)
}

func TestJobSizesFallsBackToFirst(t *testing.T) {
	gw := &fakeGateway{
		jobSizesFn: func() (*dispatchapi.JobSizeResponse, error) {
			return &dispatchapi.JobSizeResponse{
				Response: okResponse(),
				Data:     []models.JobSize{{ID: "7", Name: "Only tier"}},
			}, nil
		},
	}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)

	_, state, err := svc.JobSizes(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, state.SelectedJobSize)
	assert.Equal(t, "7", state.SelectedJobSize.ID)
}

func TestAvailability(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, loc)

	var captured dispatchapi.AvailabilityRequest
	gw := &fakeGateway{
		availabilityFn: func(req dispatchapi.AvailabilityRequest) (*dispatchapi.AvailabilityResponse, error) {
			captured = req
			return &dispatchapi.AvailabilityResponse{
				Response: okResponse(),
				Data:     []models.HourAvailability{{Hour: 10, Percentage: 85}},
			}, nil
		},
	}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)

	// Prerequisites missing.
	_, err = svc.Availability(ctx, id, date)
	assert.ErrorIs(t, err, ErrIncompleteBooking)

	_, err = svc.Apply(ctx, id,
		SetZipCode("73301"),
		SetJobSize(&models.JobSize{ID: "2", Name: "Half truck"}),
	)
	require.NoError(t, err)

	slots, err := svc.Availability(ctx, id, date)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "10 AM", slots[0].Label)

	assert.Equal(t, "73301", captured.Zipcode)
	assert.Equal(t, "2", captured.JobSizeID)
	assert.Equal(t, date.Unix(), captured.Date)
	assert.Equal(t, -5.0, captured.TimezoneOffset)
}

func TestAvailabilityDegradesToEmpty(t *testing.T) {
	gw := &fakeGateway{
		availabilityFn: func(req dispatchapi.AvailabilityRequest) (*dispatchapi.AvailabilityResponse, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)
	_, err = svc.Apply(ctx, id,
		SetZipCode("73301"),
		SetJobSize(&models.JobSize{ID: "2"}),
	)
	require.NoError(t, err)

	slots, err := svc.Availability(ctx, id, time.Now())
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestSubmit(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "dispatch-9")
	require.NoError(t, err)

	loc := time.FixedZone("UTC-5", -5*3600)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, loc)
	hour := 10

	_, err = svc.Apply(ctx, id,
		SetFirstName("John"),
		SetLastName("Doe"),
		SetPhoneNumber("+1 (555) 123-4567"),
		SetAddress("42 Elm St"),
		SetCity("Austin"),
		SetStateField("TX"),
		SetZipCode("73301"),
		SetNotes("old couch"),
		SetNotes2("gate code 1234"),
		SetJobSize(&models.JobSize{ID: "2", Name: "Half truck"}),
		SetSelectedDate(&date),
		SetSelectedTime(&hour),
	)
	require.NoError(t, err)

	// Spool one photo so it gets relayed.
	_, err = svc.AddPhoto(ctx, id, "couch.jpg", "image/jpeg", 9, strings.NewReader("junk-blob"))
	require.NoError(t, err)

	state, err := svc.Submit(ctx, id)
	require.NoError(t, err)
	assert.True(t, state.IsSubmitted)
	require.NotNil(t, state.AppointmentID)
	assert.Equal(t, int64(4242), *state.AppointmentID)
	assert.Equal(t, 5, state.CurrentStep)

	req := gw.lastAdd
	assert.Equal(t, "5551234567", req.PhoneNumber)
	assert.Equal(t, "John", req.FirstName)
	assert.Equal(t, "Doe", req.LastName)
	assert.Equal(t, "42 Elm St", req.House)
	assert.Equal(t, "73301", req.Zipcode)
	assert.Equal(t, "2", req.JobSizeID)
	assert.Equal(t, "old couch\ngate code 1234", req.Notes)
	assert.Equal(t, time.Date(2026, 3, 14, 10, 0, 0, 0, loc).Unix(), req.StartDate)
	assert.Equal(t, -5.0, req.TimezoneOffset)
	assert.Equal(t, "dispatch-9", req.DispatcherID)
	require.Len(t, gw.lastAddPhotos, 1)
	assert.Equal(t, "couch.jpg:junk-blob", gw.lastAddPhotos[0])

	// A second submit is refused outright.
	_, err = svc.Submit(ctx, id)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmitIncomplete(t *testing.T) {
	svc, _ := newTestService(t, &fakeGateway{})
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, id)
	assert.ErrorIs(t, err, ErrIncompleteBooking)
}

func TestSubmitRejection(t *testing.T) {
	gw := &fakeGateway{
		addFn: func(req dispatchapi.AddAppointmentRequest) (*dispatchapi.AddAppointmentResponse, error) {
			return &dispatchapi.AddAppointmentResponse{
				Response: dispatchapi.Response{Status: 0, Msg: "No crews available"},
			}, nil
		},
	}
	svc, _ := newTestService(t, gw)
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	hour := 10
	_, err = svc.Apply(ctx, id,
		SetJobSize(&models.JobSize{ID: "2"}),
		SetSelectedDate(&date),
		SetSelectedTime(&hour),
	)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, id)
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "No crews available", rej.Msg)

	// A rejected submit leaves the session retryable.
	state, err := svc.GetState(ctx, id)
	require.NoError(t, err)
	assert.False(t, state.IsSubmitted)
}

func TestResetSession(t *testing.T) {
	svc, flags := newTestService(t, &fakeGateway{})
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)

	_, err = svc.Apply(ctx, id,
		SetFirstName("John"),
		SetPhoneNumber("5551234567"),
		SetPhoneVerified(true),
		SetPrivacyAccepted(true),
	)
	require.NoError(t, err)
	_, err = svc.AddPhoto(ctx, id, "couch.jpg", "image/jpeg", 4, strings.NewReader("blob"))
	require.NoError(t, err)

	state, err := svc.ResetSession(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, state.FirstName)
	assert.False(t, state.IsPhoneVerified)
	assert.False(t, state.IsPrivacyAccepted)
	assert.Empty(t, state.Photos)
	assert.Equal(t, 1, state.CurrentStep)

	verified, _ := flags.ForSession(id).GetPhoneVerified()
	assert.False(t, verified)

	// Reset is idempotent.
	again, err := svc.ResetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, state, again)
}

func TestContinueAndBack(t *testing.T) {
	svc, _ := newTestService(t, &fakeGateway{})
	ctx := context.Background()
	id, _, err := svc.StartSession(ctx, "", "")
	require.NoError(t, err)

	step, _, err := svc.Continue(ctx, id, StepHomepage)
	require.NoError(t, err)
	assert.Equal(t, StepPrivacy, step)

	_, err = svc.Apply(ctx, id,
		SetPhoneNumber("5551234567"),
		SetPhoneVerified(true),
		SetPrivacyAccepted(true),
	)
	require.NoError(t, err)

	step, state, err := svc.Continue(ctx, id, StepHomepage)
	require.NoError(t, err)
	assert.Equal(t, StepJunkAmount, step)
	assert.Equal(t, 4, state.CurrentStep)

	step, _, err = svc.Continue(ctx, id, StepJunkAmount)
	require.NoError(t, err)
	assert.Equal(t, StepDateTime, step)

	step, state, err = svc.Back(ctx, id, StepDateTime)
	require.NoError(t, err)
	assert.Equal(t, StepJunkAmount, step)
	assert.Equal(t, 4, state.CurrentStep)

	step, _, err = svc.Back(ctx, id, StepJunkAmount)
	require.NoError(t, err)
	assert.Equal(t, StepHomepage, step)
}
