package dispatchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to the dispatch platform ("/api/web" surface). GET endpoints
// use query parameters; every POST endpoint expects multipart form data, even
// when no file is attached.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a dispatch platform client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// SearchAddress returns address suggestions for a free-text query.
func (c *Client) SearchAddress(ctx context.Context, searchString string) (*AddressSearchResponse, error) {
	var out AddressSearchResponse
	params := url.Values{"search_string": {searchString}}
	if err := c.get(ctx, "/user/search_address", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckAddress validates that the platform services the given address.
func (c *Client) CheckAddress(ctx context.Context, req CheckAddressRequest) (*CheckAddressResponse, error) {
	var out CheckAddressResponse
	fields := map[string]string{
		"house":   req.House,
		"city":    req.City,
		"state":   req.State,
		"zipcode": req.Zipcode,
	}
	if err := c.postForm(ctx, "/user/check_address", fields, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendPhoneAuthCode asks the platform to SMS a one-time code to the phone.
func (c *Client) SendPhoneAuthCode(ctx context.Context, phoneNumber string) (*SendPhoneAuthResponse, error) {
	var out SendPhoneAuthResponse
	fields := map[string]string{"phone_number": phoneNumber}
	if err := c.postForm(ctx, "/auth/send_phone_auth_code", fields, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckPhoneVerification verifies a one-time code for the phone.
func (c *Client) CheckPhoneVerification(ctx context.Context, phoneNumber, code string) (*CheckPhoneVerificationResponse, error) {
	var out CheckPhoneVerificationResponse
	fields := map[string]string{
		"phone_number": phoneNumber,
		"code":         code,
	}
	if err := c.postForm(ctx, "/auth/check_phone_verification", fields, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJobSizes fetches the job-size catalog.
func (c *Client) GetJobSizes(ctx context.Context) (*JobSizeResponse, error) {
	var out JobSizeResponse
	if err := c.get(ctx, "/appointment/get_list_job_size", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetContractorAvailability fetches per-hour contractor availability for one
// day, zip code and job size.
func (c *Client) GetContractorAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error) {
	var out AvailabilityResponse
	fields := map[string]string{
		"zipcode":         req.Zipcode,
		"job_size_id":     req.JobSizeID,
		"date":            strconv.FormatInt(req.Date, 10),
		"timezone_offset": formatOffset(req.TimezoneOffset),
	}
	if err := c.postForm(ctx, "/appointment/get_contractors_availability", fields, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddAppointment submits the booking, photos included. This mutates backend
// state; the wizard service guards against duplicate submission.
func (c *Client) AddAppointment(ctx context.Context, req AddAppointmentRequest) (*AddAppointmentResponse, error) {
	fields := map[string]string{
		"phone_number":    req.PhoneNumber,
		"firstname":       req.FirstName,
		"lastname":        req.LastName,
		"house":           req.House,
		"city":            req.City,
		"state":           req.State,
		"zipcode":         req.Zipcode,
		"job_size_id":     req.JobSizeID,
		"notes":           req.Notes,
		"start_date":      strconv.FormatInt(req.StartDate, 10),
		"timezone_offset": formatOffset(req.TimezoneOffset),
	}
	if req.DispatcherID != "" {
		fields["dispatcher_id"] = req.DispatcherID
	}

	var out AddAppointmentResponse
	if err := c.postForm(ctx, "/appointment/add", fields, req.Photos, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, path string, fields map[string]string, photos []PhotoPart, out interface{}) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, val := range fields {
		if err := writer.WriteField(key, val); err != nil {
			return fmt.Errorf("%w: failed to encode field %s: %v", ErrInternal, key, err)
		}
	}
	for i, photo := range photos {
		part, err := writer.CreatePart(photoPartHeader(i, photo))
		if err != nil {
			return fmt.Errorf("%w: failed to create photo part: %v", ErrInternal, err)
		}
		if _, err := io.Copy(part, photo.Reader); err != nil {
			return fmt.Errorf("%w: failed to write photo %s: %v", ErrInternal, photo.Filename, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: failed to finalize form: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("dispatch request failed",
			zap.String("path", req.URL.Path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("dispatch request rejected",
			zap.String("path", req.URL.Path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrTransport, resp.StatusCode, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

// photoPartHeader names photo parts photos[0], photos[1], ... as the platform
// expects.
func photoPartHeader(index int, photo PhotoPart) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos[%d]"; filename=%q`, index, photo.Filename))
	contentType := photo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return h
}

// formatOffset renders a timezone offset in hours without a trailing ".0"
// for whole-hour zones.
func formatOffset(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
