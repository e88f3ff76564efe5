package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Error is a non-2xx upstream response.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream: status %d: %s", e.StatusCode, e.Body)
}

// IsAuthExpired reports whether err is an upstream 401. The caller is expected
// to terminate the session when it is.
func IsAuthExpired(err error) bool {
	var ue *Error
	return errors.As(err, &ue) && ue.StatusCode == http.StatusUnauthorized
}

// Client is a REST client for the remote clinic API. Every call except Login
// and Register carries the session's bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, "", req, nil)
}

func (c *Client) Doctors(ctx context.Context, token string, specialtyID int64) ([]Doctor, error) {
	query := url.Values{}
	if specialtyID != 0 {
		query.Set("specialtyId", strconv.FormatInt(specialtyID, 10))
	}

	var out []Doctor
	if err := c.do(ctx, http.MethodGet, "/doctors", query, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DoctorByID(ctx context.Context, token string, id int64) (*Doctor, error) {
	var out Doctor
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/doctors/%d", id), nil, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Specialties(ctx context.Context, token string) ([]Specialty, error) {
	var out []Specialty
	if err := c.do(ctx, http.MethodGet, "/specialties", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AppointmentCounts(ctx context.Context, token string, doctorID int64, startDate, endDate string) (map[string]int, error) {
	query := url.Values{}
	query.Set("startDate", startDate)
	query.Set("endDate", endDate)

	var out map[string]int
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/appointment/%d/count", doctorID), query, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AvailableSlots(ctx context.Context, token string, doctorID int64, date string) ([]string, error) {
	query := url.Values{}
	query.Set("date", date)

	var out []string
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/appointment/%d/available-slots", doctorID), query, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BookAppointment(ctx context.Context, token string, req BookRequest) error {
	return c.do(ctx, http.MethodPost, "/appointment/book", nil, token, req, nil)
}

func (c *Client) UserAppointments(ctx context.Context, token string, userID int64) ([]AppointmentRecord, error) {
	var out []AppointmentRecord
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/appointment/user/%d", userID), nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AllAppointments(ctx context.Context, token string) ([]AppointmentRecord, error) {
	var out []AppointmentRecord
	if err := c.do(ctx, http.MethodGet, "/admin/appointment/all", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelUserAppointment and the other mutation paths below carry an extra
// /api prefix. The remote service exposes them that way.
func (c *Client) CancelUserAppointment(ctx context.Context, token string, appointmentID, userID int64) error {
	query := url.Values{}
	query.Set("appointmentId", strconv.FormatInt(appointmentID, 10))
	query.Set("userId", strconv.FormatInt(userID, 10))

	return c.do(ctx, http.MethodPut, "/api/appointment/user/cancel", query, token, nil, nil)
}

func (c *Client) CancelAdminAppointment(ctx context.Context, token string, appointmentID int64) error {
	query := url.Values{}
	query.Set("appointmentId", strconv.FormatInt(appointmentID, 10))

	return c.do(ctx, http.MethodPut, "/api/admin/appointment/cancel", query, token, nil, nil)
}

func (c *Client) MarkMissed(ctx context.Context, token string, appointmentID int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/appointment/missed/%d", appointmentID), nil, token, nil, nil)
}

func (c *Client) AddReview(ctx context.Context, token string, req AddReviewRequest) error {
	return c.do(ctx, http.MethodPost, "/reviews/add", nil, token, req, nil)
}

func (c *Client) DoctorReviews(ctx context.Context, token string, doctorID int64) ([]Review, error) {
	var out []Review
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reviews/get/%d", doctorID), nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DoctorRating(ctx context.Context, token string, doctorID int64) (float64, error) {
	query := url.Values{}
	query.Set("doctorId", strconv.FormatInt(doctorID, 10))

	var out float64
	if err := c.do(ctx, http.MethodGet, "/reviews/rating", query, token, nil, &out); err != nil {
		return 0, err
	}
	return out, nil
}

func (c *Client) Me(ctx context.Context, token string) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/user/me", nil, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangePassword(ctx context.Context, token string, req ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/user/change-password", nil, token, req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream: marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("upstream: create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("upstream: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return &Error{StatusCode: resp.StatusCode, Body: msg}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("upstream: unmarshal response: %w", err)
	}

	return nil
}
