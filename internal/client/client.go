package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gymhub/internal/capacity"
	"gymhub/internal/session"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() string
}

// APIError is a non-2xx response. Message is the server's human readable text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gymhub api: status %d", e.Status)
	}
	return fmt.Sprintf("gymhub api: status %d: %s", e.Status, e.Message)
}

// MessageOf returns the server-provided message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func New(baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

type Booking struct {
	ID                   int64      `json:"id"`
	AppointmentID        int64      `json:"appointmentId"`
	AppointmentStartTime time.Time  `json:"appointmentStartTime"`
	AppointmentEndTime   time.Time  `json:"appointmentEndTime"`
	ServiceName          string     `json:"serviceName"`
	LocationName         string     `json:"locationName"`
	MemberID             int64      `json:"memberId"`
	MemberName           string     `json:"memberName"`
	Status               string     `json:"status"`
	CreatedAt            time.Time  `json:"createdAt"`
	CancelledAt          *time.Time `json:"cancelledAt,omitempty"`
}

type Payment struct {
	ID                    int64     `json:"id"`
	GymServiceID          int64     `json:"gymServiceId"`
	GymServiceName        string    `json:"gymServiceName"`
	Quantity              int       `json:"quantity"`
	AmountCents           int64     `json:"amountCents"`
	StripePaymentIntentID string    `json:"stripePaymentIntentId"`
	ClientSecret          string    `json:"clientSecret,omitempty"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"createdAt"`
}

type AppointmentRequest struct {
	GymServiceID int64     `json:"gymServiceId"`
	LocationID   int64     `json:"locationId"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	MaxCapacity  int       `json:"maxCapacity"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (session.AuthResponse, error) {
	var out session.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (session.AuthResponse, error) {
	var out session.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", req, &out)
	return out, err
}

// AvailableAppointments returns active, future, not-full appointments, normalized.
func (c *Client) AvailableAppointments(ctx context.Context) ([]capacity.Appointment, error) {
	return c.appointments(ctx, "/appointments/available")
}

func (c *Client) LocationAppointments(ctx context.Context, locationID int64, upcoming bool) ([]capacity.Appointment, error) {
	path := "/appointments/location/" + strconv.FormatInt(locationID, 10)
	if upcoming {
		path += "/upcoming"
	}
	return c.appointments(ctx, path)
}

func (c *Client) appointments(ctx context.Context, path string) ([]capacity.Appointment, error) {
	var raw []capacity.Raw
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return capacity.NormalizeAll(raw), nil
}

func (c *Client) CreateAppointment(ctx context.Context, req AppointmentRequest) (capacity.Appointment, error) {
	var raw capacity.Raw
	if err := c.do(ctx, http.MethodPost, "/appointments", req, &raw); err != nil {
		return capacity.Appointment{}, err
	}
	return capacity.Normalize(raw), nil
}

func (c *Client) UpdateAppointment(ctx context.Context, id int64, req AppointmentRequest) (capacity.Appointment, error) {
	var raw capacity.Raw
	if err := c.do(ctx, http.MethodPut, "/appointments/"+strconv.FormatInt(id, 10), req, &raw); err != nil {
		return capacity.Appointment{}, err
	}
	return capacity.Normalize(raw), nil
}

func (c *Client) DeleteAppointment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/appointments/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) CreateBooking(ctx context.Context, appointmentID int64) (Booking, error) {
	var out Booking
	err := c.do(ctx, http.MethodPost, "/bookings", map[string]int64{"appointmentId": appointmentID}, &out)
	return out, err
}

func (c *Client) CancelBooking(ctx context.Context, bookingID int64) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+strconv.FormatInt(bookingID, 10), nil, nil)
}

func (c *Client) MyBookings(ctx context.Context) ([]Booking, error) {
	var out []Booking
	err := c.do(ctx, http.MethodGet, "/bookings/my", nil, &out)
	return out, err
}

func (c *Client) AvailableCredits(ctx context.Context, serviceID int64) (int, error) {
	var out struct {
		AvailableCredits int `json:"availableCredits"`
	}
	err := c.do(ctx, http.MethodGet, "/payments/credits/"+strconv.FormatInt(serviceID, 10), nil, &out)
	return out.AvailableCredits, err
}

func (c *Client) CreatePayment(ctx context.Context, serviceID int64, quantity int) (Payment, error) {
	var out Payment
	body := map[string]any{"gymServiceId": serviceID, "quantity": quantity}
	err := c.do(ctx, http.MethodPost, "/payments", body, &out)
	return out, err
}

func (c *Client) ConfirmPayment(ctx context.Context, intentID string) error {
	return c.do(ctx, http.MethodPost, "/payments/confirm/"+intentID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
