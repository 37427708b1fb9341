package appointment

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newRouter(repo *MockRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(repo))
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", int64(9)); c.Next() })
	r.GET("/appointments/:id", h.Get)
	r.POST("/appointments", h.Create)
	r.PUT("/appointments/:id", h.Update)
	r.DELETE("/appointments/:id", h.Delete)
	return r
}

func TestHandler_Get(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, ErrAppointmentNotFound)

	w := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Appointment not found")

	w = httptest.NewRecorder()
	newRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/appointments/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CreateTimeRange(t *testing.T) {
	body := `{"startTime":"2030-05-01T18:00:00Z","endTime":"2030-05-01T17:00:00Z","locationId":2,"gymServiceId":4,"maxCapacity":10}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(new(MockRepository)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "End time must be after start time")
}

func TestHandler_CreateRejectsZeroCapacity(t *testing.T) {
	body := `{"startTime":"2030-05-01T18:00:00Z","endTime":"2030-05-01T19:00:00Z","locationId":2,"gymServiceId":4,"maxCapacity":0}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(new(MockRepository)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_DeleteWithBookings(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, int64(12)).Return(&Appointment{ID: 12, CurrentBookings: 2}, nil)

	w := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/appointments/12", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot cancel appointment with existing bookings")
}

const validBody = `{"startTime":"2030-05-01T18:00:00Z","endTime":"2030-05-01T19:00:00Z","locationId":2,"gymServiceId":4,"maxCapacity":10}`

func sendJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateSucceeds(t *testing.T) {
	repo := new(MockRepository)
	repo.On("LocationExists", mock.Anything, int64(2)).Return(true, nil)
	repo.On("ServiceExists", mock.Anything, int64(4)).Return(true, nil)
	repo.On("Create", mock.Anything, mock.Anything, int64(9)).
		Return(&Appointment{ID: 31, LocationID: 2, GymServiceID: 4, MaxCapacity: 10}, nil)

	w := sendJSON(newRouter(repo), http.MethodPost, "/appointments", validBody)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":31`)
	repo.AssertExpectations(t)
}

func TestHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*MockRepository)
		code    int
		message string
	}{
		{
			name: "unknown location",
			setup: func(r *MockRepository) {
				r.On("LocationExists", mock.Anything, int64(2)).Return(false, nil)
			},
			code:    http.StatusNotFound,
			message: "Location not found",
		},
		{
			name: "unknown service",
			setup: func(r *MockRepository) {
				r.On("LocationExists", mock.Anything, int64(2)).Return(true, nil)
				r.On("ServiceExists", mock.Anything, int64(4)).Return(false, nil)
			},
			code:    http.StatusNotFound,
			message: "Gym service not found",
		},
		{
			name: "store failure",
			setup: func(r *MockRepository) {
				r.On("LocationExists", mock.Anything, int64(2)).Return(false, errors.New("connection reset"))
			},
			code:    http.StatusInternalServerError,
			message: "Failed to create appointment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setup(repo)

			w := sendJSON(newRouter(repo), http.MethodPost, "/appointments", validBody)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_UpdateCapacityBelowBookings(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, int64(12)).Return(&Appointment{ID: 12, CurrentBookings: 11}, nil)
	repo.On("LocationExists", mock.Anything, int64(2)).Return(true, nil)
	repo.On("ServiceExists", mock.Anything, int64(4)).Return(true, nil)

	w := sendJSON(newRouter(repo), http.MethodPut, "/appointments/12", validBody)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Max capacity cannot be less than current bookings")
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_UpdateTimeRange(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, int64(12)).Return(&Appointment{ID: 12}, nil)
	body := `{"startTime":"2030-05-01T18:00:00Z","endTime":"2030-05-01T18:00:00Z","locationId":2,"gymServiceId":4,"maxCapacity":10}`

	w := sendJSON(newRouter(repo), http.MethodPut, "/appointments/12", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "End time must be after start time")
}
