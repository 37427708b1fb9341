package location

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHandler_CreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(MockRepository)
	repo.On("NameTaken", mock.Anything, "Downtown", int64(0)).Return(true, nil)

	r := gin.New()
	r.POST("/locations", NewHandler(NewService(repo)).Create)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/locations", strings.NewReader(`{"name":"Downtown","address":"Main St 1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Location with this name already exists")
}

func TestHandler_GetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, int64(5)).Return(nil, ErrLocationNotFound)

	r := gin.New()
	r.GET("/locations/:id", NewHandler(NewService(repo)).Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/locations/5", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func newRouter(repo *MockRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(repo))
	r := gin.New()
	r.GET("/locations", h.List)
	r.PUT("/locations/:id", h.Update)
	r.DELETE("/locations/:id", h.Deactivate)
	return r
}

func TestHandler_List(t *testing.T) {
	repo := new(MockRepository)
	repo.On("List", mock.Anything).Return([]Location{{ID: 1, Name: "Downtown"}, {ID: 2, Name: "Harbor"}}, nil)

	w := httptest.NewRecorder()
	newRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/locations", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Harbor")
}

func TestHandler_Update(t *testing.T) {
	body := `{"name":"Harbor","address":"Pier 4"}`

	tests := []struct {
		name  string
		setup func(*MockRepository)
		code  int
		want  string
	}{
		{
			name: "renamed",
			setup: func(r *MockRepository) {
				r.On("GetByID", mock.Anything, int64(3)).Return(&Location{ID: 3, Name: "Old"}, nil)
				r.On("NameTaken", mock.Anything, "Harbor", int64(3)).Return(false, nil)
				r.On("Update", mock.Anything, int64(3), "Harbor", "Pier 4").Return(&Location{ID: 3, Name: "Harbor"}, nil)
			},
			code: http.StatusOK,
			want: `"name":"Harbor"`,
		},
		{
			name: "unknown location",
			setup: func(r *MockRepository) {
				r.On("GetByID", mock.Anything, int64(3)).Return(nil, ErrLocationNotFound)
			},
			code: http.StatusNotFound,
			want: "Location not found",
		},
		{
			name: "name already used",
			setup: func(r *MockRepository) {
				r.On("GetByID", mock.Anything, int64(3)).Return(&Location{ID: 3, Name: "Old"}, nil)
				r.On("NameTaken", mock.Anything, "Harbor", int64(3)).Return(true, nil)
			},
			code: http.StatusConflict,
			want: "Location with this name already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setup(repo)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/locations/3", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			newRouter(repo).ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
			repo.AssertExpectations(t)
		})
	}
}

func TestHandler_Deactivate(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Deactivate", mock.Anything, int64(3)).Return(nil)
	repo.On("Deactivate", mock.Anything, int64(4)).Return(ErrLocationNotFound)
	r := newRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/locations/3", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/locations/4", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/locations/x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid location ID")
}
