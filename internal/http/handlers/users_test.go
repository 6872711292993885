package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vaibhav-crux/users-assignment/internal/domain/user"
	"github.com/Vaibhav-crux/users-assignment/internal/http/handlers"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake implementation of the handlers.UsersService interface

type fakeUsersService struct {
	listFn   func(ctx context.Context) ([]user.Public, error)
	getFn    func(ctx context.Context, id string) (user.Public, error)
	createFn func(ctx context.Context, req user.CreateUserRequest) (user.Public, error)
	updateFn func(ctx context.Context, id string, req user.UpdateUserRequest) (user.Public, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeUsersService) List(ctx context.Context) ([]user.Public, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}

	return []user.Public{}, nil
}

func (f *fakeUsersService) Get(ctx context.Context, id string) (user.Public, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}

	return user.Public{}, nil
}

func (f *fakeUsersService) Create(ctx context.Context, req user.CreateUserRequest) (user.Public, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}

	return user.Public{}, nil
}

func (f *fakeUsersService) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.Public, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}

	return user.Public{}, nil
}

func (f *fakeUsersService) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}

	return nil
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func errorMessage(t *testing.T, body *bytes.Buffer) string {
	t.Helper()

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error body %q: %v", body.String(), err)
	}

	return resp.Error
}

func TestCreateUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		svcSetUp       func(*fakeUsersService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "success",
			body: `{"name": "A", "email": "a@x.com", "password": "p"}`,
			svcSetUp: func(f *fakeUsersService) {
				f.createFn = func(ctx context.Context, req user.CreateUserRequest) (user.Public, error) {
					return user.Public{ID: uuid.NewString(), Name: req.Name, Email: req.Email}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "missing_fields",
			body: `{"name": ""}`,
			svcSetUp: func(f *fakeUsersService) {
				// binding rejects the payload; the service should not be called
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Name, email, and password are required",
		},
		{
			name: "duplicate_email",
			body: `{"name": "A", "email": "a@x.com", "password": "p"}`,
			svcSetUp: func(f *fakeUsersService) {
				f.createFn = func(ctx context.Context, req user.CreateUserRequest) (user.Public, error) {
					return user.Public{}, user.ErrEmailExists
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Email already exists",
		},
		{
			name: "service_error",
			body: `{"name": "A", "email": "a@x.com", "password": "p"}`,
			svcSetUp: func(f *fakeUsersService) {
				f.createFn = func(ctx context.Context, req user.CreateUserRequest) (user.Public, error) {
					return user.Public{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeSvc := &fakeUsersService{}

			if tt.svcSetUp != nil {
				tt.svcSetUp(fakeSvc)
			}

			h := handlers.NewUsersHandler(fakeSvc)

			r := setupRouter(http.MethodPost, "/api/users", h.CreateUser)

			req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantError != "" {
				if got := errorMessage(t, w.Body); got != tt.wantError {
					t.Fatalf("got error %q, want %q", got, tt.wantError)
				}
			}

			if tt.wantStatusCode == http.StatusCreated && strings.Contains(w.Body.String(), "password") {
				t.Fatalf("password leaked in response: %s", w.Body.String())
			}
		})
	}
}

func TestGetUserByIdHandler(t *testing.T) {
	validID := uuid.NewString()
	missingID := uuid.NewString()

	tests := []struct {
		name           string
		url            string
		svcSetUp       func(*fakeUsersService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "success",
			url:  "/api/users/" + validID,
			svcSetUp: func(f *fakeUsersService) {
				f.getFn = func(ctx context.Context, id string) (user.Public, error) {
					return user.Public{ID: id, Name: "A", Email: "a@x.com"}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found",
			url:  "/api/users/" + missingID,
			svcSetUp: func(f *fakeUsersService) {
				f.getFn = func(ctx context.Context, id string) (user.Public, error) {
					return user.Public{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      "User not found",
		},
		{
			name: "service_error",
			url:  "/api/users/" + validID,
			svcSetUp: func(f *fakeUsersService) {
				f.getFn = func(ctx context.Context, id string) (user.Public, error) {
					return user.Public{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeSvc := &fakeUsersService{}

			if tt.svcSetUp != nil {
				tt.svcSetUp(fakeSvc)
			}

			h := handlers.NewUsersHandler(fakeSvc)
			r := setupRouter(http.MethodGet, "/api/users/:id", h.GetUserById)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantError != "" {
				if got := errorMessage(t, w.Body); got != tt.wantError {
					t.Fatalf("got error %q, want %q", got, tt.wantError)
				}
			}
		})
	}
}

func TestListUsersHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fakeSvc := &fakeUsersService{
			listFn: func(ctx context.Context) ([]user.Public, error) {
				return []user.Public{
					{ID: "id-1", Name: "A", Email: "a@x.com"},
					{ID: "id-2", Name: "B", Email: "b@x.com"},
				}, nil
			},
		}

		h := handlers.NewUsersHandler(fakeSvc)
		r := setupRouter(http.MethodGet, "/api/users", h.ListUsers)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		var out []user.Public
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("expected a JSON array, got %q: %v", w.Body.String(), err)
		}
		if len(out) != 2 {
			t.Fatalf("got %d users, want 2", len(out))
		}
	})

	t.Run("empty_is_an_array", func(t *testing.T) {
		h := handlers.NewUsersHandler(&fakeUsersService{})
		r := setupRouter(http.MethodGet, "/api/users", h.ListUsers)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Fatalf("got body %q, want []", w.Body.String())
		}
	})

	t.Run("service_error", func(t *testing.T) {
		fakeSvc := &fakeUsersService{
			listFn: func(ctx context.Context) ([]user.Public, error) {
				return nil, errors.New("db error")
			},
		}

		h := handlers.NewUsersHandler(fakeSvc)
		r := setupRouter(http.MethodGet, "/api/users", h.ListUsers)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}
	})
}

func TestUpdateUserHandler(t *testing.T) {
	validID := uuid.NewString()
	missingID := uuid.NewString()

	tests := []struct {
		name           string
		url            string
		body           string
		svcSetUp       func(*fakeUsersService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "success",
			url:  "/api/users/" + validID,
			body: `{"name": "B"}`,
			svcSetUp: func(f *fakeUsersService) {
				f.updateFn = func(ctx context.Context, id string, req user.UpdateUserRequest) (user.Public, error) {
					return user.Public{ID: id, Name: *req.Name, Email: "a@x.com"}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found",
			url:  "/api/users/" + missingID,
			body: `{"name": "B"}`,
			svcSetUp: func(f *fakeUsersService) {
				f.updateFn = func(ctx context.Context, id string, req user.UpdateUserRequest) (user.Public, error) {
					return user.Public{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      "User not found",
		},
		{
			name: "email_conflict",
			url:  "/api/users/" + validID,
			body: `{"email": "b@x.com"}`,
			svcSetUp: func(f *fakeUsersService) {
				f.updateFn = func(ctx context.Context, id string, req user.UpdateUserRequest) (user.Public, error) {
					return user.Public{}, user.ErrEmailInUse
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Email already in use",
		},
		{
			name:           "invalid_json",
			url:            "/api/users/" + validID,
			body:           `{"name": `,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "service_error",
			url:  "/api/users/" + validID,
			body: `{"name": "B"}`,
			svcSetUp: func(f *fakeUsersService) {
				f.updateFn = func(ctx context.Context, id string, req user.UpdateUserRequest) (user.Public, error) {
					return user.Public{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeSvc := &fakeUsersService{}

			if tt.svcSetUp != nil {
				tt.svcSetUp(fakeSvc)
			}

			h := handlers.NewUsersHandler(fakeSvc)
			r := setupRouter(http.MethodPut, "/api/users/:id", h.UpdateUser)

			req := httptest.NewRequest(http.MethodPut, tt.url, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantError != "" {
				if got := errorMessage(t, w.Body); got != tt.wantError {
					t.Fatalf("got error %q, want %q", got, tt.wantError)
				}
			}
		})
	}
}

func TestDeleteUserHandler(t *testing.T) {
	validID := uuid.NewString()
	missingID := uuid.NewString()

	tests := []struct {
		name           string
		url            string
		svcSetUp       func(*fakeUsersService)
		wantStatusCode int
		wantBody       string
	}{
		{
			name: "success",
			url:  "/api/users/" + validID,
			svcSetUp: func(f *fakeUsersService) {
				f.deleteFn = func(ctx context.Context, id string) error {
					return nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `{"message":"User deleted successfully"}`,
		},
		{
			name: "not_found",
			url:  "/api/users/" + missingID,
			svcSetUp: func(f *fakeUsersService) {
				f.deleteFn = func(ctx context.Context, id string) error {
					return user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantBody:       `{"error":"User not found"}`,
		},
		{
			name: "service_error",
			url:  "/api/users/" + validID,
			svcSetUp: func(f *fakeUsersService) {
				f.deleteFn = func(ctx context.Context, id string) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeSvc := &fakeUsersService{}

			if tt.svcSetUp != nil {
				tt.svcSetUp(fakeSvc)
			}

			h := handlers.NewUsersHandler(fakeSvc)
			r := setupRouter(http.MethodDelete, "/api/users/:id", h.DeleteUser)

			req := httptest.NewRequest(http.MethodDelete, tt.url, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantBody != "" && strings.TrimSpace(w.Body.String()) != tt.wantBody {
				t.Fatalf("got body %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}
