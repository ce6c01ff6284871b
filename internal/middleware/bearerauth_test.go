package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeVerifier implements TokenVerifier for testing.
type fakeVerifier struct {
	userID int64
	err    error
}

func (f *fakeVerifier) Authenticate(token string) (int64, error) {
	return f.userID, f.err
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name         string
		header       string
		verifier     *fakeVerifier
		expectedCode int
		expectedUser int64
	}{
		{
			name:         "no header",
			header:       "",
			verifier:     &fakeVerifier{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "wrong scheme",
			header:       "Basic abc",
			verifier:     &fakeVerifier{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "empty token",
			header:       "Bearer ",
			verifier:     &fakeVerifier{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "verifier rejects",
			header:       "Bearer bad",
			verifier:     &fakeVerifier{err: errors.New("invalid token")},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "valid token",
			header:       "Bearer good",
			verifier:     &fakeVerifier{userID: 42},
			expectedCode: http.StatusOK,
			expectedUser: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/contacts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			BearerAuth(tt.verifier)(next).ServeHTTP(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}
			if tt.expectedCode == http.StatusOK && gotUser != tt.expectedUser {
				t.Errorf("expected user id %d in context, got %d", tt.expectedUser, gotUser)
			}
			if tt.expectedCode == http.StatusUnauthorized {
				if ct := res.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
					t.Errorf("expected JSON error body, got Content-Type %q", ct)
				}
			}
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if id := GetUserIDFromContext(req.Context()); id != 0 {
		t.Errorf("expected 0 for missing user id, got %d", id)
	}
}
