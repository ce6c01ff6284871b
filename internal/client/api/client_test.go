package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/atarasov/contactbook/internal/models"
)

// roundTripperFunc lets tests stub out the http.Client transport.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *http.Client {
	return &http.Client{Transport: fn, Timeout: time.Second}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestLogin_Success(t *testing.T) {
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		return jsonResponse(200, `{"token":"t1","user":{"id":1,"name":"A","email":"a@b.com"}}`), nil
	}), "http://example.com", nil)

	token, user, err := client.Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "t1" {
		t.Errorf("token = %q; want t1", token)
	}
	if user.ID != 1 || user.Name != "A" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestLogin_Rejected(t *testing.T) {
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(401, `{"error":"invalid credentials"}`), nil
	}), "http://example.com", nil)

	_, _, err := client.Login(context.Background(), "a@b.com", "wrong")
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.Message != "invalid credentials" {
		t.Errorf("message = %q; want server message passed through", rejected.Message)
	}
}

func TestLogin_MissingTokenIsRejection(t *testing.T) {
	// A 2xx body with no token and no error field must still not authenticate.
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{}`), nil
	}), "http://example.com", nil)

	_, _, err := client.Login(context.Background(), "a@b.com", "pw")
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
}

func TestLogin_NetworkError(t *testing.T) {
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	}), "http://example.com", nil)

	_, _, err := client.Login(context.Background(), "a@b.com", "pw")
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestMe_BearerHeader(t *testing.T) {
	var gotAuth string
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		gotAuth = req.Header.Get("Authorization")
		return jsonResponse(200, `{"id":1,"name":"A","email":"a@b.com"}`), nil
	}), "http://example.com", nil)

	user, err := client.Me(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer t1" {
		t.Errorf("Authorization = %q; want \"Bearer t1\"", gotAuth)
	}
	if user.Email != "a@b.com" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestMe_Non2xx(t *testing.T) {
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(401, `{"error":"unauthorized"}`), nil
	}), "http://example.com", nil)

	_, err := client.Me(context.Background(), "expired")
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
}

func TestListContacts_Success(t *testing.T) {
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/contacts" {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		q := req.URL.Query()
		if q.Get("page") != "1" || q.Get("limit") != "10" {
			t.Errorf("unexpected query: %s", req.URL.RawQuery)
		}
		if req.Header.Get("Authorization") != "Bearer t1" {
			t.Errorf("missing bearer header, got %q", req.Header.Get("Authorization"))
		}
		return jsonResponse(200, `[{"id":"c1","first_name":"John"},{"id":"c2","first_name":"Jane"}]`), nil
	}), "http://example.com", nil)

	contacts, err := client.ListContacts(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 2 || contacts[0].ID != "c1" {
		t.Errorf("unexpected contacts: %+v", contacts)
	}
}

func TestListContacts_MalformedBody(t *testing.T) {
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"not":"an array"}`), nil
	}), "http://example.com", nil)

	_, err := client.ListContacts(context.Background(), "t1")
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError for malformed body, got %v", err)
	}
}

func TestCreateContact_ServerMessagePassedThrough(t *testing.T) {
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(400, `{"error":"duplicate contact"}`), nil
	}), "http://example.com", nil)

	err := client.CreateContact(context.Background(), "t1", contactFields())
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.Message != "duplicate contact" {
		t.Errorf("message = %q; want verbatim server message", rejected.Message)
	}
}

func TestCreateContact_GenericMessageWhenAbsent(t *testing.T) {
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(500, `boom`), nil
	}), "http://example.com", nil)

	err := client.CreateContact(context.Background(), "t1", contactFields())
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.Message != "failed to create contact" {
		t.Errorf("message = %q; want generic fallback", rejected.Message)
	}
}

func TestUpdateContact_PutWithID(t *testing.T) {
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPut || req.URL.Path != "/api/contacts/c1" {
			t.Errorf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		return jsonResponse(200, `{}`), nil
	}), "http://example.com", nil)

	if err := client.UpdateContact(context.Background(), "t1", "c1", contactFields()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteContact_ErrorInBodyOn200(t *testing.T) {
	client := New(newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"error":"contact not found"}`), nil
	}), "http://example.com", nil)

	err := client.DeleteContact(context.Background(), "t1", "ghost")
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
}

func contactFields() models.ContactFields {
	return models.ContactFields{FirstName: "John", LastName: "Doe", PhoneNumber1: "111"}
}
