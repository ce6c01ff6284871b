package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/atarasov/contactbook/internal/models"
)

const (
	apiRegister = "/api/auth/register"
	apiLogin    = "/api/auth/login"
	apiMe       = "/api/users/me"
	apiContacts = "/api/contacts"
)

// Client talks to the remote contacts service over its HTTP contract.
// It carries no session state; callers pass the bearer token per call.
type Client struct {
	http    *http.Client
	baseURL string
	log     *zap.Logger
}

// New constructs a Client for the service at baseURL. httpClient and log may
// be nil, in which case http.DefaultClient and a no-op logger are used.
func New(httpClient *http.Client, baseURL string, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{http: httpClient, baseURL: baseURL, log: log}
}

// do performs one round trip and returns the raw response body and status.
// Network-level failures come back as *TransportError; the HTTP status is
// interpreted by the caller.
func (c *Client) do(ctx context.Context, method, path, token string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, &TransportError{Op: method + " " + path, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, &TransportError{Op: method + " " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed", zap.String("path", path), zap.Error(err))
		return nil, 0, &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("read response failed", zap.String("path", path), zap.Error(err))
		return nil, 0, &TransportError{Op: method + " " + path, Err: err}
	}
	return data, resp.StatusCode, nil
}

// rejection turns a failure response into a *RejectedError, passing the
// server-reported message through verbatim when present.
func rejection(data []byte, status int, fallback string) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return &RejectedError{Message: payload.Error}
	}
	if fallback == "" {
		fallback = fmt.Sprintf("request failed with status %d", status)
	}
	return &RejectedError{Message: fallback}
}

// Register provisions a new account. A successful call does not log the
// user in; the caller must follow up with Login.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	data, status, err := c.do(ctx, http.MethodPost, apiRegister, "", body)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return rejection(data, status, "")
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return &RejectedError{Message: payload.Error}
	}
	return nil
}

// Login exchanges credentials for a bearer token and the account's user.
// A response without a token counts as a rejection even on 2xx.
func (c *Client) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	body := map[string]string{"email": email, "password": password}
	data, status, err := c.do(ctx, http.MethodPost, apiLogin, "", body)
	if err != nil {
		return "", nil, err
	}
	var payload struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
		Error string      `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		if status < 200 || status >= 300 {
			return "", nil, rejection(data, status, "invalid credentials")
		}
		return "", nil, &TransportError{Op: "decode login response", Err: err}
	}
	if payload.Error != "" || payload.Token == "" {
		return "", nil, rejection(data, status, "invalid credentials")
	}
	return payload.Token, &payload.User, nil
}

// Me validates the token against the who-am-I endpoint and returns the
// session's user.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	data, status, err := c.do(ctx, http.MethodGet, apiMe, token, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, rejection(data, status, "")
	}
	var payload struct {
		models.User
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &TransportError{Op: "decode user response", Err: err}
	}
	if payload.Error != "" {
		return nil, &RejectedError{Message: payload.Error}
	}
	return &payload.User, nil
}

// ListContacts fetches the first fixed-size page of the user's contacts.
func (c *Client) ListContacts(ctx context.Context, token string) ([]models.Contact, error) {
	path := apiContacts + "?" + url.Values{"page": {"1"}, "limit": {"10"}}.Encode()
	data, status, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, rejection(data, status, "failed to fetch contacts")
	}
	var contacts []models.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, &TransportError{Op: "decode contacts response", Err: err}
	}
	return contacts, nil
}

// GetContact fetches a single contact by id.
func (c *Client) GetContact(ctx context.Context, token, id string) (*models.Contact, error) {
	data, status, err := c.do(ctx, http.MethodGet, apiContacts+"/"+id, token, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, rejection(data, status, "failed to fetch contact")
	}
	var contact models.Contact
	if err := json.Unmarshal(data, &contact); err != nil {
		return nil, &TransportError{Op: "decode contact response", Err: err}
	}
	return &contact, nil
}

// CreateContact sends the full field set. The response body is not trusted
// to echo the created record; callers re-fetch the list instead.
func (c *Client) CreateContact(ctx context.Context, token string, fields models.ContactFields) error {
	data, status, err := c.do(ctx, http.MethodPost, apiContacts, token, fields)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return rejection(data, status, "failed to create contact")
	}
	return nil
}

// UpdateContact sends a full replace of the record with the given id.
func (c *Client) UpdateContact(ctx context.Context, token, id string, fields models.ContactFields) error {
	data, status, err := c.do(ctx, http.MethodPut, apiContacts+"/"+id, token, fields)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return rejection(data, status, "failed to update contact")
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return &RejectedError{Message: payload.Error}
	}
	return nil
}

// DeleteContact deletes the record with the given id.
func (c *Client) DeleteContact(ctx context.Context, token, id string) error {
	data, status, err := c.do(ctx, http.MethodDelete, apiContacts+"/"+id, token, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return rejection(data, status, "failed to delete contact")
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return &RejectedError{Message: payload.Error}
	}
	return nil
}
