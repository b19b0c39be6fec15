package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the hosted identity provider (a GoTrue-style REST API).
// The application itself holds no credential or session logic: signup,
// login and refresh are delegated wholesale.
type Client struct {
	baseURL   string
	apiKey    string
	jwtSecret []byte
	http      *http.Client
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// APIError is a non-2xx answer from the provider, relayed with its status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity provider: %s (status %d)", e.Message, e.Status)
}

func NewClient(baseURL, apiKey string, jwtSecret []byte) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		jwtSecret: jwtSecret,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.post(ctx, "/auth/v1/signup", map[string]string{"email": email, "password": password})
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.post(ctx, "/auth/v1/token?grant_type=password", map[string]string{"email": email, "password": password})
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	return c.post(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (c *Client) post(ctx context.Context, path string, body map[string]string) (*Session, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode identity provider response: %w", err)
	}
	return &session, nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	message := "request failed"
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Msg != "" {
			message = body.Msg
		} else if body.ErrorDescription != "" {
			message = body.ErrorDescription
		}
	}
	return &APIError{Status: resp.StatusCode, Message: message}
}
