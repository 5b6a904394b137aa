package backendclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	apperrors "github.com/seclens/dashgate/internal/errors"
)

// The SAML handshake is brokered by the backend: it produces the IdP
// redirect, validates the assertion, and mints the authorization token the
// session carries afterwards. The gateway only shuttles the messages.

const (
	samlAuthRequestPath = "/_dashgate/saml/authrequest"
	samlAuthTokenPath   = "/_dashgate/saml/authtoken"
)

type samlAuthRequestResponse struct {
	Location  string `json:"location"`
	RequestID string `json:"request_id"`
}

type samlAuthTokenRequest struct {
	RequestID    string `json:"request_id"`
	SAMLResponse string `json:"saml_response"`
}

type samlAuthTokenResponse struct {
	Authorization string `json:"authorization"`
}

// SAMLAuthRequest asks the backend to initiate a SAML flow. It returns the
// IdP redirect location and the request ID needed to close the flow.
func (c *Client) SAMLAuthRequest(ctx context.Context) (location, requestID string, err error) {
	var parsed samlAuthRequestResponse
	if err := c.doJSON(ctx, http.MethodGet, samlAuthRequestPath, nil, &parsed); err != nil {
		return "", "", err
	}
	if parsed.Location == "" {
		return "", "", apperrors.BackendUnavailable("backend returned no SAML redirect location")
	}
	return parsed.Location, parsed.RequestID, nil
}

// SAMLAuthToken exchanges a SAML response for the backend's authorization
// token.
func (c *Client) SAMLAuthToken(ctx context.Context, requestID, samlResponse string) (string, error) {
	payload := samlAuthTokenRequest{RequestID: requestID, SAMLResponse: samlResponse}
	var parsed samlAuthTokenResponse
	if err := c.doJSON(ctx, http.MethodPost, samlAuthTokenPath, payload, &parsed); err != nil {
		return "", err
	}
	if parsed.Authorization == "" {
		return "", apperrors.BackendAuth(http.StatusUnauthorized, "backend rejected SAML response")
	}
	return parsed.Authorization, nil
}

// doJSON performs a JSON round trip against a backend path with the client's
// standard timeout and error taxonomy.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode backend request")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build backend request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeBackendUnavailable, "backend call failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeBackendUnavailable, "read backend response")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(raw, out); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeBackendUnavailable, "decode backend response")
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return apperrors.BackendAuth(resp.StatusCode, backendMessage(raw, "not authenticated"))
	default:
		return apperrors.BackendUnavailable(backendMessage(raw, "unexpected backend response"))
	}
}
