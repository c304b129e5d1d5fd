package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// GoogleTokenInfoURL is overridable so tests can point it at a fake server.
var GoogleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var ErrInvalidIdentity = errors.New("identity assertion lacks an email")

// GoogleIdentity is the verified assertion extracted from an id_token.
type GoogleIdentity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Aud     string `json:"aud"`
	Exp     string `json:"exp"`
}

// VerifyGoogleIDToken asks Google's tokeninfo endpoint to validate the
// id_token and returns the identity claims. clientID, when set, must match
// the token audience.
func VerifyGoogleIDToken(idToken, clientID string) (*GoogleIdentity, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(GoogleTokenInfoURL + "?id_token=" + url.QueryEscape(idToken))
	if err != nil {
		return nil, fmt.Errorf("failed to reach token verifier: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read verifier response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token rejected by verifier: %s", resp.Status)
	}

	var identity GoogleIdentity
	if err := json.Unmarshal(body, &identity); err != nil {
		return nil, fmt.Errorf("failed to parse verifier response: %w", err)
	}

	if clientID != "" && identity.Aud != clientID {
		return nil, errors.New("token audience does not match client ID")
	}
	if identity.Exp != "" {
		exp, err := strconv.ParseInt(identity.Exp, 10, 64)
		if err == nil && time.Now().Unix() > exp {
			return nil, errors.New("token is expired")
		}
	}
	if identity.Email == "" {
		return nil, ErrInvalidIdentity
	}

	return &identity, nil
}
