// transport/httpapi/session.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package httpapi is the thin HTTP API session client (§6): it posts
// the transceiver DTO assembled by radio.RadioStack.AssembleTransceiverDTO
// and refreshes its own bearer token via golang.org/x/oauth2. It carries
// no retry/backoff policy beyond what oauth2.Transport already supplies.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/atcvoice/radiostack/radio"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Session posts transceiver snapshots to the facility's HTTP API.
type Session struct {
	client      *http.Client
	baseURL     string
	postTimeout time.Duration
}

// Config bundles the OAuth2 client-credentials grant and API base URL.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

func New(cfg Config) *Session {
	ccCfg := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	return &Session{
		client:      ccCfg.Client(context.Background()),
		baseURL:     cfg.BaseURL,
		postTimeout: 5 * time.Second,
	}
}

// newWithTokenSource is used by tests to inject a static token, bypassing
// the client-credentials token endpoint.
func newWithTokenSource(baseURL string, ts oauth2.TokenSource) *Session {
	return &Session{
		client:      oauth2.NewClient(context.Background(), ts),
		baseURL:     baseURL,
		postTimeout: 5 * time.Second,
	}
}

// PostTransceivers posts the transceiver DTO list (§4.6) to the
// facility's /transceivers endpoint.
func (s *Session) PostTransceivers(ctx context.Context, transceivers []radio.Transceiver) error {
	body, err := json.Marshal(transceivers)
	if err != nil {
		return fmt.Errorf("httpapi: marshal transceivers: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.postTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/transceivers", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("httpapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("httpapi: post transceivers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("httpapi: post transceivers: unexpected status %d", resp.StatusCode)
	}
	return nil
}
