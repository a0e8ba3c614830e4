package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// AuthURL returns the consent URL for the web-side connect flow.
func (c *Client) AuthURL(state string) (string, error) {
	if c.oauthCfg == nil {
		return "", errors.New("google: oauth credentials not configured")
	}
	return c.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange trades an authorization code for a token, serialized as JSON the
// way it is stored alongside the account.
func (c *Client) Exchange(ctx context.Context, code string) ([]byte, error) {
	if c.oauthCfg == nil {
		return nil, errors.New("google: oauth credentials not configured")
	}
	tok, err := c.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google: exchanging authorization code: %w", err)
	}
	return json.Marshal(tok)
}

// Email resolves which account a stored token belongs to, via the primary
// calendar's id.
func (c *Client) Email(ctx context.Context, tokenJSON []byte) (string, error) {
	if c.oauthCfg == nil {
		return "", errors.New("google: oauth credentials not configured")
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokenJSON, &tok); err != nil {
		return "", fmt.Errorf("google: decoding token: %w", err)
	}
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(c.oauthCfg.Client(ctx, &tok)))
	if err != nil {
		return "", err
	}
	cal, err := svc.Calendars.Get("primary").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("google: resolving primary calendar: %w", err)
	}
	return cal.Id, nil
}

// Login runs the local-callback consent flow used by the configure command:
// it prints the consent URL through prompt, waits for the redirect on
// localhost and returns the exchanged token as JSON.
func (c *Client) Login(ctx context.Context, prompt func(authURL string)) ([]byte, error) {
	state := fmt.Sprintf("leadbooker-%d", time.Now().UTC().Nanosecond())
	authURL, err := c.AuthURL(state)
	if err != nil {
		return nil, err
	}
	prompt(authURL)

	mux := http.NewServeMux()
	server := &http.Server{
		Addr:    ":8080",
		Handler: mux,
	}

	var (
		token   []byte
		authErr error
	)

	mux.HandleFunc("/leadbooker", func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			go server.Shutdown(ctx)
		}()

		query := req.URL.Query()
		if query.Get("state") != state {
			authErr = errors.New("google: oauth link is not valid")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		token, authErr = c.Exchange(req.Context(), query.Get("code"))
		if authErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Unable to retrieve token:", authErr)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "All good, you can close this window!")
	})

	serverCh := make(chan struct{})
	var svrErr error
	go func() {
		svrErr = server.ListenAndServe()
		close(serverCh)
	}()

	<-serverCh

	if svrErr != nil && svrErr != http.ErrServerClosed {
		return nil, svrErr
	}
	if authErr != nil {
		return nil, authErr
	}
	return token, nil
}
