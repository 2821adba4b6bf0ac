package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const defaultSendBaseURL = "https://fcm.googleapis.com"

// Notification is the visible part of a push message
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SendFailure records why one token could not be delivered to
type SendFailure struct {
	Token  string
	Reason string
}

// DispatchResult tallies one fan-out. Delivered+Failed == Total once
// Dispatch returns.
type DispatchResult struct {
	Delivered int
	Failed    int
	Total     int
	Failures  []SendFailure
}

// tokenSource mints bearer tokens for the v1 API
type tokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client sends pushes over the FCM HTTP v1 API, one request per device token
type Client struct {
	tokens   tokenSource
	client   *http.Client
	endpoint string
}

// NewClient builds a v1 dispatcher for the service account's project
func NewClient(sa *ServiceAccount, tokens *TokenProvider, timeout time.Duration) *Client {
	return &Client{
		tokens:   tokens,
		client:   &http.Client{Timeout: timeout},
		endpoint: fmt.Sprintf("%s/v1/projects/%s/messages:send", defaultSendBaseURL, sa.ProjectID),
	}
}

// v1 request/response shapes
type v1Message struct {
	Token        string            `json:"token"`
	Notification Notification      `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type v1Request struct {
	Message v1Message `json:"message"`
}

// Dispatch sends notif+data to every token concurrently and waits for all
// outcomes. A failed send never aborts or affects its siblings; the only
// error return is a failed token acquisition, which prevents any send. An
// empty token list returns a zero result without touching the network.
func (c *Client) Dispatch(ctx context.Context, tokens []string, notif Notification, data map[string]string) (DispatchResult, error) {
	result := DispatchResult{Total: len(tokens)}
	if len(tokens) == 0 {
		return result, nil
	}

	accessToken, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return result, err
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			err := c.send(ctx, accessToken, token, notif, data)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Failures = append(result.Failures, SendFailure{Token: token, Reason: err.Error()})
			} else {
				result.Delivered++
			}
		}(token)
	}
	wg.Wait()

	return result, nil
}

func (c *Client) send(ctx context.Context, accessToken, token string, notif Notification, data map[string]string) error {
	payload, err := json.Marshal(v1Request{Message: v1Message{
		Token:        token,
		Notification: notif,
		Data:         data,
	}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("fcm returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
