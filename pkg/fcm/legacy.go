package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultLegacyEndpoint = "https://fcm.googleapis.com/fcm/send"

// LegacyClient sends pushes over the deprecated legacy HTTP API: one
// multicast call authenticated with the project server key. Kept only for
// triggers still pointed at the old endpoint; new callers use Client.
type LegacyClient struct {
	serverKey string
	client    *http.Client
	endpoint  string
}

func NewLegacyClient(serverKey string, timeout time.Duration) *LegacyClient {
	return &LegacyClient{
		serverKey: serverKey,
		client:    &http.Client{Timeout: timeout},
		endpoint:  defaultLegacyEndpoint,
	}
}

type legacyRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    Notification      `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
	Priority        string            `json:"priority"`
	Android         struct {
		Priority string `json:"priority"`
	} `json:"android"`
}

// Dispatch sends notif+data to all tokens in one multicast call. The legacy
// API reports aggregate success/failure counts only; a transport-level
// failure counts every token as failed rather than failing the request.
func (c *LegacyClient) Dispatch(ctx context.Context, tokens []string, notif Notification, data map[string]string) (DispatchResult, error) {
	result := DispatchResult{Total: len(tokens)}
	if len(tokens) == 0 {
		return result, nil
	}

	reqBody := legacyRequest{
		RegistrationIDs: tokens,
		Notification:    notif,
		Data:            data,
		Priority:        "high",
	}
	reqBody.Android.Priority = "high"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		result.Failed = len(tokens)
		return result, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		result.Failed = len(tokens)
		return result, nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("⚠️ Legacy FCM call failed: %v", err)
		result.Failed = len(tokens)
		return result, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("⚠️ Legacy FCM returned %d: %s", resp.StatusCode, string(body))
		result.Failed = len(tokens)
		result.Failures = append(result.Failures, SendFailure{
			Reason: fmt.Sprintf("fcm returned %d: %s", resp.StatusCode, string(body)),
		})
		return result, nil
	}

	var lr struct {
		Success int `json:"success"`
		Failure int `json:"failure"`
	}
	if err := json.Unmarshal(body, &lr); err != nil {
		// 2xx without a parsable body still means the multicast went out
		result.Delivered = len(tokens)
		return result, nil
	}
	result.Delivered = lr.Success
	result.Failed = lr.Failure
	return result, nil
}
