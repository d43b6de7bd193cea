package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"voicetasks/internal/repository"
)

// Notifier delivers a push message to a user's registered device.
// Delivery is best effort: failures are logged, never surfaced.
type Notifier interface {
	Push(ctx context.Context, userID, title, body string)
}

// Pusher sends notifications through an FCM-style HTTP endpoint, looking
// up the target device token per user.
type Pusher struct {
	endpoint  string
	serverKey string
	devices   *repository.DeviceRepository
	http      *http.Client
}

func NewPusher(endpoint, serverKey string, devices *repository.DeviceRepository) *Pusher {
	return &Pusher{
		endpoint:  endpoint,
		serverKey: serverKey,
		devices:   devices,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type pushMessage struct {
	To           string            `json:"to"`
	Notification pushNotification  `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type pushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Push looks up the user's device token and posts the message. A missing
// token or delivery error only logs.
func (p *Pusher) Push(ctx context.Context, userID, title, body string) {
	record, err := p.devices.FindByUser(ctx, userID)
	if err != nil {
		log.Printf("[warn] push: no device token for user %s: %v", userID, err)
		return
	}
	if record.Token == "" {
		log.Printf("[warn] push: empty device token for user %s", userID)
		return
	}

	if err := p.send(ctx, record.Token, title, body); err != nil {
		log.Printf("[warn] push: send to user %s failed: %v", userID, err)
		return
	}
	log.Printf("[info] push: sent %q to user %s", title, userID)
}

func (p *Pusher) send(ctx context.Context, token, title, body string) error {
	payload, err := json.Marshal(pushMessage{
		To:           token,
		Notification: pushNotification{Title: title, Body: body},
		Data:         map[string]string{"click_action": "FLUTTER_NOTIFICATION_CLICK"},
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.serverKey != "" {
		req.Header.Set("Authorization", "key="+p.serverKey)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push endpoint status %d", resp.StatusCode)
	}
	return nil
}
