package utils

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookEvent is the payload posted to the configured webhook_url
type WebhookEvent struct {
	Event     string    `json:"event"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	UserID    uint      `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

var webhookClient = resty.New().
	SetTimeout(10 * time.Second).
	SetRetryCount(2).
	SetRetryWaitTime(500 * time.Millisecond).
	AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	})

// PostWebhook delivers one event to url
func PostWebhook(url string, event WebhookEvent) error {
	if url == "" {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	resp, err := webhookClient.R().
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(url)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %v", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook responded %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// DispatchWebhook posts asynchronously and only logs failures
func DispatchWebhook(event WebhookEvent) {
	url := GetSetting(SettingWebhookURL)
	if url == "" {
		return
	}
	go func() {
		if err := PostWebhook(url, event); err != nil {
			log.Printf("[WEBHOOK] %s delivery failed: %v", event.Event, err)
		}
	}()
}
