// Package push relays admin broadcasts to the FCM topic the mobile shell
// subscribes to. The server key never leaves server-side configuration.
package push

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Client struct {
	httpClient *resty.Client
	endpoint   string
	serverKey  string
	topic      string
	logger     *zap.Logger
}

func NewClient(endpoint, serverKey, topic string, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		serverKey:  serverKey,
		topic:      topic,
		logger:     logger,
	}
}

type notificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmRequest struct {
	To           string              `json:"to"`
	Notification notificationPayload `json:"notification"`
	Data         map[string]string   `json:"data"`
}

type fcmResponse struct {
	MessageID int64  `json:"message_id"`
	Error     string `json:"error"`
}

// Send forwards one title/message pair to the fixed broadcast topic.
func (c *Client) Send(title, message string) error {
	if c.serverKey == "" {
		return fmt.Errorf("push relay is not configured: missing server key")
	}

	request := fcmRequest{
		To: c.topic,
		Notification: notificationPayload{
			Title: title,
			Body:  message,
		},
		Data: map[string]string{
			"url": "/notifications",
		},
	}

	c.logger.Info("Sending push to broadcast topic", zap.String("topic", c.topic))

	var response fcmResponse
	resp, err := c.httpClient.R().
		SetHeader("Authorization", "key="+c.serverKey).
		SetBody(request).
		SetResult(&response).
		SetError(&response).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("push gateway request failed: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if response.Error != "" {
		return fmt.Errorf("push gateway rejected the message: %s", response.Error)
	}

	c.logger.Info("Push accepted by gateway", zap.Int64("message_id", response.MessageID))
	return nil
}
