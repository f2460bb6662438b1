package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ExpoPusher sends push messages through the Expo push API, which is
// what the mobile clients register their tokens with.
type ExpoPusher struct {
	url    string
	client *http.Client
}

func NewExpoPusher(url string) *ExpoPusher {
	if url == "" {
		url = "https://exp.host/--/api/v2/push/send"
	}
	return &ExpoPusher{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type expoMessage struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

type expoReceipt struct {
	Data []struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
}

func (p *ExpoPusher) Push(ctx context.Context, token, title, body string) error {
	payload, err := json.Marshal([]expoMessage{{To: token, Title: title, Body: body, Sound: "default"}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo push returned %d", resp.StatusCode)
	}

	var receipt expoReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return fmt.Errorf("decode expo receipt: %w", err)
	}
	for _, r := range receipt.Data {
		if r.Status == "error" {
			return fmt.Errorf("expo push rejected: %s", r.Message)
		}
	}
	return nil
}
