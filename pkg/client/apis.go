package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battwarn/battwarn/pkg/events"
	"github.com/battwarn/battwarn/pkg/power"
)

// Status mirrors the daemon's GET /status response.
type Status struct {
	power.Status
	WarningVisible bool `json:"warningVisible"`
	Threshold      int  `json:"threshold"`
}

// Config mirrors the daemon's GET /config response.
type Config struct {
	CheckIntervalSeconds int    `json:"checkIntervalSeconds"`
	Threshold            int    `json:"threshold"`
	ImagePath            string `json:"imagePath"`
}

func (c *Client) GetStatus() (*Status, error) {
	ret, err := c.Get("/status")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get status")
	}

	var st Status
	if err := json.Unmarshal([]byte(ret), &st); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal status")
	}

	return &st, nil
}

func (c *Client) GetConfig() (*Config, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf Config
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) SetThreshold(t int) (string, error) {
	return c.Put("/threshold", strconv.Itoa(t))
}

func (c *Client) SetCheckInterval(seconds int) (string, error) {
	return c.Put("/interval", strconv.Itoa(seconds))
}

func (c *Client) Dismiss() (string, error) {
	return c.Post("/dismiss", "")
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get daemon version")
	}
	return strings.Trim(strings.TrimSpace(ret), `"`), nil
}

// SubscribeEvents opens the daemon's SSE stream and delivers events until ctx
// is cancelled or the stream breaks. The returned channel is closed on exit.
func (c *Client) SubscribeEvents(ctx context.Context) <-chan events.Event {
	out := make(chan events.Event, 16)

	go func() {
		defer close(out)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://unix/events", nil)
		if err != nil {
			logrus.Errorf("failed to create events request: %v", err)
			return
		}
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			logrus.Debugf("events stream unavailable: %v", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			logrus.Errorf("events stream returned %d", resp.StatusCode)
			return
		}

		var name string
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				ev := events.Event{Name: name, Data: json.RawMessage(data)}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			case line == "":
				name = ""
			}
		}
	}()

	return out
}
