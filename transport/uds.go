// Package transport ships encoded frames to the LED matrix display server
// over its local Unix domain socket.
package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ErrEmptyFrame is returned when a frame carries no image for either panel.
var ErrEmptyFrame = errors.New("transport: frame must carry at least one image")

// Frame holds the encoded PNG bytes for the two panels. Either side may be
// nil, but not both.
type Frame struct {
	Left  []byte
	Right []byte
}

// renderRequest is the wire shape of the display server's render endpoint.
type renderRequest struct {
	LeftImage  *string `json:"left_image,omitempty"`
	RightImage *string `json:"right_image,omitempty"`
}

// Client posts frames to the display server. One short-lived connection
// per request; the display protocol reads the response until close.
type Client struct {
	socketPath string
	httpc      *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the display server socket.
// If logger is nil, a no-op logger is used.
func NewClient(socketPath string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dialer := &net.Dialer{}
	return &Client{
		socketPath: socketPath,
		logger:     logger,
		httpc: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					return dialer.DialContext(ctx, "unix", socketPath)
				},
				DisableKeepAlives: true,
			},
		},
	}
}

// Send base64-encodes the frame into a JSON body, posts it to the render
// endpoint, and returns the response body as opaque text. Transport
// failures are fatal to the caller's cycle only; the next tick re-attempts.
func (c *Client) Send(ctx context.Context, frame Frame) (string, error) {
	if frame.Left == nil && frame.Right == nil {
		return "", ErrEmptyFrame
	}

	req := renderRequest{
		LeftImage:  encodeImage(frame.Left),
		RightImage: encodeImage(frame.Right),
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("transport: marshal frame: %w", err)
	}

	// The host part is ignored by the unix dialer but required by net/http.
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://display/render/base64", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("transport: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("transport: post frame: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("transport: read response: %w", err)
	}
	c.logger.Debug("frame sent", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("transport: display server returned %s: %s", resp.Status, string(text))
	}
	return string(text), nil
}

func encodeImage(png []byte) *string {
	if png == nil {
		return nil
	}
	s := base64.StdEncoding.EncodeToString(png)
	return &s
}
