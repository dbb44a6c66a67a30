package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
)

// startDisplayServer runs a stub display server on a Unix socket and
// captures each decoded render request.
func startDisplayServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "display.sock")
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatal(err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })
	return socketPath
}

func TestSend(t *testing.T) {
	var got renderRequest
	var gotPath, gotContentType string
	socketPath := startDisplayServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		io.WriteString(w, "ok")
	})

	c := NewClient(socketPath, nil)
	reply, err := c.Send(context.Background(), Frame{
		Left:  []byte("left png"),
		Right: []byte("right png"),
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply != "ok" {
		t.Errorf("reply = %q, want ok", reply)
	}
	if gotPath != "/render/base64" {
		t.Errorf("path = %q, want /render/base64", gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", gotContentType)
	}
	if got.LeftImage == nil || *got.LeftImage != base64.StdEncoding.EncodeToString([]byte("left png")) {
		t.Error("left image missing or not base64 of the frame bytes")
	}
	if got.RightImage == nil || *got.RightImage != base64.StdEncoding.EncodeToString([]byte("right png")) {
		t.Error("right image missing or not base64 of the frame bytes")
	}
}

func TestSendOmitsAbsentPanel(t *testing.T) {
	var raw map[string]any
	socketPath := startDisplayServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &raw)
		io.WriteString(w, "ok")
	})

	c := NewClient(socketPath, nil)
	if _, err := c.Send(context.Background(), Frame{Left: []byte("png")}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, present := raw["right_image"]; present {
		t.Error("right_image key present in body for a left-only frame")
	}
	if _, present := raw["left_image"]; !present {
		t.Error("left_image key missing")
	}
}

func TestSendEmptyFrame(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "unused.sock"), nil)
	_, err := c.Send(context.Background(), Frame{})
	if !errors.Is(err, ErrEmptyFrame) {
		t.Fatalf("expected ErrEmptyFrame, got %v", err)
	}
}

func TestSendServerError(t *testing.T) {
	socketPath := startDisplayServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad image", http.StatusUnprocessableEntity)
	})

	c := NewClient(socketPath, nil)
	_, err := c.Send(context.Background(), Frame{Left: []byte("png")})
	if err == nil {
		t.Fatal("expected error for a non-2xx response")
	}
}

func TestSendNoSocket(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"), nil)
	_, err := c.Send(context.Background(), Frame{Left: []byte("png")})
	if err == nil {
		t.Fatal("expected error when the display server socket does not exist")
	}
}
