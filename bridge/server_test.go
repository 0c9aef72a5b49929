package bridge

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"github.com/gorilla/websocket"

	"github.com/luckyfish-tu/camservo/link"
)

const timeout = 2 * time.Second

type fakeMount struct {
	mu         sync.Mutex
	targets    []float64
	speeds     []float64
	inversions []bool
	sendErr    error
	linkErr    error
	status     link.Status
}

func (m *fakeMount) SetTarget(deg float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets = append(m.targets, deg)
	return m.sendErr
}

func (m *fakeMount) SetSpeed(degPerS float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speeds = append(m.speeds, degPerS)
	return m.sendErr
}

func (m *fakeMount) SetInversion(inverted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inversions = append(m.inversions, inverted)
	return m.sendErr
}

func (m *fakeMount) Status() link.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *fakeMount) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.linkErr
}

func newTestServer(t *testing.T, mount *fakeMount) (*Server, *httptest.Server) {
	t.Helper()

	s := New(mount, golog.NewDevelopmentLogger("bridge-test"))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		_ = s.Close()
		ts.Close()
	})
	return s, ts
}

// dial connects and consumes the status message sent on connect, so the client is
// registered by the time it returns
func dial(t *testing.T, ts *httptest.Server) (*websocket.Conn, StatusPayload) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("error dialing: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	var status StatusPayload
	readMessage(t, conn, TypeStatus, &status)
	return conn, status
}

func readMessage(t *testing.T, conn *websocket.Conn, expectedType string, payload any) {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(timeout))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("error reading message: %v", err)
	}
	if msg.Type != expectedType {
		t.Fatalf("expected=%q, got=%q (%s)", expectedType, msg.Type, string(msg.Payload))
	}
	if payload != nil {
		if err := msg.ParsePayload(payload); err != nil {
			t.Fatalf("error parsing payload: %v", err)
		}
	}
}

func sendMessage(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()

	data, err := newMessage(msgType, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("error writing message: %v", err)
	}
}

func waitFor(t *testing.T, description string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", description)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStatusEndpoint(t *testing.T) {
	mount := &fakeMount{status: link.Status{FirmwareVersion: "0.1.0", TargetDeg: 30, PositionDeg: 12.5}}
	_, ts := newTestServer(t, mount)

	resp, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected=%d, got=%d", http.StatusOK, resp.StatusCode)
	}

	var status StatusPayload
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Connected {
		t.Error("expected connected")
	}
	if status.FirmwareVersion != "0.1.0" || status.TargetDeg != 30 || status.PositionDeg != 12.5 {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestStatusOnConnect(t *testing.T) {
	mount := &fakeMount{
		status:  link.Status{FirmwareVersion: "0.9.0"},
		linkErr: link.ErrIncompatibleFirmware,
	}
	_, ts := newTestServer(t, mount)

	_, status := dial(t, ts)
	if status.Connected {
		t.Error("expected disconnected status for incompatible firmware")
	}
	if status.FirmwareVersion != "0.9.0" {
		t.Errorf("expected=%q, got=%q", "0.9.0", status.FirmwareVersion)
	}
}

func TestCommands(t *testing.T) {
	mount := &fakeMount{}
	_, ts := newTestServer(t, mount)
	conn, _ := dial(t, ts)

	sendMessage(t, conn, TypeSetTarget, TargetPayload{Degrees: -45.5})
	sendMessage(t, conn, TypeSetSpeed, SpeedPayload{DegreesPerSecond: 90})
	sendMessage(t, conn, TypeSetInversion, InversionPayload{Inverted: true})

	waitFor(t, "commands to reach the mount", func() bool {
		mount.mu.Lock()
		defer mount.mu.Unlock()
		return len(mount.targets) == 1 && len(mount.speeds) == 1 && len(mount.inversions) == 1
	})

	mount.mu.Lock()
	defer mount.mu.Unlock()
	if mount.targets[0] != -45.5 {
		t.Errorf("expected=-45.5, got=%v", mount.targets[0])
	}
	if mount.speeds[0] != 90 {
		t.Errorf("expected=90, got=%v", mount.speeds[0])
	}
	if !mount.inversions[0] {
		t.Error("expected inversion")
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		message string
		sendErr error
		code    string
	}{
		{"InvalidJSON", `{"type":`, nil, ErrInvalidMessage},
		{"InvalidPayload", `{"type":"set_target","payload":{"degrees":"up"}}`, nil, ErrInvalidMessage},
		{"UnknownType", `{"type":"zoom"}`, nil, ErrUnknownType},
		{"LinkError", `{"type":"set_speed","payload":{"degrees_per_second":10}}`, errors.New("port closed"), ErrLinkUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ts := newTestServer(t, &fakeMount{sendErr: tt.sendErr})
			conn, _ := dial(t, ts)

			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.message)); err != nil {
				t.Fatalf("error writing message: %v", err)
			}

			var payload ErrorPayload
			readMessage(t, conn, TypeError, &payload)
			if payload.Code != tt.code {
				t.Errorf("expected=%q, got=%q", tt.code, payload.Code)
			}
		})
	}
}

func TestBroadcast(t *testing.T) {
	s, ts := newTestServer(t, &fakeMount{})
	first, _ := dial(t, ts)
	second, _ := dial(t, ts)

	s.Broadcast(link.Event{Name: "position-telemetry", Value: "-1500"})

	for _, conn := range []*websocket.Conn{first, second} {
		var position PositionPayload
		readMessage(t, conn, TypeTelemetry, &position)
		if position.Degrees != -1.5 {
			t.Errorf("expected=-1.5, got=%v", position.Degrees)
		}
	}

	s.Broadcast(link.Event{Name: "lights", Value: "1"})
	s.Broadcast(link.Event{Name: "position-telemetry", Value: "garbage"})
	s.Broadcast(link.Event{Name: "set-speed", Value: "90000"})

	var ack AckPayload
	readMessage(t, first, TypeAck, &ack)
	if ack.Command != "set-speed" || ack.Value != "90000" {
		t.Errorf("unexpected ack: %+v", ack)
	}

	s.Broadcast(link.Event{Name: "camservo-version", Value: "0.2.0"})

	var version VersionPayload
	readMessage(t, first, TypeVersion, &version)
	if version.Version != "0.2.0" || version.Compatible {
		t.Errorf("unexpected version: %+v", version)
	}
}

func TestClose(t *testing.T) {
	s, ts := newTestServer(t, &fakeMount{})
	conn, _ := dial(t, ts)

	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected going away close, got=%v", err)
	}
}
