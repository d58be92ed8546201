package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/config"
	"github.com/Hiro-mackay/gc-commerce/backend/tests/testutil/mocks"
)

// testWebsocketConfig returns limits that keep the tests fast.
func testWebsocketConfig() config.WebsocketConfig {
	return config.WebsocketConfig{
		MaxConnectionsPerIP: 5,
		MaxMessageSize:      50 * 1024,
		ConnectionWindow:    time.Minute,
		ConnectionLimit:     100,
		MessageWindow:       time.Minute,
		MessageLimit:        60,
		HeartbeatInterval:   30 * time.Second,
		SweepInterval:       time.Minute,
	}
}

type gatewayTestEnv struct {
	gw     *Gateway
	server *httptest.Server
	url    string
	cookie string
}

func newGatewayTestEnv(t *testing.T, cfg config.WebsocketConfig) *gatewayTestEnv {
	t.Helper()

	sessions := mocks.NewMockSessionRepository(t)
	sessions.On("FindBySID", mock.Anything, testSID).Return(validSession(testSID), nil).Maybe()

	roles := mocks.NewMockUserRoleRepository(t)
	roles.On("FindByUserID", mock.Anything, "user-1").
		Return([]*entity.UserRole{{UserID: "user-1", Role: entity.RoleCustomer}}, nil).Maybe()

	validator := NewSessionValidator(sessions, testSessionSecret, testCookieName)
	gw := New(cfg, validator, roles, false, nil)

	e := echo.New()
	e.GET("/ws", gw.Handle)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return &gatewayTestEnv{
		gw:     gw,
		server: server,
		url:    "ws" + strings.TrimPrefix(server.URL, "http") + "/ws",
		cookie: signedCookieHeader(testSID, testSessionSecret),
	}
}

// dial opens a websocket connection with the authenticated session cookie.
func (env *gatewayTestEnv) dial(t *testing.T, header http.Header) *websocket.Conn {
	t.Helper()
	if header == nil {
		header = http.Header{}
	}
	if header.Get("Cookie") == "" {
		header.Set("Cookie", env.cookie)
	}

	ws, _, err := websocket.DefaultDialer.Dial(env.url, header)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

// expectFrame reads one JSON frame and checks its type.
func expectFrame(t *testing.T, ws *websocket.Conn, frameType string) Frame {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	var frame Frame
	if err := ws.ReadJSON(&frame); err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}
	if frame.Type != frameType {
		t.Fatalf("expected frame type %q, got %q", frameType, frame.Type)
	}
	return frame
}

// expectClose reads until the connection closes and checks the close code and reason.
func expectClose(t *testing.T, ws *websocket.Conn, code int, reason string) {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	for {
		_, _, err := ws.ReadMessage()
		if err == nil {
			continue
		}
		closeErr, ok := err.(*websocket.CloseError)
		if !ok {
			t.Fatalf("expected close error, got %v", err)
		}
		if closeErr.Code != code {
			t.Errorf("expected close code %d, got %d", code, closeErr.Code)
		}
		if closeErr.Text != reason {
			t.Errorf("expected close reason %q, got %q", reason, closeErr.Text)
		}
		return
	}
}

func TestGateway_AcceptsAuthenticatedConnection(t *testing.T) {
	env := newGatewayTestEnv(t, testWebsocketConfig())

	ws := env.dial(t, nil)
	frame := expectFrame(t, ws, FrameTypeAuthSuccess)
	if frame.Message != "Connection established" {
		t.Errorf("unexpected auth frame message %q", frame.Message)
	}

	waitFor(t, func() bool { return env.gw.Registry().IsOnline("user-1") })
}

func TestGateway_RejectsMissingSession(t *testing.T) {
	env := newGatewayTestEnv(t, testWebsocketConfig())

	header := http.Header{}
	header.Set("Cookie", "unrelated=value")
	ws, _, err := websocket.DefaultDialer.Dial(env.url, header)
	if err != nil {
		t.Fatalf("upgrade should succeed before rejection: %v", err)
	}
	defer ws.Close()

	expectClose(t, ws, websocket.ClosePolicyViolation, ReasonUnauthorized)
}

func TestGateway_RejectsTamperedCookie(t *testing.T) {
	env := newGatewayTestEnv(t, testWebsocketConfig())

	header := http.Header{}
	header.Set("Cookie", signedCookieHeader(testSID, "wrong-secret"))
	ws, _, err := websocket.DefaultDialer.Dial(env.url, header)
	if err != nil {
		t.Fatalf("upgrade should succeed before rejection: %v", err)
	}
	defer ws.Close()

	expectClose(t, ws, websocket.ClosePolicyViolation, ReasonUnauthorized)
}

func TestGateway_ConcurrentConnectionCapPerIP(t *testing.T) {
	cfg := testWebsocketConfig()
	cfg.MaxConnectionsPerIP = 2
	env := newGatewayTestEnv(t, cfg)

	first := env.dial(t, nil)
	expectFrame(t, first, FrameTypeAuthSuccess)
	second := env.dial(t, nil)
	expectFrame(t, second, FrameTypeAuthSuccess)

	// cap reached: the third connection from the same IP is refused
	third := env.dial(t, nil)
	expectClose(t, third, websocket.ClosePolicyViolation, ReasonTooManyConcurrent)

	// closing one connection frees a slot
	first.Close()
	waitFor(t, func() bool { return env.gw.ipConnCount("127.0.0.1") < 2 })

	fourth := env.dial(t, nil)
	expectFrame(t, fourth, FrameTypeAuthSuccess)
}

func TestGateway_ConcurrentCapTracksForwardedIP(t *testing.T) {
	cfg := testWebsocketConfig()
	cfg.MaxConnectionsPerIP = 1
	env := newGatewayTestEnv(t, cfg)

	headerA := http.Header{}
	headerA.Set("X-Forwarded-For", "10.0.0.1")
	wsA := env.dial(t, headerA)
	expectFrame(t, wsA, FrameTypeAuthSuccess)

	// a different forwarded IP has its own cap
	headerB := http.Header{}
	headerB.Set("X-Forwarded-For", "10.0.0.2")
	wsB := env.dial(t, headerB)
	expectFrame(t, wsB, FrameTypeAuthSuccess)

	// the first entry of the list identifies the client
	headerC := http.Header{}
	headerC.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
	wsC := env.dial(t, headerC)
	expectClose(t, wsC, websocket.ClosePolicyViolation, ReasonTooManyConcurrent)
}

func TestGateway_ConnectionRateLimit(t *testing.T) {
	cfg := testWebsocketConfig()
	cfg.ConnectionLimit = 2
	env := newGatewayTestEnv(t, cfg)

	first := env.dial(t, nil)
	expectFrame(t, first, FrameTypeAuthSuccess)
	second := env.dial(t, nil)
	expectFrame(t, second, FrameTypeAuthSuccess)

	third := env.dial(t, nil)
	expectClose(t, third, websocket.ClosePolicyViolation, ReasonTooManyConnects)
}

func TestGateway_MessageRateLimit(t *testing.T) {
	cfg := testWebsocketConfig()
	cfg.MessageLimit = 2
	cfg.MessageWindow = 200 * time.Millisecond
	env := newGatewayTestEnv(t, cfg)

	dispatched := make(chan InboundMessage, 16)
	env.gw.SetMessageHandler(func(ctx context.Context, conn *Connection, msg *InboundMessage) {
		dispatched <- *msg
	})

	ws := env.dial(t, nil)
	expectFrame(t, ws, FrameTypeAuthSuccess)

	// the first two messages pass the intake pipeline
	for i := 0; i < 2; i++ {
		if err := ws.WriteJSON(InboundMessage{Type: "ping"}); err != nil {
			t.Fatalf("failed to write message: %v", err)
		}
		select {
		case <-dispatched:
		case <-time.After(2 * time.Second):
			t.Fatalf("message %d was not dispatched", i+1)
		}
	}

	// the third is dropped with a rate_limit frame, the connection stays open
	if err := ws.WriteJSON(InboundMessage{Type: "ping"}); err != nil {
		t.Fatalf("failed to write message: %v", err)
	}
	frame := expectFrame(t, ws, FrameTypeRateLimit)
	if frame.Message == "" {
		t.Error("rate limit frame should carry an explanation")
	}
	select {
	case <-dispatched:
		t.Fatal("rate limited message must not be dispatched")
	case <-time.After(100 * time.Millisecond):
	}

	// the window expires and the connection recovers
	time.Sleep(250 * time.Millisecond)
	if err := ws.WriteJSON(InboundMessage{Type: "ping"}); err != nil {
		t.Fatalf("failed to write message after window reset: %v", err)
	}
	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("message after window reset was not dispatched")
	}
}

func TestGateway_OversizedMessageCloses(t *testing.T) {
	cfg := testWebsocketConfig()
	cfg.MaxMessageSize = 64
	env := newGatewayTestEnv(t, cfg)

	dispatched := make(chan InboundMessage, 1)
	env.gw.SetMessageHandler(func(ctx context.Context, conn *Connection, msg *InboundMessage) {
		dispatched <- *msg
	})

	ws := env.dial(t, nil)
	expectFrame(t, ws, FrameTypeAuthSuccess)

	payload := strings.Repeat("x", 65)
	if err := ws.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("failed to write oversized message: %v", err)
	}

	expectClose(t, ws, websocket.CloseMessageTooBig, ReasonMessageTooLarge)

	select {
	case <-dispatched:
		t.Fatal("oversized message must not be dispatched")
	default:
	}
}

func TestGateway_MalformedMessageIsIgnored(t *testing.T) {
	env := newGatewayTestEnv(t, testWebsocketConfig())

	dispatched := make(chan InboundMessage, 1)
	env.gw.SetMessageHandler(func(ctx context.Context, conn *Connection, msg *InboundMessage) {
		dispatched <- *msg
	})

	ws := env.dial(t, nil)
	expectFrame(t, ws, FrameTypeAuthSuccess)

	if err := ws.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("failed to write malformed message: %v", err)
	}

	// the malformed payload is discarded, valid traffic still flows
	if err := ws.WriteJSON(InboundMessage{Type: "ping"}); err != nil {
		t.Fatalf("failed to write valid message: %v", err)
	}
	select {
	case msg := <-dispatched:
		if msg.Type != "ping" {
			t.Errorf("expected the valid message to dispatch, got %q", msg.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("valid message after malformed one was not dispatched")
	}
}

func TestGateway_HeartbeatTerminatesSilentConnection(t *testing.T) {
	cfg := testWebsocketConfig()
	cfg.HeartbeatInterval = 100 * time.Millisecond
	env := newGatewayTestEnv(t, cfg)

	ws := env.dial(t, nil)
	expectFrame(t, ws, FrameTypeAuthSuccess)

	// suppress pong responses to simulate a dead peer
	ws.SetPingHandler(func(string) error { return nil })

	// the server terminates within two probe intervals
	_ = ws.SetReadDeadline(time.Now().Add(time.Second))
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	waitFor(t, func() bool { return !env.gw.Registry().IsOnline("user-1") })
}

func TestGateway_HeartbeatKeepsResponsiveConnection(t *testing.T) {
	cfg := testWebsocketConfig()
	cfg.HeartbeatInterval = 100 * time.Millisecond
	env := newGatewayTestEnv(t, cfg)

	ws := env.dial(t, nil)
	expectFrame(t, ws, FrameTypeAuthSuccess)

	// the default ping handler answers with pongs while the read loop runs
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ws.SetReadDeadline(time.Now().Add(time.Second))
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	time.Sleep(400 * time.Millisecond)
	if !env.gw.Registry().IsOnline("user-1") {
		t.Error("responsive connection should survive several heartbeat intervals")
	}

	ws.Close()
	<-done
}

func TestGateway_NewConnectionReplacesOldInRegistry(t *testing.T) {
	env := newGatewayTestEnv(t, testWebsocketConfig())

	first := env.dial(t, nil)
	expectFrame(t, first, FrameTypeAuthSuccess)
	second := env.dial(t, nil)
	expectFrame(t, second, FrameTypeAuthSuccess)

	// closing the replaced socket must not evict the new one
	first.Close()
	time.Sleep(100 * time.Millisecond)

	if !env.gw.Registry().IsOnline("user-1") {
		t.Fatal("replacement connection should stay registered")
	}

	// events are delivered to the surviving connection
	if !env.gw.Registry().Notify(context.Background(), "user-1", Frame{Type: FrameTypeOrderStatus}) {
		t.Fatal("notify should reach the replacement connection")
	}
	expectFrame(t, second, FrameTypeOrderStatus)
}

func TestGateway_CleanupRemovesAllState(t *testing.T) {
	env := newGatewayTestEnv(t, testWebsocketConfig())

	ws := env.dial(t, nil)
	expectFrame(t, ws, FrameTypeAuthSuccess)
	waitFor(t, func() bool { return env.gw.Registry().IsOnline("user-1") })

	ws.Close()

	waitFor(t, func() bool { return !env.gw.Registry().IsOnline("user-1") })
	waitFor(t, func() bool { return env.gw.ipConnCount("127.0.0.1") == 0 })
}

// waitFor polls the condition until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
