package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/akinalp/durak/pkg"
)

// brokerStub, testlerde broker rolünü oynayan WebSocket sunucusu.
// Gelen frame'leri kaydeder ve istenirse client'a mesaj yayınlar.
type brokerStub struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	conns    []*websocket.Conn
	upgrades int
	inbound  chan Event
}

func newBrokerStub(t *testing.T) *brokerStub {
	t.Helper()

	b := &brokerStub{inbound: make(chan Event, 64)}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		b.mu.Lock()
		b.conns = append(b.conns, conn)
		b.upgrades++
		b.mu.Unlock()

		for {
			var event Event
			if err := conn.ReadJSON(&event); err != nil {
				return
			}
			b.inbound <- event
		}
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *brokerStub) url() string {
	return "ws" + strings.TrimPrefix(b.srv.URL, "http")
}

func (b *brokerStub) upgradeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.upgrades
}

// push, son bağlantıya bir frame yazar.
func (b *brokerStub) push(t *testing.T, event Event) {
	t.Helper()
	b.mu.Lock()
	conn := b.conns[len(b.conns)-1]
	b.mu.Unlock()
	if err := conn.WriteJSON(event); err != nil {
		t.Fatalf("broker stub failed to push frame: %v", err)
	}
}

// dropLast, son bağlantıyı sunucu tarafından kapatır — ağ kopması simülasyonu.
func (b *brokerStub) dropLast() {
	b.mu.Lock()
	conn := b.conns[len(b.conns)-1]
	b.mu.Unlock()
	conn.Close()
}

// expectFrame, broker'a belirli bir op/topic ile frame gelmesini bekler.
func (b *brokerStub) expectFrame(t *testing.T, op, topic string) Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case event := <-b.inbound:
			if event.Op == op && event.Topic == topic {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for frame op=%s topic=%s", op, topic)
		}
	}
}

func newTestClient(t *testing.T, b *brokerStub) *Client {
	t.Helper()
	c := NewClient(b.url(), 2*time.Second, 50*time.Millisecond)
	t.Cleanup(c.Disconnect)
	return c
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestClient_Connect(t *testing.T) {
	t.Run("connect is idempotent", func(t *testing.T) {
		b := newBrokerStub(t)
		c := newTestClient(t, b)

		if err := c.Connect(nil, nil); err != nil {
			t.Fatalf("Connect returned error: %v", err)
		}
		if err := c.Connect(nil, nil); err != nil {
			t.Fatalf("second Connect returned error: %v", err)
		}

		if got := b.upgradeCount(); got != 1 {
			t.Fatalf("expected a single connection, got %d", got)
		}
		if !c.IsConnected() {
			t.Fatal("expected connected client")
		}
	})

	t.Run("onReady fires on successful connect", func(t *testing.T) {
		b := newBrokerStub(t)
		c := newTestClient(t, b)

		ready := false
		if err := c.Connect(func() { ready = true }, nil); err != nil {
			t.Fatalf("Connect returned error: %v", err)
		}
		if !ready {
			t.Fatal("expected onReady to fire")
		}
	})

	t.Run("unreachable broker fails and fires onError", func(t *testing.T) {
		c := NewClient("ws://127.0.0.1:1", 200*time.Millisecond, 50*time.Millisecond)

		var gotErr error
		err := c.Connect(nil, func(e error) { gotErr = e })
		if err == nil {
			t.Fatal("expected connect error")
		}
		if gotErr == nil {
			t.Fatal("expected onError to fire")
		}
		if c.IsConnected() {
			t.Fatal("client must not report connected after a failed dial")
		}
	})
}

func TestClient_Subscribe(t *testing.T) {
	t.Run("subscribe before connect is a diagnosed no-op", func(t *testing.T) {
		b := newBrokerStub(t)
		c := newTestClient(t, b)

		err := c.SubscribeToAllLocations(func(json.RawMessage) {})
		if !errors.Is(err, pkg.ErrNotConnected) {
			t.Fatalf("expected ErrNotConnected, got %v", err)
		}
	})

	t.Run("subscribe sends a frame and routes messages to the handler", func(t *testing.T) {
		b := newBrokerStub(t)
		c := newTestClient(t, b)

		if err := c.Connect(nil, nil); err != nil {
			t.Fatalf("Connect returned error: %v", err)
		}

		received := make(chan json.RawMessage, 1)
		if err := c.SubscribeToAllLocations(func(d json.RawMessage) { received <- d }); err != nil {
			t.Fatalf("SubscribeToAllLocations returned error: %v", err)
		}

		frame := b.expectFrame(t, OpSubscribe, TopicLocations)
		if frame.SubID == "" {
			t.Error("subscribe frame must carry a subscription id")
		}

		b.push(t, Event{Op: OpMessage, Topic: TopicLocations, Data: json.RawMessage(`{"busId":1}`)})

		select {
		case data := <-received:
			if string(data) != `{"busId":1}` {
				t.Errorf("unexpected payload: %s", data)
			}
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for dispatched message")
		}
	})

	t.Run("messages for other topics are not dispatched", func(t *testing.T) {
		b := newBrokerStub(t)
		c := newTestClient(t, b)

		if err := c.Connect(nil, nil); err != nil {
			t.Fatalf("Connect returned error: %v", err)
		}

		received := make(chan json.RawMessage, 1)
		if err := c.SubscribeToAlerts(func(d json.RawMessage) { received <- d }); err != nil {
			t.Fatalf("SubscribeToAlerts returned error: %v", err)
		}
		b.expectFrame(t, OpSubscribe, TopicAlerts)

		b.push(t, Event{Op: OpMessage, Topic: TopicLocations, Data: json.RawMessage(`{}`)})
		b.push(t, Event{Op: OpMessage, Topic: TopicAlerts, Data: json.RawMessage(`{"alertType":"DELAY"}`)})

		select {
		case data := <-received:
			if !strings.Contains(string(data), "DELAY") {
				t.Fatalf("handler received a frame for the wrong topic: %s", data)
			}
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for dispatched message")
		}
	})

	t.Run("unsubscribe sends a frame", func(t *testing.T) {
		b := newBrokerStub(t)
		c := newTestClient(t, b)

		if err := c.Connect(nil, nil); err != nil {
			t.Fatalf("Connect returned error: %v", err)
		}
		if err := c.SubscribeToBusLocation(7, func(json.RawMessage) {}); err != nil {
			t.Fatalf("SubscribeToBusLocation returned error: %v", err)
		}
		sub := b.expectFrame(t, OpSubscribe, TopicBusLocation(7))

		c.Unsubscribe(KeyBusLocation(7))
		unsub := b.expectFrame(t, OpUnsubscribe, TopicBusLocation(7))
		if unsub.SubID != sub.SubID {
			t.Error("unsubscribe must reference the original subscription id")
		}
	})
}

func TestClient_Reconnect(t *testing.T) {
	t.Run("reconnects with a fixed delay and restores subscriptions", func(t *testing.T) {
		b := newBrokerStub(t)
		c := newTestClient(t, b)

		var mu sync.Mutex
		readies := 0
		drops := 0

		err := c.Connect(
			func() { mu.Lock(); readies++; mu.Unlock() },
			func(error) { mu.Lock(); drops++; mu.Unlock() },
		)
		if err != nil {
			t.Fatalf("Connect returned error: %v", err)
		}
		if err := c.SubscribeToAllLocations(func(json.RawMessage) {}); err != nil {
			t.Fatalf("SubscribeToAllLocations returned error: %v", err)
		}
		b.expectFrame(t, OpSubscribe, TopicLocations)

		b.dropLast()

		// Sabit gecikme sonrası yeni bağlantı + otomatik resubscribe
		waitFor(t, "reconnect", func() bool { return b.upgradeCount() == 2 })
		b.expectFrame(t, OpSubscribe, TopicLocations)
		waitFor(t, "client state", c.IsConnected)

		mu.Lock()
		defer mu.Unlock()
		if drops != 1 {
			t.Errorf("expected one drop callback, got %d", drops)
		}
		if readies != 2 {
			t.Errorf("expected onReady for initial connect and reconnect, got %d", readies)
		}
	})

	t.Run("disconnect stops the reconnect loop", func(t *testing.T) {
		b := newBrokerStub(t)
		c := newTestClient(t, b)

		if err := c.Connect(nil, nil); err != nil {
			t.Fatalf("Connect returned error: %v", err)
		}
		c.Disconnect()

		time.Sleep(200 * time.Millisecond)
		if got := b.upgradeCount(); got != 1 {
			t.Fatalf("expected no reconnect after Disconnect, got %d connections", got)
		}
		if c.IsConnected() {
			t.Fatal("expected disconnected client")
		}
	})
}

func TestClient_Disconnect(t *testing.T) {
	t.Run("safe when never connected", func(t *testing.T) {
		c := NewClient("ws://127.0.0.1:1", time.Second, time.Second)
		c.Disconnect() // panic etmemeli
		if c.IsConnected() {
			t.Fatal("expected disconnected client")
		}
	})

	t.Run("clears subscriptions", func(t *testing.T) {
		b := newBrokerStub(t)
		c := newTestClient(t, b)

		if err := c.Connect(nil, nil); err != nil {
			t.Fatalf("Connect returned error: %v", err)
		}
		if err := c.SubscribeToAlerts(func(json.RawMessage) {}); err != nil {
			t.Fatalf("SubscribeToAlerts returned error: %v", err)
		}

		c.Disconnect()

		// Yeniden bağlanmadan subscribe edilemez — eski abonelik de taşınmaz.
		err := c.SubscribeToAlerts(func(json.RawMessage) {})
		if !errors.Is(err, pkg.ErrNotConnected) {
			t.Fatalf("expected ErrNotConnected after Disconnect, got %v", err)
		}
	})
}
