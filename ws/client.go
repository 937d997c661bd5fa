package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/akinalp/durak/pkg"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: bir frame'i yazmak için maksimum bekleme süresi.
	// Aşılırsa bağlantı kopmuş sayılır.
	writeWait = 10 * time.Second

	// pongWait: broker'dan herhangi bir frame beklenen maksimum süre.
	// 3 heartbeat kaçırma = 30s × 3 = 90s. Süre dolarsa Read hata verir
	// ve reconnect devreye girer.
	pongWait = 90 * time.Second

	// heartbeatInterval: client'ın broker'a heartbeat gönderme aralığı.
	heartbeatInterval = 30 * time.Second

	// maxMessageSize: broker'dan kabul edilen maksimum frame boyutu (byte).
	// Telemetri ve uyarı gövdeleri küçüktür; büyük frame protokol hatasıdır.
	maxMessageSize = 8192
)

// MessageHandler, bir topic'e gelen her mesaj için çağrılan fonksiyon.
// Handler'lar read goroutine'i üzerinde çalışır — bloklamamalıdır.
type MessageHandler func(data json.RawMessage)

// subscription, tek bir named topic aboneliğini temsil eder.
type subscription struct {
	id      string // broker'a bildirilen subscription id (uuid)
	topic   string
	handler MessageHandler
}

// Client, broker endpoint'ine kurulan TEK canlı bağlantıyı yönetir.
//
// Durum makinesi: Disconnected → Connecting → Connected → (kopma →
// sabit gecikmeli otomatik reconnect → Connected). Reconnect dışarıdan
// ayrı bir durum olarak gözlemlenmez; kopma onError ile bildirilir,
// yeniden bağlanınca onReady tekrar çağrılır ve mevcut abonelikler
// otomatik olarak yeniden kaydedilir.
type Client struct {
	url            string
	dialTimeout    time.Duration
	reconnectDelay time.Duration

	mu           sync.Mutex
	conn         *websocket.Conn
	connected    bool
	closed       bool // Disconnect çağrıldı — reconnect denemesi yapılmaz
	reconnecting bool
	subs         map[string]*subscription // named key → abonelik

	onReady func()
	onError func(error)

	// writeMu: gorilla/websocket aynı anda tek yazma destekler —
	// heartbeat goroutine'i ile subscribe çağrıları çakışmasın diye.
	writeMu sync.Mutex
}

// NewClient, verilen broker endpoint'i için bir Client oluşturur.
// Bağlantı Connect çağrılana kadar açılmaz.
func NewClient(url string, dialTimeout, reconnectDelay time.Duration) *Client {
	return &Client{
		url:            url,
		dialTimeout:    dialTimeout,
		reconnectDelay: reconnectDelay,
		subs:           make(map[string]*subscription),
	}
}

// Connect, broker'a bağlanır ve pump goroutine'lerini başlatır.
//
// Idempotent: zaten bağlıysa no-op'tur (loglanır, hata değildir).
// Handshake tamamlanana veya dialTimeout dolana kadar bloklar.
// Başarıda onReady çağrılır; handshake hatasında onError çağrılır ve
// hata döner. Sonraki kopmalarda onError tekrar tetiklenir, her
// başarılı yeniden bağlanmada onReady tekrar tetiklenir.
func (c *Client) Connect(onReady func(), onError func(error)) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		log.Println("[ws] already connected")
		return nil
	}
	c.onReady = onReady
	c.onError = onError
	c.closed = false
	c.mu.Unlock()

	conn, err := c.dial()
	if err != nil {
		log.Printf("[ws] connect failed: %v", err)
		if onError != nil {
			onError(err)
		}
		return err
	}

	c.attach(conn)
	log.Printf("[ws] connected to %s", c.url)

	if onReady != nil {
		onReady()
	}
	return nil
}

// dial, handshake timeout'u ile tek bir bağlantı denemesi yapar.
func (c *Client) dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.dialTimeout}
	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial broker: %w", err)
	}
	return conn, nil
}

// attach, yeni bağlantıyı client'a bağlar ve pump'ları başlatır.
func (c *Client) attach(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	// stop: heartbeat goroutine'inin bu bağlantıyla birlikte ölmesini
	// sağlar — readPump çıkarken kapatır.
	stop := make(chan struct{})
	go c.readPump(conn, stop)
	go c.heartbeatLoop(conn, stop)
}

// IsConnected, bağlantının o anki durumunu döner.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SubscribeToAllLocations, tüm araçların telemetri akışına abone olur.
func (c *Client) SubscribeToAllLocations(handler MessageHandler) error {
	return c.subscribe(KeyLocations, TopicLocations, handler)
}

// SubscribeToBusLocation, tek bir aracın telemetri akışına abone olur.
func (c *Client) SubscribeToBusLocation(busID int64, handler MessageHandler) error {
	return c.subscribe(KeyBusLocation(busID), TopicBusLocation(busID), handler)
}

// SubscribeToAlerts, servis uyarısı akışına abone olur.
func (c *Client) SubscribeToAlerts(handler MessageHandler) error {
	return c.subscribe(KeyAlerts, TopicAlerts, handler)
}

// subscribe, named key için bir abonelik kaydeder ve broker'a subscribe
// frame'i gönderir.
//
// Bağlantı yoksa işlem yüksek sesle loglanır ve pkg.ErrNotConnected
// döner — exception benzeri bir kesinti değil, tanılı bir no-op.
// Aynı key'e ikinci abonelik öncekinin üzerine yazar: key başına en
// fazla bir handler.
func (c *Client) subscribe(key, topic string, handler MessageHandler) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		log.Printf("[ws] not connected, cannot subscribe to %s", topic)
		return pkg.ErrNotConnected
	}

	sub := &subscription{
		id:      uuid.NewString(),
		topic:   topic,
		handler: handler,
	}
	c.subs[key] = sub
	conn := c.conn
	c.mu.Unlock()

	if err := c.writeEvent(conn, Event{Op: OpSubscribe, Topic: topic, SubID: sub.id}); err != nil {
		return fmt.Errorf("failed to send subscribe frame for %s: %w", topic, err)
	}

	log.Printf("[ws] subscribed: %s (key=%s)", topic, key)
	return nil
}

// Unsubscribe, named key'e bağlı aboneliği kaldırır.
// Key kayıtlı değilse no-op.
func (c *Client) Unsubscribe(key string) {
	c.mu.Lock()
	sub, ok := c.subs[key]
	if ok {
		delete(c.subs, key)
	}
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()

	if !ok {
		return
	}

	if connected && conn != nil {
		if err := c.writeEvent(conn, Event{Op: OpUnsubscribe, Topic: sub.topic, SubID: sub.id}); err != nil {
			log.Printf("[ws] failed to send unsubscribe frame for %s: %v", sub.topic, err)
		}
	}
	log.Printf("[ws] unsubscribed: %s", key)
}

// Disconnect, tüm abonelikleri kaldırır ve bağlantıyı tamamen kapatır.
// Hiç bağlanılmamış olsa bile güvenle çağrılabilir. Disconnect sonrası
// otomatik reconnect durur; yeni bir Connect çağrısı gerekir.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.closed = true
	c.connected = false
	conn := c.conn
	c.conn = nil
	subs := c.subs
	c.subs = make(map[string]*subscription)
	c.mu.Unlock()

	if conn == nil {
		return
	}

	// Best-effort temizlik: broker'a abonelik iptallerini ve close
	// frame'ini bildir, hatalar önemsizdir — bağlantı zaten kapanıyor.
	for _, sub := range subs {
		_ = c.writeEvent(conn, Event{Op: OpUnsubscribe, Topic: sub.topic, SubID: sub.id})
	}
	c.writeMu.Lock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	_ = conn.Close()

	log.Println("[ws] disconnected")
}

// readPump, broker'dan gelen frame'leri okur ve dispatch eder.
// Bağlantı başına bir goroutine; bağlantı kopana kadar döngüde kalır.
func (c *Client) readPump(conn *websocket.Conn, stop chan struct{}) {
	defer close(stop)

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline: %v", err)
		c.handleDrop(conn, err)
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.handleDrop(conn, err)
			return
		}

		// Herhangi bir inbound frame broker'ın canlı olduğunu kanıtlar —
		// deadline sadece heartbeat_ack'te değil her frame'de yenilenir.
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.handleDrop(conn, err)
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Printf("[ws] invalid frame from broker: %v", err)
			continue
		}

		switch event.Op {
		case OpHeartbeatAck:
			// Deadline yukarıda zaten yenilendi.
		case OpReady:
			log.Println("[ws] broker session ready")
		case OpMessage:
			c.dispatch(event)
		default:
			log.Printf("[ws] unknown op from broker: %s", event.Op)
		}
	}
}

// dispatch, bir message frame'ini topic'ine kayıtlı handler'a iletir.
func (c *Client) dispatch(event Event) {
	var handler MessageHandler

	c.mu.Lock()
	for _, sub := range c.subs {
		if sub.topic == event.Topic {
			handler = sub.handler
			break
		}
	}
	c.mu.Unlock()

	if handler == nil {
		log.Printf("[ws] message for unsubscribed topic: %s", event.Topic)
		return
	}
	handler(event.Data)
}

// heartbeatLoop, broker'a periyodik heartbeat gönderir.
// readPump çıkarken stop kapatılır ve loop sonlanır.
func (c *Client) heartbeatLoop(conn *websocket.Conn, stop chan struct{}) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.writeEvent(conn, Event{Op: OpHeartbeat}); err != nil {
				// Yazma hatası kopmayı readPump da görecek — burada sadece çık.
				return
			}
		case <-stop:
			return
		}
	}
}

// handleDrop, bir bağlantının kopmasını işler: durumu günceller,
// onError'u tetikler ve (Disconnect çağrılmadıysa) reconnect başlatır.
func (c *Client) handleDrop(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		// Eski bir bağlantının geç gelen hatası — güncel durum başka
		// bir bağlantıya ait, dokunma.
		c.mu.Unlock()
		return
	}
	c.connected = false
	c.conn = nil
	closed := c.closed
	onError := c.onError
	c.mu.Unlock()

	_ = conn.Close()

	if closed {
		// Disconnect çağrıldı — beklenen kapanış.
		return
	}

	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Printf("[ws] connection dropped: %v", err)
	} else {
		log.Printf("[ws] connection closed: %v", err)
	}

	if onError != nil {
		onError(err)
	}

	go c.reconnectLoop()
}

// reconnectLoop, sabit gecikmeyle yeniden bağlanmayı dener ve başarıda
// mevcut abonelikleri broker'a yeniden kaydeder.
//
// Abonelik tablosu kopmalar boyunca korunur: receive-only bir consumer
// için abonelikleri sessizce düşürmek görünmez bir kesintiyle aynı şey
// olurdu — bu yüzden resubscribe otomatiktir.
func (c *Client) reconnectLoop() {
	c.mu.Lock()
	if c.reconnecting || c.closed {
		c.mu.Unlock()
		return
	}
	c.reconnecting = true
	c.mu.Unlock()

	for {
		time.Sleep(c.reconnectDelay)

		c.mu.Lock()
		if c.closed {
			c.reconnecting = false
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		conn, err := c.dial()
		if err != nil {
			log.Printf("[ws] reconnect failed, retrying in %s: %v", c.reconnectDelay, err)
			continue
		}

		c.mu.Lock()
		if c.closed {
			// Dial sırasında Disconnect çağrıldı — yeni bağlantıyı sahiplenme.
			c.reconnecting = false
			c.mu.Unlock()
			_ = conn.Close()
			return
		}
		c.reconnecting = false
		onReady := c.onReady
		subs := make([]*subscription, 0, len(c.subs))
		for _, sub := range c.subs {
			subs = append(subs, sub)
		}
		c.mu.Unlock()

		c.attach(conn)

		for _, sub := range subs {
			if err := c.writeEvent(conn, Event{Op: OpSubscribe, Topic: sub.topic, SubID: sub.id}); err != nil {
				log.Printf("[ws] failed to restore subscription %s: %v", sub.topic, err)
			}
		}

		log.Printf("[ws] reconnected, %d subscriptions restored", len(subs))
		if onReady != nil {
			onReady()
		}
		return
	}
}

// writeEvent, tek bir frame'i bağlantıya yazar (mutex ile korunur).
// gorilla/websocket aynı anda birden fazla yazmayı desteklemez.
func (c *Client) writeEvent(conn *websocket.Conn, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
