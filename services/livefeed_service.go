package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/akinalp/durak/api"
	"github.com/akinalp/durak/models"
	"github.com/akinalp/durak/notify"
	"github.com/akinalp/durak/pkg/i18n"
	"github.com/akinalp/durak/ws"
)

// alertBufferSize: bellekte tutulan maksimum uyarı sayısı.
// Buffer yenidan-eskiye sıralıdır; taşan en eski kayıt düşer.
const alertBufferSize = 10

// RealtimeClient, LiveFeed'in broker bağlantısından beklediği davranış.
// Testlerde fake ile değiştirilir; production'da ws.Client kullanılır.
type RealtimeClient interface {
	Connect(onReady func(), onError func(error)) error
	SubscribeToAllLocations(handler ws.MessageHandler) error
	SubscribeToAlerts(handler ws.MessageHandler) error
	SubscribeToBusLocation(busID int64, handler ws.MessageHandler) error
	Unsubscribe(key string)
	Disconnect()
	IsConnected() bool
}

// FeedListener, canlı state her değiştiğinde çağrılır.
type FeedListener func()

// LiveFeed interface'i — canlı araç telemetrisi ve uyarı akışının
// in-memory görünümü.
type LiveFeed interface {
	// Load, başlangıç state'ini REST üzerinden çeker: araç listesi,
	// eksik konumlar ve aktif uyarılar. Tek bir aracın hatası tüm
	// yüklemeyi düşürmez.
	Load(ctx context.Context) error
	// Start, broker bağlantısını kurar ve akışlara abone olur.
	Start() error
	// Stop, abonelikleri ve bağlantıyı kapatır; yüklü state korunur.
	Stop()

	// WatchBus, tek bir aracın telemetri akışına ek abonelik açar.
	WatchBus(busID int64) error
	UnwatchBus(busID int64)

	// ApplyLocation, bir telemetri örneğini yerel state'e merge eder.
	ApplyLocation(loc models.BusLocation)
	// ApplyAlert, bir uyarıyı buffer'ın başına ekler.
	ApplyAlert(alert models.Alert)

	// Buses, araçların o anki snapshot'ını araç numarasına göre sıralı döner.
	Buses() []models.Bus
	// Alerts, uyarı buffer'ının kopyasını yeniden-eskiye sıralı döner.
	Alerts() []models.Alert
	Connected() bool

	// Subscribe, state değişimlerini dinler; dönen fonksiyon aboneliği iptal eder.
	Subscribe(listener FeedListener) (unsubscribe func())
}

// liveFeed, LiveFeed interface'inin implementasyonu.
type liveFeed struct {
	client   *api.Client
	realtime RealtimeClient
	notifier notify.Notifier
	loc      *i18n.Localizer

	mu           sync.RWMutex
	buses        map[int64]*models.Bus
	alerts       []models.Alert
	listeners    map[int64]FeedListener
	nextListener int64
}

// NewLiveFeed, constructor.
func NewLiveFeed(
	client *api.Client,
	realtime RealtimeClient,
	notifier notify.Notifier,
	loc *i18n.Localizer,
) LiveFeed {
	return &liveFeed{
		client:    client,
		realtime:  realtime,
		notifier:  notifier,
		loc:       loc,
		buses:     make(map[int64]*models.Bus),
		listeners: make(map[int64]FeedListener),
	}
}

// Load, REST üzerinden başlangıç state'ini çeker.
//
// Akış:
// 1. Araç listesi (zorunlu — hata yüklemeyi düşürür)
// 2. Hat listesi (opsiyonel — araçlardaki eksik hat isimlerini doldurur)
// 3. Araç başına güncel konum (opsiyonel — hata loglanır, araç atlanır)
// 4. Aktif uyarılar (opsiyonel — buffer'ı tohumlar)
func (f *liveFeed) Load(ctx context.Context) error {
	buses, err := f.client.ListBuses(ctx)
	if err != nil {
		log.Printf("[livefeed] failed to load buses: %v", err)
		f.notifier.Notify(notify.SeverityError,
			userFacing(f.loc, err, f.loc.T("map.loadFailed")))
		return err
	}

	routeNames := f.loadRouteNames(ctx)

	f.mu.Lock()
	f.buses = make(map[int64]*models.Bus, len(buses))
	for i := range buses {
		bus := buses[i]
		if bus.RouteName == "" && bus.RouteID != nil {
			bus.RouteName = routeNames[*bus.RouteID]
		}
		f.buses[bus.ID] = &bus
	}
	f.mu.Unlock()

	// Listede konumu gelmeyen araçların güncel konumu tek tek çekilir.
	// Tek aracın hatası diğerlerini etkilemez.
	for _, bus := range buses {
		if bus.Location != nil {
			continue
		}
		loc, err := f.client.BusLocation(ctx, bus.ID)
		if err != nil {
			log.Printf("[livefeed] failed to load location for bus %d: %v", bus.ID, err)
			continue
		}
		f.ApplyLocation(*loc)
	}

	if alerts, err := f.client.ActiveAlerts(ctx); err != nil {
		log.Printf("[livefeed] failed to load active alerts: %v", err)
	} else {
		if len(alerts) > alertBufferSize {
			alerts = alerts[:alertBufferSize]
		}
		f.mu.Lock()
		f.alerts = alerts
		f.mu.Unlock()
	}

	f.notifyListeners()
	log.Printf("[livefeed] loaded %d buses, %d active alerts", len(buses), len(f.Alerts()))
	return nil
}

// loadRouteNames, hat id → hat adı tablosunu döner. Hata durumunda boş
// tablo — hat adları nice-to-have, yüklemeyi düşürmez.
func (f *liveFeed) loadRouteNames(ctx context.Context) map[int64]string {
	routes, err := f.client.ListRoutes(ctx)
	if err != nil {
		log.Printf("[livefeed] failed to load routes: %v", err)
		return nil
	}
	names := make(map[int64]string, len(routes))
	for _, r := range routes {
		names[r.ID] = r.Name
	}
	return names
}

// Start, broker bağlantısını kurar ve telemetri + uyarı akışlarına
// abone olur. Kopma ve yeniden bağlanma kullanıcıya bildirilir;
// abonelikler kopmalar boyunca otomatik korunur.
func (f *liveFeed) Start() error {
	var first atomic.Bool
	first.Store(true)

	err := f.realtime.Connect(
		func() {
			if first.CompareAndSwap(true, false) {
				return
			}
			// Reconnect — abonelikler broker'a zaten geri yüklendi.
			f.notifier.Notify(notify.SeverityInfo, f.loc.T("map.connected"))
		},
		func(err error) {
			log.Printf("[livefeed] realtime connection lost: %v", err)
			f.notifier.Notify(notify.SeverityWarning, f.loc.T("map.disconnected"))
		},
	)
	if err != nil {
		return err
	}

	if err := f.realtime.SubscribeToAllLocations(f.handleLocationFrame); err != nil {
		return err
	}
	if err := f.realtime.SubscribeToAlerts(f.handleAlertFrame); err != nil {
		return err
	}

	log.Println("[livefeed] realtime feed started")
	return nil
}

// Stop, broker bağlantısını kapatır. Yüklü state bellekten silinmez —
// feed yeniden başlatıldığında son bilinen görünüm üzerine devam edilir.
func (f *liveFeed) Stop() {
	f.realtime.Disconnect()
	log.Println("[livefeed] realtime feed stopped")
}

// WatchBus, tek bir aracın telemetri topic'ine ek abonelik açar.
// Genel /topic/locations aboneliğinden bağımsızdır.
func (f *liveFeed) WatchBus(busID int64) error {
	return f.realtime.SubscribeToBusLocation(busID, f.handleLocationFrame)
}

func (f *liveFeed) UnwatchBus(busID int64) {
	f.realtime.Unsubscribe(ws.KeyBusLocation(busID))
}

// handleLocationFrame, broker'dan gelen telemetri frame'ini çözer.
func (f *liveFeed) handleLocationFrame(data json.RawMessage) {
	var loc models.BusLocation
	if err := json.Unmarshal(data, &loc); err != nil {
		log.Printf("[livefeed] invalid location frame: %v", err)
		return
	}
	f.ApplyLocation(loc)
}

// handleAlertFrame, broker'dan gelen uyarı frame'ini çözer.
func (f *liveFeed) handleAlertFrame(data json.RawMessage) {
	var alert models.Alert
	if err := json.Unmarshal(data, &alert); err != nil {
		log.Printf("[livefeed] invalid alert frame: %v", err)
		return
	}
	f.ApplyAlert(alert)
}

// ApplyLocation, bir telemetri örneğini yerel state'e merge eder.
//
// Merge kuralı last-write-wins'tir: gelen örnek aracın Location'ını
// komple değiştirir, sıra/zaman karşılaştırması yapılmaz. Aracın
// tanımlayıcı alanları (numara, hat, durum) merge'de AYNEN korunur —
// telemetri kimliğe dokunmaz. Bilinmeyen araç id'si için minimal bir
// kayıt açılır; kimlik alanları bir sonraki Load'da dolar.
func (f *liveFeed) ApplyLocation(loc models.BusLocation) {
	f.mu.Lock()
	bus, ok := f.buses[loc.BusID]
	if !ok {
		bus = &models.Bus{ID: loc.BusID}
		f.buses[loc.BusID] = bus
	}
	locCopy := loc
	bus.Location = &locCopy
	f.mu.Unlock()

	f.notifyListeners()
}

// ApplyAlert, bir uyarıyı buffer'ın başına ekler (yeniden-eskiye) ve
// buffer'ı alertBufferSize ile sınırlar.
//
// Acil uyarı tipleri (gecikme, güzergah dışı) ayrıca kullanıcıya
// bildirilir — diğer tipler sadece buffer'da görünür.
func (f *liveFeed) ApplyAlert(alert models.Alert) {
	f.mu.Lock()
	f.alerts = append([]models.Alert{alert}, f.alerts...)
	if len(f.alerts) > alertBufferSize {
		f.alerts = f.alerts[:alertBufferSize]
	}
	f.mu.Unlock()

	if alert.Urgent() {
		f.notifier.Notify(notify.SeverityWarning,
			fmt.Sprintf(f.loc.T("map.alert"), alert.Message))
	}
	f.notifyListeners()
}

// Buses, araç snapshot'ını araç numarasına göre sıralı döner.
func (f *liveFeed) Buses() []models.Bus {
	f.mu.RLock()
	defer f.mu.RUnlock()

	buses := make([]models.Bus, 0, len(f.buses))
	for _, bus := range f.buses {
		b := *bus
		if bus.Location != nil {
			loc := *bus.Location
			b.Location = &loc
		}
		buses = append(buses, b)
	}
	sort.Slice(buses, func(i, j int) bool {
		if buses[i].BusNumber != buses[j].BusNumber {
			return buses[i].BusNumber < buses[j].BusNumber
		}
		return buses[i].ID < buses[j].ID
	})
	return buses
}

// Alerts, uyarı buffer'ının kopyasını döner.
func (f *liveFeed) Alerts() []models.Alert {
	f.mu.RLock()
	defer f.mu.RUnlock()

	alerts := make([]models.Alert, len(f.alerts))
	copy(alerts, f.alerts)
	return alerts
}

func (f *liveFeed) Connected() bool {
	return f.realtime.IsConnected()
}

// Subscribe, state değişimlerine abone olur.
func (f *liveFeed) Subscribe(listener FeedListener) func() {
	f.mu.Lock()
	id := f.nextListener
	f.nextListener++
	f.listeners[id] = listener
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *liveFeed) notifyListeners() {
	f.mu.RLock()
	listeners := make([]FeedListener, 0, len(f.listeners))
	for _, l := range f.listeners {
		listeners = append(listeners, l)
	}
	f.mu.RUnlock()

	for _, l := range listeners {
		l()
	}
}
