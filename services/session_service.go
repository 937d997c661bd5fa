// Package services, business logic katmanını barındırır.
//
// Service Layer Pattern nedir?
// CLI komutları (sunum) ile api.Client / repository (IO) arasında oturan
// katmandır. Tüm iş kuralları burada yaşar:
//   - Oturum yaşam döngüsü (login, restore, expiry, logout)
//   - Canlı telemetri ve uyarı state'inin merge kuralları
//
// Service ASLA terminal çıktısı üretmez — kullanıcıya gösterilecek şeyler
// notify.Notifier üzerinden yayınlanır. Service ASLA doğrudan SQL
// çalıştırmaz — repository interface'i kullanır.
package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/akinalp/durak/api"
	"github.com/akinalp/durak/models"
	"github.com/akinalp/durak/notify"
	"github.com/akinalp/durak/pkg"
	"github.com/akinalp/durak/pkg/i18n"
	"github.com/akinalp/durak/repository"
)

// expiryCheckInterval: token süresinin proaktif kontrol aralığı.
// Süre dolumu iki yoldan yakalanır: backend'den gelen 401 (reaktif) ve
// bu watcher (proaktif, istek atılmayan uzun oturumlar için).
const expiryCheckInterval = 30 * time.Second

// SessionListener, oturum state'i her değiştiğinde çağrılır.
// Parametre derin kopyadır — listener kendi kopyası üzerinde serbestçe
// çalışabilir. Listener'lar service goroutine'i üzerinde çalışır,
// bloklamamalıdır.
type SessionListener func(session models.Session)

// SessionService interface'i — dışarıya açık API.
// Komutlar bu interface'e bağımlıdır, concrete struct'a değil.
type SessionService interface {
	// Initialize, kalıcı store'daki oturumu geri yükler.
	// Token yoksa veya süresi dolmuşsa anonim state ile biter; her
	// koşulda loading false'a iner.
	Initialize(ctx context.Context) error
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, req *models.RegisterRequest) error
	Logout(ctx context.Context) error
	// UpdateProfile, kimliği backend'de günceller ve yereldeki oturuma
	// merge eder. Token'a dokunmaz.
	UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error)

	// Snapshot, oturumun derin kopyasını döner.
	Snapshot() models.Session
	Authenticated() bool
	Loading() bool
	// Subscribe, state değişimlerini dinler; dönen fonksiyon aboneliği iptal eder.
	Subscribe(listener SessionListener) (unsubscribe func())

	// Token, api.TokenSource implementasyonu — o anki token'ı döner,
	// oturum yoksa boş string.
	Token() string
	// HandleUnauthorized, backend'den gelen 401 üzerine çağrılır.
	HandleUnauthorized()

	Close()
}

// sessionService, SessionService interface'inin implementasyonu.
type sessionService struct {
	client   *api.Client
	repo     repository.CredentialRepository
	notifier notify.Notifier
	loc      *i18n.Localizer

	mu           sync.RWMutex
	session      models.Session
	loading      bool
	expiredOnce  bool // aynı oturum için expiry akışı bir kez çalışır
	listeners    map[int64]SessionListener
	nextListener int64
	watchStop    chan struct{}
}

// NewSessionService, constructor. Initialize çağrılana kadar oturum
// anonim ve loading=true'dur — restore denenmeden "giriş yapılmamış"
// kararı verilmesin diye.
func NewSessionService(
	client *api.Client,
	repo repository.CredentialRepository,
	notifier notify.Notifier,
	loc *i18n.Localizer,
) SessionService {
	return &sessionService{
		client:    client,
		repo:      repo,
		notifier:  notifier,
		loc:       loc,
		loading:   true,
		listeners: make(map[int64]SessionListener),
	}
}

// Initialize, kalıcı store'daki token'ı okuyup oturumu geri yükler.
//
// Akış:
// 1. Token yoksa → anonim state, bitti
// 2. Token çözülemiyorsa veya süresi dolmuşsa → store temizlenir, anonim state
// 3. Token geçerliyse → kayıtlı kimlikle (yoksa claim'lerden türetilen
//    kimlikle) oturum kurulur, expiry watcher başlar
//
// Sonuç ne olursa olsun loading false'a iner — restore'un başarısızlığı
// uygulamayı sonsuz "yükleniyor"da bırakmaz.
func (s *sessionService) Initialize(ctx context.Context) error {
	defer s.finishLoading()

	token, err := s.repo.LoadToken(ctx)
	if errors.Is(err, pkg.ErrNotFound) || (err == nil && token == "") {
		log.Println("[session] no stored session")
		return nil
	}
	if err != nil {
		log.Printf("[session] failed to load stored token: %v", err)
		return err
	}

	claims, err := models.DecodeToken(token)
	if err != nil {
		log.Printf("[session] stored token is malformed, clearing: %v", err)
		s.clearStore(ctx)
		return nil
	}
	if claims.Expired(time.Now()) {
		log.Println("[session] stored token is expired, clearing")
		s.clearStore(ctx)
		return nil
	}

	user, err := s.repo.LoadUser(ctx)
	if err != nil || user == nil {
		if err != nil {
			log.Printf("[session] failed to load stored identity: %v", err)
		}
		// Kimlik kaydı yoksa token claim'lerinden türet — oturum
		// kimliksiz kalmasın.
		user, err = claims.User()
		if err != nil {
			log.Printf("[session] cannot derive identity from token, clearing: %v", err)
			s.clearStore(ctx)
			return nil
		}
	}

	s.setSession(user, token, claims.ExpiresAt.Time)
	log.Printf("[session] restored session for %s", user.Email)
	return nil
}

// Login, kimlik doğrular, oturumu kurar ve kalıcı store'a yazar.
func (s *sessionService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		log.Printf("[session] login failed for %s: %v", email, err)
		s.notifier.Notify(notify.SeverityError,
			userFacing(s.loc, err, s.loc.T("auth.loginFailed")))
		return nil, err
	}

	claims, err := models.DecodeToken(resp.Token)
	if err != nil {
		log.Printf("[session] login returned malformed token: %v", err)
		return nil, err
	}

	user := resp.User()
	if err := s.repo.SaveToken(ctx, resp.Token); err != nil {
		// Kalıcılık hatası oturumu düşürmez — bu oturum bellekte yaşar,
		// sadece process restart'ında kaybolur.
		log.Printf("[session] failed to persist token: %v", err)
	}
	if err := s.repo.SaveUser(ctx, user); err != nil {
		log.Printf("[session] failed to persist identity: %v", err)
	}

	s.setSession(user, resp.Token, claims.ExpiresAt.Time)
	s.notifier.Notify(notify.SeverityInfo, s.loc.T("auth.loginSuccess"))
	log.Printf("[session] logged in as %s (%s)", user.Email, user.Role)

	snapshot := s.Snapshot()
	return &snapshot, nil
}

// Register, yeni yolcu hesabı oluşturur. Oturum KURMAZ — kayıt sonrası
// kullanıcı login akışına yönlendirilir. Rol istemci tarafında her zaman
// PASSENGER'a sabitlenir; sürücü/admin hesapları bu yüzeyden açılamaz.
func (s *sessionService) Register(ctx context.Context, req *models.RegisterRequest) error {
	req.Role = models.RolePassenger

	if err := s.client.Register(ctx, req); err != nil {
		log.Printf("[session] registration failed for %s: %v", req.Email, err)
		s.notifier.Notify(notify.SeverityError,
			userFacing(s.loc, err, s.loc.T("auth.registerFailed")))
		return err
	}

	s.notifier.Notify(notify.SeverityInfo, s.loc.T("auth.registerSuccess"))
	log.Printf("[session] registered %s", req.Email)
	return nil
}

// Logout, oturumu her koşulda sonlandırır.
// Sunucu tarafı logout best-effort'tur: backend'e ulaşılamasa bile
// yerel token silinir ve state anonime döner — kullanıcı "çıkış
// yapamıyorum" durumunda kalmaz.
func (s *sessionService) Logout(ctx context.Context) error {
	if s.Authenticated() {
		if err := s.client.LogoutServer(ctx); err != nil {
			log.Printf("[session] server-side logout failed (continuing locally): %v", err)
		}
	}

	s.clearStore(ctx)
	s.clearSession()
	s.notifier.Notify(notify.SeverityInfo, s.loc.T("auth.loggedOut"))
	log.Println("[session] logged out")
	return nil
}

// UpdateProfile, kimlik alanlarını backend'de günceller ve sonucu
// yereldeki oturuma merge eder.
//
// Backend güncellenmiş kimliği dönmezse istek alanları yerel kimliğin
// üzerine merge edilir — nil alanlar mevcut değeri korur.
func (s *sessionService) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error) {
	s.mu.RLock()
	current := s.session.User
	s.mu.RUnlock()
	if current == nil {
		return nil, pkg.ErrUnauthorized
	}

	updated, err := s.client.UpdateProfile(ctx, req)
	if err != nil {
		log.Printf("[session] profile update failed: %v", err)
		return nil, err
	}

	if updated == nil {
		merged := *current
		if req.Email != nil {
			merged.Email = *req.Email
		}
		if req.FirstName != nil {
			merged.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			merged.LastName = *req.LastName
		}
		updated = &merged
	}

	s.mu.Lock()
	s.session.User = updated
	s.mu.Unlock()

	if err := s.repo.SaveUser(ctx, updated); err != nil {
		log.Printf("[session] failed to persist updated identity: %v", err)
	}

	s.notifyListeners()
	log.Printf("[session] profile updated for %s", updated.Email)
	return updated, nil
}

// Snapshot, oturumun derin kopyasını döner.
func (s *sessionService) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

func (s *sessionService) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

func (s *sessionService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe, oturum değişimlerine abone olur. Dönen fonksiyon aboneliği
// iptal eder; birden fazla kez çağrılması güvenlidir.
func (s *sessionService) Subscribe(listener SessionListener) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Token, api.TokenSource implementasyonu. api.Client her isteğe bu
// token'ı Authorization header'ı olarak ekler.
func (s *sessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// HandleUnauthorized, backend 401 döndüğünde api.Client tarafından
// çağrılır.
//
// İki guard var:
//   - Oturum yoksa no-op: henüz login olmamış kullanıcının başarısız
//     login denemesi "oturumunuz sona erdi" bildirimi ÜRETMEZ.
//   - Aynı oturum için expiry akışı bir kez çalışır: paralel isteklerin
//     hepsi 401 dönse bile kullanıcı tek bildirim görür.
func (s *sessionService) HandleUnauthorized() {
	s.mu.Lock()
	if !s.session.Authenticated() || s.expiredOnce {
		s.mu.Unlock()
		return
	}
	s.expiredOnce = true
	s.mu.Unlock()

	s.expire()
}

// Close, expiry watcher'ı durdurur. Process çıkışında çağrılır.
func (s *sessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopWatcherLocked()
}

// --- internal ---

// userFacing, bir hatadan kullanıcıya gösterilecek mesajı seçer:
// timeout/ulaşılamazlık için ağ mesajları, backend hatası için backend'in
// mesajı, yoksa verilen fallback.
func userFacing(loc *i18n.Localizer, err error, fallback string) string {
	switch {
	case errors.Is(err, pkg.ErrTimeout):
		return loc.T("net.timeout")
	case errors.Is(err, pkg.ErrUnavailable):
		return loc.T("net.unavailable")
	default:
		return api.UserMessage(err, fallback)
	}
}

// expire, oturumu süresi dolmuş olarak sonlandırır: store temizlenir,
// state anonime döner, kullanıcı bilgilendirilir.
func (s *sessionService) expire() {
	log.Println("[session] session expired")
	s.clearStore(context.Background())
	s.clearSession()
	s.notifier.Notify(notify.SeverityWarning, s.loc.T("auth.sessionExpired"))
}

// setSession, oturumu kurar, expiredOnce'ı sıfırlar ve watcher'ı
// (yeniden) başlatır.
func (s *sessionService) setSession(user *models.User, token string, expiresAt time.Time) {
	s.mu.Lock()
	s.session = models.Session{User: user, Token: token, ExpiresAt: expiresAt}
	s.expiredOnce = false
	s.stopWatcherLocked()
	stop := make(chan struct{})
	s.watchStop = stop
	s.mu.Unlock()

	go s.watchExpiry(stop)
	s.notifyListeners()
}

// clearSession, oturumu anonim state'e döndürür ve watcher'ı durdurur.
func (s *sessionService) clearSession() {
	s.mu.Lock()
	s.session = models.Session{}
	s.stopWatcherLocked()
	s.mu.Unlock()

	s.notifyListeners()
}

// stopWatcherLocked: çağıran s.mu'yu tutuyor olmalı.
func (s *sessionService) stopWatcherLocked() {
	if s.watchStop != nil {
		close(s.watchStop)
		s.watchStop = nil
	}
}

// clearStore, kalıcı credential kaydını siler. Hata oturum akışını
// durdurmaz, sadece loglanır.
func (s *sessionService) clearStore(ctx context.Context) {
	if err := s.repo.Clear(ctx); err != nil {
		log.Printf("[session] failed to clear credential store: %v", err)
	}
}

func (s *sessionService) finishLoading() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	s.notifyListeners()
}

// notifyListeners, kayıtlı tüm listener'ları o anki snapshot ile çağırır.
func (s *sessionService) notifyListeners() {
	s.mu.RLock()
	snapshot := s.session.Clone()
	listeners := make([]SessionListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// watchExpiry, token süresini periyodik kontrol eder. 401 hiç gelmese
// bile (kullanıcı istek atmıyorsa) süre dolumunu yakalar.
func (s *sessionService) watchExpiry(stop chan struct{}) {
	ticker := time.NewTicker(expiryCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			if !s.session.Authenticated() || s.expiredOnce {
				s.mu.Unlock()
				return
			}
			if time.Now().Before(s.session.ExpiresAt) {
				s.mu.Unlock()
				continue
			}
			s.expiredOnce = true
			s.mu.Unlock()

			s.expire()
			return
		case <-stop:
			return
		}
	}
}
