package models

import "time"

// Session, çalışan client'a bağlı kimlik doğrulanmış oturumu temsil eder.
//
// Invariant: User, ancak ve ancak bir token varsa VE süresi dolmamışsa
// nil değildir. Oturum durumunun tek otoritesi SessionService'tir —
// diğer bileşenler yalnızca kopya (snapshot) okur.
type Session struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

// Authenticated, oturumun geçerli olup olmadığını döner.
func (s *Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// Clone, oturumun bağımsız bir kopyasını döner.
// Listener'lara ve Snapshot() çağıranlara hep kopya verilir —
// servis dışından in-memory state mutate edilemez.
func (s *Session) Clone() Session {
	out := Session{Token: s.Token, ExpiresAt: s.ExpiresAt}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
