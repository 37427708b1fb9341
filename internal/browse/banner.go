package browse

import (
	"sync"
	"time"
)

const DefaultBannerTTL = 5 * time.Second

type Kind string

const (
	KindInfo  Kind = "info"
	KindError Kind = "error"
)

type Notice struct {
	Kind    Kind
	Message string
	Shown   time.Time
}

// Banner holds the latest inline notice until it expires or is dismissed.
type Banner struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	notice *Notice
}

func NewBanner(ttl time.Duration) *Banner {
	if ttl <= 0 {
		ttl = DefaultBannerTTL
	}
	return &Banner{ttl: ttl, now: time.Now}
}

func (b *Banner) Show(kind Kind, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notice = &Notice{Kind: kind, Message: msg, Shown: b.now()}
}

func (b *Banner) Dismiss() {
	b.mu.Lock()
	b.notice = nil
	b.mu.Unlock()
}

// Current returns the active notice, if any.
func (b *Banner) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.notice == nil {
		return Notice{}, false
	}
	if b.now().Sub(b.notice.Shown) >= b.ttl {
		b.notice = nil
		return Notice{}, false
	}
	return *b.notice, true
}
