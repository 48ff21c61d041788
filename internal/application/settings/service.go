package settings

import "sync/atomic"

// Settings is the process-wide backend selection state: the reasoning
// credential and the operator's forced-fallback toggle. Replaced as a
// whole on update; every compliance check reads the latest committed
// value through Current.
type Settings struct {
	APIKey      string
	UseFallback bool
}

// HasCredential reports whether a live reasoning credential is configured.
func (s Settings) HasCredential() bool { return s.APIKey != "" }

// View is the administrative read shape. The credential itself is never
// exposed, only masked presence.
type View struct {
	HasCredential bool   `json:"hasCredential"`
	APIKey        string `json:"apiKey"`
	UseFallback   bool   `json:"useFallback"`
}

// Service holds Settings behind an atomic swap so concurrent checks read
// without locking. Updates take effect for the next check, not for any
// with an already-selected backend.
type Service struct {
	v atomic.Value
}

func NewService(initial Settings) *Service {
	s := &Service{}
	s.v.Store(initial)
	return s
}

// Current returns the latest committed settings.
func (s *Service) Current() Settings {
	return s.v.Load().(Settings)
}

// Update applies a partial update and atomically replaces the settings
// object. Nil fields keep their current value.
func (s *Service) Update(apiKey *string, useFallback *bool) Settings {
	cur := s.Current()
	if apiKey != nil {
		cur.APIKey = *apiKey
	}
	if useFallback != nil {
		cur.UseFallback = *useFallback
	}
	s.v.Store(cur)
	return cur
}

// CurrentView returns the masked administrative view.
func (s *Service) CurrentView() View {
	cur := s.Current()
	masked := ""
	if cur.HasCredential() {
		masked = "*****"
	}
	return View{HasCredential: cur.HasCredential(), APIKey: masked, UseFallback: cur.UseFallback}
}
