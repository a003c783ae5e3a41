package bot

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"menu-bot/models"
	"menu-bot/services"
)

type checkoutStep int

const (
	stepNone checkoutStep = iota
	stepName
	stepPhone
)

// session is one customer's state: cart, language, current view and
// checkout progress. Guarded by mu.
type session struct {
	mu   sync.Mutex
	cart *services.Cart
	lang models.Language

	viewCategory string // "" = all
	viewQuery    string

	step checkoutStep
	name string
}

// LanguagePrefs remembers a customer's language across restarts.
// *services.CustomerLanguages implements it.
type LanguagePrefs interface {
	GetLanguage(ctx context.Context, tgUserID int64) (models.Language, bool, error)
	SetLanguage(ctx context.Context, tgUserID int64, l models.Language) error
}

type sessionStore struct {
	mu    sync.Mutex
	m     map[int64]*session
	prefs LanguagePrefs // optional
}

func newSessionStore() *sessionStore {
	return &sessionStore{m: make(map[int64]*session)}
}

// get returns the user's session. A new session takes the saved language,
// then the Telegram client language when it is one of ours, then the default.
func (s *sessionStore) get(ctx context.Context, userID int64, clientLang string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.m[userID]; ok {
		return sess
	}
	l, err := models.ParseLanguage(clientLang)
	if err != nil {
		l = models.DefaultLanguage
	}
	if s.prefs != nil {
		saved, ok, err := s.prefs.GetLanguage(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("failed to load customer language")
		} else if ok {
			l = saved
		}
	}
	sess := &session{cart: services.NewCart(), lang: l}
	s.m[userID] = sess
	return sess
}

// rememberLanguage saves l for userID when prefs are configured.
func (s *sessionStore) rememberLanguage(ctx context.Context, userID int64, l models.Language) {
	if s.prefs == nil {
		return
	}
	if err := s.prefs.SetLanguage(ctx, userID, l); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("failed to save customer language")
	}
}

func (s *session) resetCheckout() {
	s.step = stepNone
	s.name = ""
}
