package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jahongirdev1/med333-sub000/config"
	"github.com/jahongirdev1/med333-sub000/models"
	"github.com/jahongirdev1/med333-sub000/remote"
	"github.com/jahongirdev1/med333-sub000/utils"
	"github.com/sirupsen/logrus"
)

// ErrSessionExpired marks a teardown detected by the session clock rather
// than a request failure. Once surfaced, no in-flight result for that
// principal may be trusted.
var ErrSessionExpired = errors.New("session expired")

// SessionManager owns the session lifecycle: init on login, re-stamp on
// heartbeat, teardown on logout or detected expiry.
type SessionManager struct {
	store  *models.SessionStore
	client *remote.Client
	logger *logrus.Logger
}

func NewSessionManager(store *models.SessionStore, client *remote.Client, logger *logrus.Logger) *SessionManager {
	return &SessionManager{store: store, client: client, logger: logger}
}

func (m *SessionManager) Store() *models.SessionStore {
	return m.store
}

// Login delegates credential verification to the remote system and seeds
// a fresh SessionRecord from the principal it returns.
func (m *SessionManager) Login(ctx context.Context, login, password string) (*models.LoginInfo, error) {
	principal, err := m.client.Login(ctx, login, password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := models.SessionRecord{
		Token:           uuid.NewString(),
		UserId:          principal.ID,
		Login:           principal.Login,
		Name:            principal.Name,
		Role:            principal.Role,
		BranchId:        principal.BranchId,
		LoginTime:       now.UnixMilli(),
		SessionDuration: config.SessionHours(),
	}
	if err := m.store.Put(record); err != nil {
		return nil, err
	}

	return &models.LoginInfo{
		Token:     record.Token,
		Name:      record.Name,
		Role:      record.Role,
		BranchId:  record.BranchId,
		ExpiresIn: int64(record.TimeLeft(now).Seconds()),
	}, nil
}

func (m *SessionManager) Logout(ctx context.Context) error {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return utils.NewValidationError("token is required")
	}
	return m.store.Delete(token)
}

// Heartbeat is the periodic tick: invalid sessions are torn down, valid
// ones are re-stamped so continued activity extends the window
// indefinitely (sliding expiration, not absolute).
func (m *SessionManager) Heartbeat(token string, now time.Time) (models.SessionRecord, error) {
	record, ok := m.store.Get(token)
	if !ok {
		return models.SessionRecord{}, ErrSessionExpired
	}
	if !record.IsValid(now) {
		if err := m.store.Delete(token); err != nil {
			config.LogError(m.logger, "sessionWorkflow", "Heartbeat", "teardown expired session", record.Login, err)
		}
		return models.SessionRecord{}, ErrSessionExpired
	}
	refreshed, ok := m.store.Touch(token, now)
	if !ok {
		return models.SessionRecord{}, ErrSessionExpired
	}
	return refreshed, nil
}

// Run sweeps expired sessions on a fixed interval until the context is
// cancelled. Cancellation on shutdown guarantees no stale tick fires
// after the principals are gone.
func (m *SessionManager) Run(ctx context.Context) {
	interval := config.HeartbeatInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}

// Sweep tears down every session whose window has run out.
func (m *SessionManager) Sweep(now time.Time) {
	for _, record := range m.store.Snapshot() {
		if record.IsValid(now) {
			continue
		}
		if err := m.store.Delete(record.Token); err != nil {
			config.LogError(m.logger, "sessionWorkflow", "sweep", "teardown expired session", record.Login, err)
		}
	}
}
