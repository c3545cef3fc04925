package middleware

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/locallibrary/internal/config"
)

const sessionKeyFlash = "flash"

// SessionManager wraps scs.SessionManager with the catalog's session data.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager stores sessions in the sessions table of sqlDB, creating
// it when missing.
func NewSessionManager(sqlDB *sql.DB, cfg config.Sessions) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = cfg.Lifetime
	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// Flash queues a message for the next page the client renders.
func (sm *SessionManager) Flash(ctx context.Context, msg string) {
	sm.Put(ctx, sessionKeyFlash, msg)
}

// PopFlash returns and clears the pending flash message.
func (sm *SessionManager) PopFlash(ctx context.Context) string {
	return sm.PopString(ctx, sessionKeyFlash)
}
