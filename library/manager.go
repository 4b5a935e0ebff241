package library

import (
	"log/slog"
	"time"
)

// LibraryManager wires the screens to one client, token store and router,
// keeping CLI code simple.
type LibraryManager struct {
	db     *Database
	logger *slog.Logger

	Config    Config
	Router    *Router
	Tokens    TokenStore
	Client    *Client
	Dashboard *Dashboard
	Positions *PositionsScreen
	Login     *LoginForm
	Register  *RegisterForm
}

// NewLibraryManager opens (or creates) the state database named by cfg and
// builds the screens. With an empty StatePath the token lives in memory.
func NewLibraryManager(cfg Config, logger *slog.Logger) (*LibraryManager, error) {
	if logger == nil {
		logger = discardLogger()
	}
	lm := &LibraryManager{Config: cfg, logger: logger}

	if cfg.StatePath != "" {
		db, err := NewDatabase(cfg.StatePath)
		if err != nil {
			return nil, err
		}
		lm.db = db
		lm.Tokens = NewTokenStore(db, logger)
	} else {
		lm.Tokens = &MemoryTokenStore{}
	}

	start := RouteLogin
	if _, ok := lm.Tokens.Get(); ok {
		start = RouteDashboard
	}
	lm.Router = NewRouter(start)

	lm.Client = NewClient(cfg.APIBaseURL, lm.Tokens, lm.Router,
		WithLogger(logger), WithRequestTimeout(cfg.RequestTimeout))

	var dashOpts []DashboardOption
	if cfg.InitialSampleData {
		dashOpts = append(dashOpts, WithSampleDataUntilLoaded())
	}
	lm.Dashboard = NewDashboard(lm.Client, dashOpts...)
	lm.Positions = NewPositionsScreen(lm.Client)
	lm.Login = NewLoginForm(lm.Client)
	lm.Register = NewRegisterForm(lm.Client)
	return lm, nil
}

// Close closes the underlying database.
func (lm *LibraryManager) Close() error {
	if lm.db == nil {
		return nil
	}
	return lm.db.Close()
}

// LoggedIn reports whether a token is stored.
func (lm *LibraryManager) LoggedIn() bool {
	_, ok := lm.Tokens.Get()
	return ok
}

// SessionStarted returns when the stored token was saved. It is only known
// for persistent state.
func (lm *LibraryManager) SessionStarted() (time.Time, bool) {
	if lm.db == nil || !lm.LoggedIn() {
		return time.Time{}, false
	}
	ts, ok, err := lm.db.UpdatedAt(TokenKey)
	if err != nil {
		lm.logger.Warn("read session time", "err", err)
		return time.Time{}, false
	}
	return ts, ok
}

// Logout clears the token and returns to the login screen.
func (lm *LibraryManager) Logout() { lm.Dashboard.Logout() }
