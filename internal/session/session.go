// Package session is the single authority for the authenticated-user
// state: login, logout, idle-timeout enforcement and the expiry
// notification stream. The manager is a constructed object with injected
// storage, gateway and clock so tests can supply fakes.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/akhaled-dev/restodesk/internal/kvstore"
	"github.com/akhaled-dev/restodesk/internal/models"
	"github.com/akhaled-dev/restodesk/internal/rpc"
	"go.uber.org/zap"
)

const (
	// userKey is the durable key holding the JSON-serialized AppUser.
	userKey = "app_user"
	// lastActivityKey is the durable key holding the stringified
	// epoch-millis of the last observed activity.
	lastActivityKey = "app_user_last_activity"

	// DefaultTimeout is the idle window after which a session expires.
	DefaultTimeout = 2 * time.Hour
)

// ErrInvalidCredentials is returned when the backend rejects a login
// without supplying its own message.
var ErrInvalidCredentials = errors.New("بيانات الاعتماد غير صالحة")

// nationalNumberPattern detects identifiers that look like a national
// identification number rather than a username.
var nationalNumberPattern = regexp.MustCompile(`^\d{5,}$`)

// Manager owns the session state machine: Anonymous or Authenticated.
type Manager struct {
	mu      sync.Mutex
	store   kvstore.Store
	rpc     rpc.Caller
	clock   Clock
	log     *zap.Logger
	timeout time.Duration

	user   *models.AppUser
	timer  Timer
	onUser []func(*models.AppUser)

	// expired carries at most one pending expiry notification; the
	// session emits exactly once per authenticated period.
	expired chan struct{}
}

// NewManager restores the session from the durable store: a persisted
// user with a fresh activity timestamp resumes Authenticated with the
// remaining window armed; a stale one is cleaned up silently, since no
// listener can have subscribed yet. timeout <= 0 selects DefaultTimeout.
func NewManager(store kvstore.Store, caller rpc.Caller, clock Clock, log *zap.Logger, timeout time.Duration) *Manager {
	if clock == nil {
		clock = RealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	m := &Manager{
		store:   store,
		rpc:     caller,
		clock:   clock,
		log:     log,
		timeout: timeout,
		expired: make(chan struct{}, 1),
	}
	m.restore()
	return m
}

func (m *Manager) restore() {
	raw, ok := m.store.Get(userKey)
	if !ok {
		return
	}
	var u models.AppUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		m.store.Remove(userKey)
		m.store.Remove(lastActivityKey)
		return
	}
	now := m.clock.Now()
	last := m.lastActivity()
	// a user record with no readable activity timestamp is orphaned state
	if last.IsZero() || isExpired(now, last, m.timeout) {
		// startup reconciliation, not a runtime transition: no event
		m.cleanupLocked()
		m.log.Info("stale session discarded on startup")
		return
	}
	m.user = &u
	m.armLocked(remaining(now, last, m.timeout))
	m.log.Info("session restored", zap.String("username", u.Username))
}

// authPayload is the tagged reply of the authenticate call.
type authPayload struct {
	Status                  string  `json:"status"`
	Message                 string  `json:"message"`
	UserID                  string  `json:"user_id"`
	Username                string  `json:"username"`
	FullName                string  `json:"full_name"`
	Email                   string  `json:"email"`
	Phone                   string  `json:"phone"`
	NationalNumber          string  `json:"national_number"`
	IsActive                bool    `json:"is_active"`
	BaseSalary              float64 `json:"base_salary"`
	OfficialOffDaysPerMonth int     `json:"official_off_days_per_month"`
}

// Login authenticates the identifier/passcode pair. Identifiers that look
// like a national number are first resolved to a username; a failed
// resolution is non-fatal and the raw identifier is used as the username.
func (m *Manager) Login(ctx context.Context, identifier, passcode string) (*models.AppUser, error) {
	username := strings.TrimSpace(identifier)
	if nationalNumberPattern.MatchString(username) {
		if resolved := m.resolveUsername(ctx, username); resolved != "" {
			username = resolved
		}
	}

	data, callErr := m.rpc.Call(ctx, "auth_admin", map[string]any{
		"p_username": username,
		"p_passcode": passcode,
	})
	if callErr != nil {
		return nil, callErr
	}

	payload, err := decodeAuthPayload(data)
	if err != nil {
		return nil, err
	}
	if payload.Status != "success" {
		if payload.Message != "" {
			return nil, errors.New(payload.Message)
		}
		return nil, ErrInvalidCredentials
	}

	user := &models.AppUser{
		ID:                      payload.UserID,
		Username:                payload.Username,
		FullName:                payload.FullName,
		Email:                   payload.Email,
		Phone:                   payload.Phone,
		NationalNumber:          payload.NationalNumber,
		IsActive:                payload.IsActive,
		BaseSalary:              payload.BaseSalary,
		OfficialOffDaysPerMonth: payload.OfficialOffDaysPerMonth,
	}

	m.mu.Lock()
	m.persistUserLocked(user)
	m.setActivityLocked(m.clock.Now())
	m.armLocked(m.timeout)
	m.user = user
	handlers := m.userHandlersLocked()
	m.mu.Unlock()

	m.log.Info("login succeeded", zap.String("username", user.Username))
	notify(handlers, user)
	return user, nil
}

// resolveUsername maps a national number to a username. Lookup errors are
// swallowed on purpose; the caller falls back to the raw identifier.
func (m *Manager) resolveUsername(ctx context.Context, nationalNumber string) string {
	data, callErr := m.rpc.Call(ctx, "users_get_by_national_number", map[string]any{
		"_national_number": nationalNumber,
	})
	if callErr != nil {
		m.log.Debug("username resolution failed", zap.String("error", callErr.Message))
		return ""
	}
	var row struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(data, &row); err != nil || row.Username == "" {
		// reply may be a one-element array
		var rows []struct {
			Username string `json:"username"`
		}
		if err := json.Unmarshal(data, &rows); err != nil || len(rows) == 0 {
			return ""
		}
		return rows[0].Username
	}
	return row.Username
}

// Logout ends the session explicitly: clears persisted state, cancels the
// pending timer and publishes nil on the current-user stream.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.cleanupLocked()
	handlers := m.userHandlersLocked()
	m.mu.Unlock()
	m.log.Info("logged out")
	notify(handlers, nil)
}

// NotifyActivity refreshes the idle window. It is a no-op while anonymous
// and deliberately does not resurrect an already-expired session.
func (m *Manager) NotifyActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return
	}
	now := m.clock.Now()
	if isExpired(now, m.lastActivity(), m.timeout) {
		// stale session; the timer or the next state read cleans up
		return
	}
	m.setActivityLocked(now)
	m.armLocked(m.timeout)
}

// IsLoggedIn reports whether a live session exists, expiring a stale one
// as a side effect of the read.
func (m *Manager) IsLoggedIn() bool {
	return m.CurrentUser() != nil
}

// CurrentUser returns a copy of the authenticated user, or nil. A stale
// session is expired (event emitted, state cleared) before answering.
func (m *Manager) CurrentUser() *models.AppUser {
	m.mu.Lock()
	var handlers []func(*models.AppUser)
	if m.user != nil && isExpired(m.clock.Now(), m.lastActivity(), m.timeout) {
		m.expireLocked()
		handlers = m.userHandlersLocked()
	}
	u := m.user
	m.mu.Unlock()

	if handlers != nil {
		notify(handlers, nil)
	}
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

// Expired exposes the expiry notification stream: one receive per
// idle-timeout expiry.
func (m *Manager) Expired() <-chan struct{} {
	return m.expired
}

// OnUserChange registers a handler invoked with the new user (nil on
// logout or expiry) after every session transition.
func (m *Manager) OnUserChange(fn func(*models.AppUser)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUser = append(m.onUser, fn)
}

// Timeout returns the configured idle window.
func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

// isExpired is the single authoritative expiry decision, shared by the
// timer callback and every eager state read.
func isExpired(now, last time.Time, window time.Duration) bool {
	if last.IsZero() {
		return false
	}
	return now.Sub(last) >= window
}

func remaining(now, last time.Time, window time.Duration) time.Duration {
	return window - now.Sub(last)
}

// onTimer runs when the armed expiry timer fires. Activity strictly wins:
// if the window was refreshed after this timer was scheduled, the check
// fails and nothing happens.
func (m *Manager) onTimer() {
	m.mu.Lock()
	var handlers []func(*models.AppUser)
	if m.user != nil && isExpired(m.clock.Now(), m.lastActivity(), m.timeout) {
		m.expireLocked()
		handlers = m.userHandlersLocked()
	}
	m.mu.Unlock()
	if handlers != nil {
		notify(handlers, nil)
	}
}

// expireLocked emits the expiry event, then performs logout cleanup.
// Caller holds mu and has verified the session is authenticated and stale.
func (m *Manager) expireLocked() {
	select {
	case m.expired <- struct{}{}:
	default:
	}
	m.cleanupLocked()
	m.log.Info("session expired")
}

// cleanupLocked clears persisted and in-memory session state and cancels
// any pending timer. Caller holds mu (or is the constructor).
func (m *Manager) cleanupLocked() {
	m.store.Remove(userKey)
	m.store.Remove(lastActivityKey)
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.user = nil
}

// armLocked replaces any pending timer with a fresh one, so only one
// expiry timer is ever outstanding. Caller holds mu.
func (m *Manager) armLocked(d time.Duration) {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = m.clock.AfterFunc(d, m.onTimer)
}

func (m *Manager) persistUserLocked(u *models.AppUser) {
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	m.store.Set(userKey, string(data))
}

func (m *Manager) setActivityLocked(t time.Time) {
	m.store.Set(lastActivityKey, strconv.FormatInt(t.UnixMilli(), 10))
}

// lastActivity reads the persisted activity timestamp; zero when absent
// or unparseable.
func (m *Manager) lastActivity() time.Time {
	raw, ok := m.store.Get(lastActivityKey)
	if !ok {
		return time.Time{}
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(millis)
}

func (m *Manager) userHandlersLocked() []func(*models.AppUser) {
	if len(m.onUser) == 0 {
		return nil
	}
	return append(([]func(*models.AppUser))(nil), m.onUser...)
}

// notify runs handlers outside the manager lock so they may call back in.
func notify(handlers []func(*models.AppUser), u *models.AppUser) {
	for _, fn := range handlers {
		fn(u)
	}
}

func decodeAuthPayload(data json.RawMessage) (*authPayload, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, ErrInvalidCredentials
	}
	var payload authPayload
	if err := json.Unmarshal(data, &payload); err == nil && payload.Status != "" {
		return &payload, nil
	}
	// tolerate a one-element array reply
	var list []authPayload
	if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return &list[0], nil
	}
	return nil, ErrInvalidCredentials
}
