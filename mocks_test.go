package tripshare_test

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	tripshare "github.com/goliatone/go-tripshare"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// testConfig implements tripshare.Config
type testConfig struct {
	signingKey     string
	adminEmail     string
	adminPassword  string
	baseURL        string
	legacyDeadline time.Time
	production     bool
}

func newTestConfig() *testConfig {
	return &testConfig{
		signingKey:    "test-signing-key",
		adminEmail:    "admin@example.com",
		adminPassword: "hunter2-hunter2",
		baseURL:       "http://localhost:8080",
	}
}

func (c *testConfig) GetSigningKey() string               { return c.signingKey }
func (c *testConfig) GetAdminEmail() string               { return c.adminEmail }
func (c *testConfig) GetAdminPassword() string            { return c.adminPassword }
func (c *testConfig) GetBaseURL() string                  { return c.baseURL }
func (c *testConfig) GetLegacySessionDeadline() time.Time { return c.legacyDeadline }
func (c *testConfig) IsProduction() bool                  { return c.production }

// nopLogger swallows output in tests
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// recordingMailer captures outbound messages
type recordingMailer struct {
	mu       sync.Mutex
	sent     []sentEmail
	failNext bool
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return context.DeadlineExceeded
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *recordingMailer) last() *sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	return &m.sent[len(m.sent)-1]
}

// memCodes is an in-memory tripshare.VerificationCodes
type memCodes struct {
	mu      sync.Mutex
	records map[uuid.UUID]*tripshare.VerificationCode
}

func newMemCodes() *memCodes {
	return &memCodes{records: map[uuid.UUID]*tripshare.VerificationCode{}}
}

func (m *memCodes) Create(ctx context.Context, record *tripshare.VerificationCode) error {
	return m.CreateTx(ctx, nil, record)
}

func (m *memCodes) CreateTx(_ context.Context, _ bun.IDB, record *tripshare.VerificationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.Email = strings.ToLower(record.Email)
	clone := *record
	m.records[record.ID] = &clone
	return nil
}

func (m *memCodes) Find(_ context.Context, email, code string, purpose tripshare.VerificationPurpose) (*tripshare.VerificationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	for _, r := range m.records {
		if r.Email == email && r.Code == code && r.Purpose == purpose {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memCodes) FindByToken(_ context.Context, token string, purpose tripshare.VerificationPurpose) (*tripshare.VerificationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Code == token && r.Purpose == purpose {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memCodes) ConsumeTx(_ context.Context, _ bun.IDB, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *memCodes) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var swept int64
	for id, r := range m.records {
		if r.ExpiresAt.Before(before) {
			delete(m.records, id)
			swept++
		}
	}
	return swept, nil
}

func (m *memCodes) DeleteExpiredFor(_ context.Context, email string, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	var swept int64
	for id, r := range m.records {
		if r.Email == email && r.ExpiresAt.Before(before) {
			delete(m.records, id)
			swept++
		}
	}
	return swept, nil
}

func (m *memCodes) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// memUsers is an in-memory tripshare.Users
type memUsers struct {
	mu      sync.Mutex
	records map[uuid.UUID]*tripshare.User
}

func newMemUsers() *memUsers {
	return &memUsers{records: map[uuid.UUID]*tripshare.User{}}
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*tripshare.User, error) {
	return m.GetByEmailTx(ctx, nil, email)
}

func (m *memUsers) GetByEmailTx(_ context.Context, _ bun.IDB, email string) (*tripshare.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.records {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) GetOrRegisterTx(_ context.Context, _ bun.IDB, email string) (*tripshare.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	now := time.Now()
	for _, u := range m.records {
		if u.Email == email {
			u.LastLoginAt = &now
			clone := *u
			return &clone, nil
		}
	}
	user := &tripshare.User{
		ID:          uuid.New(),
		Email:       email,
		CreatedAt:   &now,
		LastLoginAt: &now,
	}
	m.records[user.ID] = user
	clone := *user
	return &clone, nil
}

func (m *memUsers) ListAll(_ context.Context) ([]*tripshare.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*tripshare.User
	for _, u := range m.records {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memUsers) First(_ context.Context) (*tripshare.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var first *tripshare.User
	for _, u := range m.records {
		if first == nil || u.CreatedAt.Before(*first.CreatedAt) {
			first = u
		}
	}
	if first == nil {
		return nil, sql.ErrNoRows
	}
	clone := *first
	return &clone, nil
}

func (m *memUsers) UpdateDisplayName(_ context.Context, id uuid.UUID, displayName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.records[id]; ok {
		u.DisplayName = strings.TrimSpace(displayName)
	}
	return nil
}

func (m *memUsers) DeleteByIDTx(_ context.Context, _ bun.IDB, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// memItineraries is an in-memory tripshare.Itineraries
type memItineraries struct {
	mu      sync.Mutex
	records map[uuid.UUID]*tripshare.Itinerary
}

func newMemItineraries() *memItineraries {
	return &memItineraries{records: map[uuid.UUID]*tripshare.Itinerary{}}
}

func (m *memItineraries) GetByID(_ context.Context, id uuid.UUID) (*tripshare.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, tripshare.ErrItineraryNotFound
}

func (m *memItineraries) ListPublished(_ context.Context) ([]*tripshare.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*tripshare.Itinerary
	for _, r := range m.records {
		if r.IsPublished {
			clone := *r
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memItineraries) ListAll(_ context.Context) ([]*tripshare.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*tripshare.Itinerary
	for _, r := range m.records {
		clone := *r
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memItineraries) Create(_ context.Context, record *tripshare.Itinerary) (*tripshare.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now()
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}
	record.UpdatedAt = &now
	clone := *record
	m.records[record.ID] = &clone
	return record, nil
}

func (m *memItineraries) Update(_ context.Context, record *tripshare.Itinerary) (*tripshare.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return nil, tripshare.ErrItineraryNotFound
	}
	now := time.Now()
	record.UpdatedAt = &now
	clone := *record
	m.records[record.ID] = &clone
	return record, nil
}

func (m *memItineraries) DeleteByID(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *memItineraries) DeleteByUserTx(_ context.Context, _ bun.IDB, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.records {
		if r.UserID == userID {
			delete(m.records, id)
		}
	}
	return nil
}

func (m *memItineraries) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// memRepoManager bundles the in-memory stores as a tripshare.RepositoryManager.
// RunInTx is pass-through: the fakes have no transaction scope.
type memRepoManager struct {
	users       *memUsers
	itineraries *memItineraries
	codes       *memCodes
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		users:       newMemUsers(),
		itineraries: newMemItineraries(),
		codes:       newMemCodes(),
	}
}

func (m *memRepoManager) Users() tripshare.Users                         { return m.users }
func (m *memRepoManager) Itineraries() tripshare.Itineraries             { return m.itineraries }
func (m *memRepoManager) VerificationCodes() tripshare.VerificationCodes { return m.codes }
func (m *memRepoManager) Validate() error                                { return nil }
func (m *memRepoManager) MustValidate()                                  {}

func (m *memRepoManager) RunInTx(ctx context.Context, _ *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}
