package core

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ageback-backend-go/internal/db"
	"ageback-backend-go/internal/mailer"
	"ageback-backend-go/internal/models"
	"ageback-backend-go/internal/storage"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

// memUsers is an in-memory UserRepository that enforces email uniqueness
// and hands out copies, like a real store.
type memUsers struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	updates int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[string]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Goals = append([]string(nil), u.Goals...)
	c.IssueAreas = append([]string(nil), u.IssueAreas...)
	if u.Attributes != nil {
		c.Attributes = make(map[string]string, len(u.Attributes))
		for k, v := range u.Attributes {
			c.Attributes[k] = v
		}
	}
	if u.ViewedLessons != nil {
		c.ViewedLessons = make(map[models.LessonID]bool, len(u.ViewedLessons))
		for k, v := range u.ViewedLessons {
			c.ViewedLessons[k] = v
		}
	}
	return &c
}

func (r *memUsers) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return db.ErrAlreadyExists
		}
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *memUsers) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return db.ErrNotFound
	}
	r.byID[user.ID] = cloneUser(user)
	r.updates++
	return nil
}

func (r *memUsers) List(context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memUsers) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// memLessons is an in-memory LessonRepository. failGet and failList
// simulate store faults.
type memLessons struct {
	mu       sync.Mutex
	rows     map[models.LessonID]models.Lesson
	failGet  error
	failList error
}

func newMemLessons() *memLessons {
	return &memLessons{rows: make(map[models.LessonID]models.Lesson)}
}

func (r *memLessons) Get(_ context.Context, id models.LessonID) (*models.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet != nil {
		return nil, r.failGet
	}
	l, ok := r.rows[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &l, nil
}

func (r *memLessons) List(context.Context) ([]*models.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList != nil {
		return nil, r.failList
	}
	out := make([]*models.Lesson, 0, len(r.rows))
	for _, l := range r.rows {
		l := l
		out = append(out, &l)
	}
	return out, nil
}

func (r *memLessons) Upsert(_ context.Context, lesson *models.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[lesson.ID] = *lesson
	return nil
}

func (r *memLessons) CreateIfAbsent(_ context.Context, lesson *models.Lesson) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[lesson.ID]; ok {
		return false, nil
	}
	r.rows[lesson.ID] = *lesson
	return true, nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
	fail    error
}

func (r *memAudit) Create(_ context.Context, entry models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// fakeFiles resolves refs from a fixed table. Refs listed in fail return
// an error; everything else not in links is not found.
type fakeFiles struct {
	mu       sync.Mutex
	links    map[string]string
	fail     map[string]bool
	folders  map[string][]models.StoredFile
	uploaded []string
	deleted  []string
	checkErr error
}

func (f *fakeFiles) Link(ctx context.Context, ref string) (string, error) {
	if f.fail[ref] {
		return "", errors.New("provider unreachable")
	}
	if link, ok := f.links[ref]; ok {
		return link, nil
	}
	return "", storage.ErrFileNotFound
}

func (f *fakeFiles) List(_ context.Context, folder string) ([]models.StoredFile, error) {
	files, ok := f.folders[folder]
	if !ok {
		return nil, storage.ErrFileNotFound
	}
	return files, nil
}

func (f *fakeFiles) Upload(_ context.Context, folder, name, contentType string, body io.Reader) (*models.StoredFile, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, folder+"/"+name)
	return &models.StoredFile{ID: "file-" + name, Name: name, MimeType: contentType, Size: int64(len(data))}, nil
}

func (f *fakeFiles) Delete(_ context.Context, ref string) error {
	if _, ok := f.links[ref]; !ok {
		return storage.ErrFileNotFound
	}
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeFiles) Check(context.Context) error { return f.checkErr }

// MockSender implements mailer.Sender for testing
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg mailer.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

// MockGateway implements payment.Gateway for testing
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*models.CheckoutSession)
	return s, args.Error(1)
}

func (m *MockGateway) GetSession(ctx context.Context, sessionID string) (*models.PaymentStatus, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(*models.PaymentStatus)
	return s, args.Error(1)
}

func (m *MockGateway) ParseWebhook(payload []byte, signature string) (*models.PaymentEvent, error) {
	args := m.Called(payload, signature)
	e, _ := args.Get(0).(*models.PaymentEvent)
	return e, args.Error(1)
}

type accountFixture struct {
	users   *memUsers
	audit   *memAudit
	sender  *MockSender
	service AccountService
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	logger := zap.NewNop()
	f := &accountFixture{
		users:  newMemUsers(),
		audit:  &memAudit{},
		sender: &MockSender{},
	}
	notifier := NewNotificationService(f.sender, "AgeBack <postmaster@mg.example.com>", time.Second, logger)
	f.service = NewAccountService(f.users, NewCredentialService(testKey), notifier, NewAuditService(f.audit, logger), logger)
	return f
}

func (f *accountFixture) stored(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	return u
}
