// Package testutil provides shared test utilities, mocks, and fixtures
// for testing the staysync application.
package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"staysync/internal/domain"
)

// Common test errors
var (
	ErrMockNotImplemented = errors.New("mock function not implemented")
	ErrMockStore          = errors.New("mock: store unavailable")
)

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	mu sync.RWMutex

	// Function overrides - set these to customize behavior
	CreateFunc        func(ctx context.Context, user *domain.User) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*domain.User, error)

	// In-memory storage for simple tests
	Users map[string]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository with initialized maps
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Username == user.Username {
			return domain.ErrUsernameExists
		}
		if u.Email == user.Email {
			return domain.ErrEmailExists
		}
	}

	if user.ID == "" {
		user.ID = "user-" + user.Username
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.Users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// MockSessionRepository implements domain.SessionRepository for testing.
// Sessions are keyed by token and stored as copies, like a real store.
type MockSessionRepository struct {
	mu sync.RWMutex

	CreateFunc        func(ctx context.Context, session *domain.Session) error
	GetByTokenFunc    func(ctx context.Context, token string) (*domain.Session, error)
	UpdateFunc        func(ctx context.Context, session *domain.Session) error
	DeleteFunc        func(ctx context.Context, token string) error
	DeleteExpiredFunc func(ctx context.Context) (int64, error)

	Sessions map[string]*domain.Session
}

// NewMockSessionRepository creates a new MockSessionRepository with initialized maps
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		Sessions: make(map[string]*domain.Session),
	}
}

func copySession(s *domain.Session) *domain.Session {
	c := *s
	if s.Flash != nil {
		c.Flash = domain.Flash{}
		for k, v := range s.Flash {
			c.Flash[k] = append([]string(nil), v...)
		}
	}
	return &c
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if session.ID == "" {
		session.ID = nextID("session")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	m.Sessions[session.Token] = copySession(session)
	return nil
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.GetByTokenFunc != nil {
		return m.GetByTokenFunc(ctx, token)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, ok := m.Sessions[token]; ok {
		return copySession(s), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Sessions[session.Token]; !ok {
		return domain.ErrSessionNotFound
	}
	m.Sessions[session.Token] = copySession(session)
	return nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Sessions, token)
	return nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	now := time.Now()
	for token, s := range m.Sessions {
		if s.IsExpired(now) {
			delete(m.Sessions, token)
			n++
		}
	}
	return n, nil
}

// Get returns the stored copy of a session, for assertions
func (m *MockSessionRepository) Get(token string) (*domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.Sessions[token]
	return s, ok
}

// MockListingRepository implements domain.ListingRepository for testing
type MockListingRepository struct {
	mu sync.RWMutex

	ListFunc         func(ctx context.Context, query string) ([]*domain.Listing, error)
	ListByOwnerFunc  func(ctx context.Context, ownerID string) ([]*domain.Listing, error)
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Listing, error)
	CreateFunc       func(ctx context.Context, listing *domain.Listing) error
	UpdateFunc       func(ctx context.Context, id string, input domain.ListingInput) (*domain.Listing, error)
	SetImageFunc     func(ctx context.Context, id string, image domain.Image) error
	DeleteFunc       func(ctx context.Context, id string) (*domain.Listing, error)
	AddReviewFunc    func(ctx context.Context, listingID, reviewID string) error
	RemoveReviewFunc func(ctx context.Context, listingID, reviewID string) error

	Listings map[string]*domain.Listing
	// Order keeps insertion order so List is deterministic
	Order []string
}

func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{
		Listings: make(map[string]*domain.Listing),
	}
}

func (m *MockListingRepository) List(ctx context.Context, query string) ([]*domain.Listing, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, query)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(query)
	var out []*domain.Listing
	for _, id := range m.Order {
		l, ok := m.Listings[id]
		if !ok {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(l.Title), q) ||
			strings.Contains(strings.ToLower(l.Location), q) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.Listing
	for _, id := range m.Order {
		if l, ok := m.Listings[id]; ok && l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if l, ok := m.Listings[id]; ok {
		return l, nil
	}
	return nil, domain.ErrListingNotFound
}

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, listing)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(listing)
	return nil
}

func (m *MockListingRepository) put(listing *domain.Listing) {
	if listing.ID == "" {
		listing.ID = nextID("listing")
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now()
	}
	if _, exists := m.Listings[listing.ID]; !exists {
		m.Order = append(m.Order, listing.ID)
	}
	m.Listings[listing.ID] = listing
}

func (m *MockListingRepository) Update(ctx context.Context, id string, input domain.ListingInput) (*domain.Listing, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, input)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.Listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	l.Title = input.Title
	l.Description = input.Description
	l.Price = input.Price
	l.Location = input.Location
	l.Country = input.Country
	l.UpdatedAt = time.Now()
	return l, nil
}

func (m *MockListingRepository) SetImage(ctx context.Context, id string, image domain.Image) error {
	if m.SetImageFunc != nil {
		return m.SetImageFunc(ctx, id, image)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.Listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	img := image
	l.Image = &img
	return nil
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) (*domain.Listing, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.Listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	delete(m.Listings, id)
	return l, nil
}

func (m *MockListingRepository) InsertMany(ctx context.Context, listings []*domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range listings {
		m.put(l)
	}
	return nil
}

func (m *MockListingRepository) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.Listings))
	m.Listings = make(map[string]*domain.Listing)
	m.Order = nil
	return n, nil
}

func (m *MockListingRepository) AddReview(ctx context.Context, listingID, reviewID string) error {
	if m.AddReviewFunc != nil {
		return m.AddReviewFunc(ctx, listingID, reviewID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.Listings[listingID]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.ReviewIDs = append(l.ReviewIDs, reviewID)
	return nil
}

func (m *MockListingRepository) RemoveReview(ctx context.Context, listingID, reviewID string) error {
	if m.RemoveReviewFunc != nil {
		return m.RemoveReviewFunc(ctx, listingID, reviewID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.Listings[listingID]
	if !ok {
		return domain.ErrListingNotFound
	}
	kept := l.ReviewIDs[:0]
	for _, id := range l.ReviewIDs {
		if id != reviewID {
			kept = append(kept, id)
		}
	}
	l.ReviewIDs = kept
	return nil
}

// MockReviewRepository implements domain.ReviewRepository for testing
type MockReviewRepository struct {
	mu sync.RWMutex

	CreateFunc     func(ctx context.Context, review *domain.Review) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.Review, error)
	DeleteFunc     func(ctx context.Context, id string) error
	DeleteManyFunc func(ctx context.Context, ids []string) (int64, error)

	Reviews map[string]*domain.Review
}

func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		Reviews: make(map[string]*domain.Review),
	}
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, review)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if review.ID == "" {
		review.ID = nextID("review")
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	m.Reviews[review.ID] = review
	return nil
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if r, ok := m.Reviews[id]; ok {
		return r, nil
	}
	return nil, domain.ErrReviewNotFound
}

func (m *MockReviewRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.Review
	for _, id := range ids {
		if r, ok := m.Reviews[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Reviews[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(m.Reviews, id)
	return nil
}

func (m *MockReviewRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if m.DeleteManyFunc != nil {
		return m.DeleteManyFunc(ctx, ids)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := m.Reviews[id]; ok {
			delete(m.Reviews, id)
			n++
		}
	}
	return n, nil
}

// MockMediaStore implements domain.MediaStore in memory
type MockMediaStore struct {
	mu sync.Mutex

	UploadFunc func(ctx context.Context, name, contentType string, body io.Reader) (*domain.Image, error)
	DeleteFunc func(ctx context.Context, filename string) error

	Files   map[string][]byte
	Deleted []string
}

func NewMockMediaStore() *MockMediaStore {
	return &MockMediaStore{Files: make(map[string][]byte)}
}

func (m *MockMediaStore) Upload(ctx context.Context, name, contentType string, body io.Reader) (*domain.Image, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, name, contentType, body)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	filename := nextID("media")
	m.Files[filename] = buf.Bytes()
	return &domain.Image{
		URL:      fmt.Sprintf("https://media.test/upload/%s", filename),
		Filename: filename,
	}, nil
}

func (m *MockMediaStore) Delete(ctx context.Context, filename string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, filename)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Files, filename)
	m.Deleted = append(m.Deleted, filename)
	return nil
}

// DeletedFiles returns a copy of the deleted filenames, in order
func (m *MockMediaStore) DeletedFiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Deleted...)
}

// MockEventPublisher implements domain.EventPublisher and records events
type MockEventPublisher struct {
	mu sync.Mutex

	PublishFunc func(ctx context.Context, event domain.Event) error

	Events []domain.Event
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

// Types returns the types of the published events, in order
func (m *MockEventPublisher) Types() []domain.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EventType, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.Type
	}
	return out
}
