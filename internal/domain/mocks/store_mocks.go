package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/V4T54L/leatherstore/internal/domain"
)

// MockSessionRepository is an in-memory domain.SessionRepository.
type MockSessionRepository struct {
	mu        sync.Mutex
	Sessions  map[string]domain.Session
	seq       int
	CreateErr error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{Sessions: make(map[string]domain.Session)}
}

func (m *MockSessionRepository) Create(ctx context.Context, userID int64) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.seq++
	now := time.Now()
	s := domain.Session{ID: fmt.Sprintf("session-%d", m.seq), UserID: userID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	m.Sessions[s.ID] = s
	return &s, nil
}

func (m *MockSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Sessions, id)
	return nil
}

// MockCartRepository is an in-memory domain.CartRepository.
type MockCartRepository struct {
	mu      sync.Mutex
	Carts   map[string]domain.Cart
	SaveErr error
}

func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{Carts: make(map[string]domain.Cart)}
}

func (m *MockCartRepository) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.Carts[sessionID]
	return domain.Cart{Lines: append([]domain.CartLine(nil), c.Lines...)}, nil
}

func (m *MockCartRepository) Save(ctx context.Context, sessionID string, cart domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Carts[sessionID] = domain.Cart{Lines: append([]domain.CartLine(nil), cart.Lines...)}
	return nil
}

func (m *MockCartRepository) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Carts, sessionID)
	return nil
}

// MockContentRepository is an in-memory domain.ContentRepository.
type MockContentRepository struct {
	mu     sync.Mutex
	Blocks map[string]domain.ContentBlock
	Reads  int
	GetErr error
}

func NewMockContentRepository(blocks ...domain.ContentBlock) *MockContentRepository {
	m := &MockContentRepository{Blocks: make(map[string]domain.ContentBlock)}
	for _, b := range blocks {
		m.Blocks[b.Key] = b
	}
	return m
}

func (m *MockContentRepository) Get(ctx context.Context, key string) (*domain.ContentBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	b, ok := m.Blocks[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (m *MockContentRepository) GetMany(ctx context.Context, keys []string) (map[string]domain.ContentBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	out := make(map[string]domain.ContentBlock)
	for _, k := range keys {
		if b, ok := m.Blocks[k]; ok {
			out[k] = b
		}
	}
	return out, nil
}

func (m *MockContentRepository) List(ctx context.Context) ([]domain.ContentBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ContentBlock, 0, len(m.Blocks))
	for _, b := range m.Blocks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MockContentRepository) Upsert(ctx context.Context, b *domain.ContentBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Blocks[b.Key] = *b
	return nil
}

func (m *MockContentRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Blocks[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Blocks, key)
	return nil
}

// MockMessageRepository is an in-memory domain.MessageRepository.
type MockMessageRepository struct {
	mu        sync.Mutex
	Messages  []domain.ContactMessage
	CreateErr error
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	msg.ID = int64(len(m.Messages) + 1)
	msg.CreatedAt = time.Now()
	m.Messages = append(m.Messages, *msg)
	return nil
}

func (m *MockMessageRepository) List(ctx context.Context, page domain.Page) (domain.Paginated[domain.ContactMessage], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]domain.ContactMessage(nil), m.Messages...)
	return domain.NewPaginated(out, page, len(out)), nil
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Messages {
		if m.Messages[i].ID == id {
			msg := m.Messages[i]
			return &msg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Messages {
		if m.Messages[i].ID == id {
			m.Messages[i].IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockMessageRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Messages {
		if m.Messages[i].ID == id {
			m.Messages = append(m.Messages[:i], m.Messages[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// MockBlogRepository is an in-memory domain.BlogRepository.
type MockBlogRepository struct {
	mu     sync.Mutex
	Posts  map[int64]*domain.BlogPost
	Views  map[int64]int
	nextID int64
}

func NewMockBlogRepository(posts ...domain.BlogPost) *MockBlogRepository {
	m := &MockBlogRepository{Posts: make(map[int64]*domain.BlogPost), Views: make(map[int64]int)}
	for _, p := range posts {
		p := p
		m.Posts[p.ID] = &p
		if p.ID > m.nextID {
			m.nextID = p.ID
		}
	}
	return m
}

func (m *MockBlogRepository) List(ctx context.Context, publishedOnly bool, page domain.Page) (domain.Paginated[domain.BlogPost], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.BlogPost
	for _, p := range m.Posts {
		if publishedOnly && !p.IsPublished {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return domain.NewPaginated(out, page, len(out)), nil
}

func (m *MockBlogRepository) Latest(ctx context.Context, limit int) ([]domain.BlogPost, error) {
	page, err := m.List(ctx, true, domain.NewPage(1, limit))
	if len(page.Items) > limit {
		page.Items = page.Items[:limit]
	}
	return page.Items, err
}

// Published relies on List returning every matching post.
func (m *MockBlogRepository) Published(ctx context.Context) ([]domain.BlogPost, error) {
	page, err := m.List(ctx, true, domain.Page{})
	return page.Items, err
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id int64) (*domain.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockBlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockBlogRepository) Create(ctx context.Context, p *domain.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Posts {
		if existing.Slug == p.Slug {
			return domain.ErrDuplicate
		}
	}
	m.nextID++
	p.ID = m.nextID
	stored := *p
	m.Posts[p.ID] = &stored
	return nil
}

func (m *MockBlogRepository) Update(ctx context.Context, p *domain.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Posts[p.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *p
	m.Posts[p.ID] = &stored
	return nil
}

func (m *MockBlogRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Posts, id)
	return nil
}

func (m *MockBlogRepository) IncrementViews(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Views[id]++
	return nil
}

// MockDashboardRepository returns fixed stats.
type MockDashboardRepository struct {
	Result domain.DashboardStats
	Err    error
}

func (m *MockDashboardRepository) Stats(ctx context.Context) (domain.DashboardStats, error) {
	return m.Result, m.Err
}

// MockHeroSlideRepository is an in-memory domain.HeroSlideRepository.
type MockHeroSlideRepository struct {
	mu      sync.Mutex
	Slides  map[int64]*domain.HeroSlide
	nextID  int64
	ListErr error
}

func NewMockHeroSlideRepository(slides ...domain.HeroSlide) *MockHeroSlideRepository {
	m := &MockHeroSlideRepository{Slides: make(map[int64]*domain.HeroSlide)}
	for _, s := range slides {
		s := s
		m.Slides[s.ID] = &s
		if s.ID > m.nextID {
			m.nextID = s.ID
		}
	}
	return m
}

func (m *MockHeroSlideRepository) list(activeOnly bool) ([]domain.HeroSlide, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []domain.HeroSlide
	for _, s := range m.Slides {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockHeroSlideRepository) ListActive(ctx context.Context) ([]domain.HeroSlide, error) {
	return m.list(true)
}

func (m *MockHeroSlideRepository) List(ctx context.Context) ([]domain.HeroSlide, error) {
	return m.list(false)
}

func (m *MockHeroSlideRepository) GetByID(ctx context.Context, id int64) (*domain.HeroSlide, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Slides[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockHeroSlideRepository) Create(ctx context.Context, s *domain.HeroSlide) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	stored := *s
	m.Slides[s.ID] = &stored
	return nil
}

func (m *MockHeroSlideRepository) Update(ctx context.Context, s *domain.HeroSlide) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Slides[s.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *s
	m.Slides[s.ID] = &stored
	return nil
}

func (m *MockHeroSlideRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Slides[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Slides, id)
	return nil
}
