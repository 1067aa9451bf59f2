package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/V4T54L/leatherstore/internal/domain"
)

// MockUserRepository is an in-memory domain.UserRepository for testing.
type MockUserRepository struct {
	mu        sync.Mutex
	Users     map[int64]*domain.User
	nextID    int64
	CreateErr error
	GetErr    error
	UpdateErr error
	DeleteErr error
}

func NewMockUserRepository(users ...domain.User) *MockUserRepository {
	m := &MockUserRepository{Users: make(map[int64]*domain.User)}
	for _, u := range users {
		u := u
		m.Users[u.ID] = &u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, existing := range m.Users {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	m.Users[u.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, u := range m.Users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if _, ok := m.Users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *u
	m.Users[u.ID] = &stored
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Users, id)
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, filter domain.UserFilter) (domain.Paginated[domain.User], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.Users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return domain.NewPaginated(out, filter.Page, len(out)), nil
}

// MockCatalogRepository is an in-memory domain.ProductRepository and
// domain.CategoryRepository for testing.
type MockCatalogRepository struct {
	mu         sync.Mutex
	Products   map[int64]*domain.Product
	Categories map[int64]*domain.Category
	Views      map[int64]int
	nextID     int64
	ListErr    error
	WriteErr   error
}

func NewMockCatalogRepository(categories []domain.Category, products ...domain.Product) *MockCatalogRepository {
	m := &MockCatalogRepository{
		Products:   make(map[int64]*domain.Product),
		Categories: make(map[int64]*domain.Category),
		Views:      make(map[int64]int),
	}
	for _, c := range categories {
		c := c
		m.Categories[c.ID] = &c
		m.bump(c.ID)
	}
	for _, p := range products {
		p := p
		m.Products[p.ID] = &p
		m.bump(p.ID)
	}
	return m
}

func (m *MockCatalogRepository) bump(id int64) {
	if id > m.nextID {
		m.nextID = id
	}
}

func (m *MockCatalogRepository) List(ctx context.Context, filter domain.ProductFilter) (domain.Paginated[domain.Product], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return domain.Paginated[domain.Product]{}, m.ListErr
	}
	var out []domain.Product
	for _, p := range m.Products {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.CategorySlug != "" {
			c, ok := m.Categories[p.CategoryID]
			if !ok || c.Slug != filter.CategorySlug {
				continue
			}
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := len(out)
	start := min(filter.Page.Offset(), total)
	end := min(start+filter.Page.Size, total)
	return domain.NewPaginated(out[start:end], filter.Page, total), nil
}

func (m *MockCatalogRepository) Latest(ctx context.Context, limit int) ([]domain.Product, error) {
	page, err := m.List(ctx, domain.ProductFilter{ActiveOnly: true, Page: domain.NewPage(1, limit)})
	return page.Items, err
}

// Popular ranks active products by their stored count plus views recorded here.
func (m *MockCatalogRepository) Popular(ctx context.Context, limit int) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []domain.Product
	for _, p := range m.Products {
		if p.IsActive {
			cp := *p
			cp.ViewsCount += m.Views[p.ID]
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ViewsCount != out[j].ViewsCount {
			return out[i].ViewsCount > out[j].ViewsCount
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockCatalogRepository) Active(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []domain.Product
	for _, p := range m.Products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockCatalogRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockCatalogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCatalogRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make(map[int64]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.Products[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

func (m *MockCatalogRepository) Create(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	for _, existing := range m.Products {
		if existing.Slug == p.Slug {
			return domain.ErrDuplicate
		}
	}
	m.nextID++
	p.ID = m.nextID
	stored := *p
	m.Products[p.ID] = &stored
	return nil
}

func (m *MockCatalogRepository) Update(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if _, ok := m.Products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *p
	m.Products[p.ID] = &stored
	return nil
}

func (m *MockCatalogRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if _, ok := m.Products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Products, id)
	return nil
}

func (m *MockCatalogRepository) IncrementViews(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Views[id]++
	return nil
}

// Categories returns a domain.CategoryRepository view over the same data.
func (m *MockCatalogRepository) CategoryRepository() domain.CategoryRepository {
	return mockCategories{m}
}

type mockCategories struct{ m *MockCatalogRepository }

func (c mockCategories) List(ctx context.Context) ([]domain.Category, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	out := make([]domain.Category, 0, len(c.m.Categories))
	for _, cat := range c.m.Categories {
		out = append(out, *cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c mockCategories) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	cat, ok := c.m.Categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *cat
	return &cp, nil
}

func (c mockCategories) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	for _, cat := range c.m.Categories {
		if cat.Slug == slug {
			cp := *cat
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (c mockCategories) Create(ctx context.Context, cat *domain.Category) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if c.m.WriteErr != nil {
		return c.m.WriteErr
	}
	for _, existing := range c.m.Categories {
		if existing.Slug == cat.Slug || existing.Name == cat.Name {
			return domain.ErrDuplicate
		}
	}
	c.m.nextID++
	cat.ID = c.m.nextID
	stored := *cat
	c.m.Categories[cat.ID] = &stored
	return nil
}

func (c mockCategories) Update(ctx context.Context, cat *domain.Category) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if _, ok := c.m.Categories[cat.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *cat
	c.m.Categories[cat.ID] = &stored
	return nil
}

func (c mockCategories) Delete(ctx context.Context, id int64) error {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if _, ok := c.m.Categories[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range c.m.Products {
		if p.CategoryID == id {
			return domain.ErrCategoryInUse
		}
	}
	delete(c.m.Categories, id)
	return nil
}

// MockOrderRepository is an in-memory domain.OrderRepository. Create
// decrements stock on the shared catalog mock when one is attached.
type MockOrderRepository struct {
	mu        sync.Mutex
	Orders    map[int64]*domain.Order
	Catalog   *MockCatalogRepository
	nextID    int64
	CreateErr error
}

func NewMockOrderRepository(catalog *MockCatalogRepository) *MockOrderRepository {
	return &MockOrderRepository{Orders: make(map[int64]*domain.Order), Catalog: catalog}
}

func (m *MockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if m.Catalog != nil {
		m.Catalog.mu.Lock()
		defer m.Catalog.mu.Unlock()
		for _, item := range o.Items {
			p, ok := m.Catalog.Products[item.ProductID]
			if !ok {
				return domain.ErrProductUnavailable
			}
			if err := p.Available(item.Quantity); err != nil {
				return err
			}
		}
		for i, item := range o.Items {
			p := m.Catalog.Products[item.ProductID]
			p.StockQuantity -= item.Quantity
			o.Items[i].Price = p.Price
			o.Items[i].ProductName = p.Name
		}
	}
	o.TotalAmount = 0
	for _, item := range o.Items {
		o.TotalAmount += item.Total()
	}
	m.nextID++
	o.ID = m.nextID
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		o.Items[i].ID = int64(i + 1)
	}
	stored := *o
	stored.Items = append([]domain.OrderItem(nil), o.Items...)
	m.Orders[o.ID] = &stored
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.Orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64, page domain.Page) (domain.Paginated[domain.Order], error) {
	return m.List(ctx, domain.OrderFilter{UserID: userID, Page: page})
}

func (m *MockOrderRepository) List(ctx context.Context, filter domain.OrderFilter) (domain.Paginated[domain.Order], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.Orders {
		if filter.UserID != 0 && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		cp := *o
		cp.Items = nil
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return domain.NewPaginated(out, filter.Page, len(out)), nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.Orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}
