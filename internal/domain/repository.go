package domain

import "context"

// UserRepository persists storefront accounts.
type UserRepository interface {
	// Create inserts u and sets its ID and timestamps. Duplicate usernames or
	// emails yield ErrDuplicate.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter UserFilter) (Paginated[User], error)
}

// CategoryRepository persists catalog categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	// Delete returns ErrCategoryInUse while products still reference the category.
	Delete(ctx context.Context, id int64) error
}

// ProductRepository persists products.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) (Paginated[Product], error)
	Latest(ctx context.Context, limit int) ([]Product, error)
	// Popular returns the most viewed active products.
	Popular(ctx context.Context, limit int) ([]Product, error)
	// Active returns every active product ordered by name.
	Active(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	// FindByIDs returns the products that exist, keyed by id.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
}

// OrderRepository persists orders.
type OrderRepository interface {
	// Create inserts the order and its items and decrements stock in one
	// transaction. It returns ErrInsufficientStock or ErrProductUnavailable
	// without writing anything if any line cannot be fulfilled.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64, page Page) (Paginated[Order], error)
	List(ctx context.Context, filter OrderFilter) (Paginated[Order], error)
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) error
}

// BlogRepository persists blog posts.
type BlogRepository interface {
	List(ctx context.Context, publishedOnly bool, page Page) (Paginated[BlogPost], error)
	Latest(ctx context.Context, limit int) ([]BlogPost, error)
	// Published returns every published post, newest first.
	Published(ctx context.Context) ([]BlogPost, error)
	GetByID(ctx context.Context, id int64) (*BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*BlogPost, error)
	Create(ctx context.Context, p *BlogPost) error
	Update(ctx context.Context, p *BlogPost) error
	Delete(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
}

// HeroSlideRepository persists home page banners.
type HeroSlideRepository interface {
	// ListActive returns active slides ordered by position, then id.
	ListActive(ctx context.Context) ([]HeroSlide, error)
	List(ctx context.Context) ([]HeroSlide, error)
	GetByID(ctx context.Context, id int64) (*HeroSlide, error)
	Create(ctx context.Context, s *HeroSlide) error
	Update(ctx context.Context, s *HeroSlide) error
	Delete(ctx context.Context, id int64) error
}

// ContentRepository persists keyed content blocks.
type ContentRepository interface {
	Get(ctx context.Context, key string) (*ContentBlock, error)
	// GetMany skips keys that do not exist.
	GetMany(ctx context.Context, keys []string) (map[string]ContentBlock, error)
	List(ctx context.Context) ([]ContentBlock, error)
	Upsert(ctx context.Context, b *ContentBlock) error
	Delete(ctx context.Context, key string) error
}

// MessageRepository persists contact form submissions.
type MessageRepository interface {
	Create(ctx context.Context, m *ContactMessage) error
	List(ctx context.Context, page Page) (Paginated[ContactMessage], error)
	GetByID(ctx context.Context, id int64) (*ContactMessage, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// DashboardRepository aggregates back office counters.
type DashboardRepository interface {
	Stats(ctx context.Context) (DashboardStats, error)
}

// CartRepository stores carts per session. A missing cart is an empty cart.
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	Save(ctx context.Context, sessionID string, cart Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// SessionRepository stores login sessions with an expiry.
type SessionRepository interface {
	Create(ctx context.Context, userID int64) (*Session, error)
	// Get returns ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
