package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

// AdminUseCase backs the back office. Role checks happen at the HTTP layer;
// the rules enforced here hold regardless of who calls.
type AdminUseCase struct {
	users      domain.UserRepository
	categories domain.CategoryRepository
	products   domain.ProductRepository
	orders     domain.OrderRepository
	posts      domain.BlogRepository
	content    domain.ContentRepository
	slides     domain.HeroSlideRepository
	messages   domain.MessageRepository
	dashboard  domain.DashboardRepository
	auth       *AuthUseCase
	actions    *logger.ActionLogger
	now        func() time.Time
}

// AdminRepositories groups the repositories the back office needs.
type AdminRepositories struct {
	Users      domain.UserRepository
	Categories domain.CategoryRepository
	Products   domain.ProductRepository
	Orders     domain.OrderRepository
	Posts      domain.BlogRepository
	Content    domain.ContentRepository
	Slides     domain.HeroSlideRepository
	Messages   domain.MessageRepository
	Dashboard  domain.DashboardRepository
}

func NewAdminUseCase(repos AdminRepositories, auth *AuthUseCase, actions *logger.ActionLogger) *AdminUseCase {
	return &AdminUseCase{
		users:      repos.Users,
		categories: repos.Categories,
		products:   repos.Products,
		orders:     repos.Orders,
		posts:      repos.Posts,
		content:    repos.Content,
		slides:     repos.Slides,
		messages:   repos.Messages,
		dashboard:  repos.Dashboard,
		auth:       auth,
		actions:    actions,
		now:        time.Now,
	}
}

// Dashboard returns the back office counters. User and content counts are
// shown to administrators only.
func (uc *AdminUseCase) Dashboard(ctx context.Context, viewer *domain.User) (domain.DashboardStats, error) {
	stats, err := uc.dashboard.Stats(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	if !viewer.IsAdmin() {
		stats.Users = 0
		stats.BlogPosts = 0
	}
	return stats, nil
}

// ---- users ----

func (uc *AdminUseCase) Users(ctx context.Context, filter domain.UserFilter) (domain.Paginated[domain.User], error) {
	return uc.users.List(ctx, filter)
}

func (uc *AdminUseCase) User(ctx context.Context, id int64) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

// UserUpdate is the admin user form. An empty Password keeps the current one.
type UserUpdate struct {
	Email    string
	FullName string
	Phone    string
	Address  string
	Role     domain.Role
	IsActive bool
	Password string
}

func (uc *AdminUseCase) UpdateUser(ctx context.Context, id int64, in UserUpdate) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if !emailPattern.MatchString(in.Email) {
		return nil, invalid("invalid email address")
	}
	if !in.Role.Valid() {
		return nil, invalid("unknown role %q", in.Role)
	}
	if in.Password != "" && len(in.Password) < minRegisterPasswordLen {
		return nil, invalid("password must be at least %d characters", minRegisterPasswordLen)
	}

	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	action := logger.Action{
		Name:       ActionUserUpdate,
		EntityType: EntityUser,
		EntityID:   id,
		Extra:      map[string]any{"role": string(in.Role), "is_active": in.IsActive, "previous_role": string(user.Role)},
	}
	err = uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		user.Email, user.FullName, user.Phone, user.Address = in.Email, in.FullName, in.Phone, in.Address
		user.Role, user.IsActive = in.Role, in.IsActive
		if in.Password != "" {
			hash, err := uc.auth.HashPassword(in.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
			o.Set("credentials_reset", true)
		}
		return uc.users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account. Administrators cannot delete themselves.
func (uc *AdminUseCase) DeleteUser(ctx context.Context, actorID, id int64) error {
	return uc.actions.Perform(ctx, logger.Action{Name: ActionUserDelete, EntityType: EntityUser, EntityID: id},
		func(ctx context.Context, o *logger.Outcome) error {
			if actorID == id {
				return logger.Refuse(ReasonSelfDelete, ErrSelfDelete)
			}
			return uc.users.Delete(ctx, id)
		})
}

// ---- categories ----

func (uc *AdminUseCase) Categories(ctx context.Context) ([]domain.Category, error) {
	return uc.categories.List(ctx)
}

// CategoryInput is the category form. The slug is derived from the name.
type CategoryInput struct {
	Name        string
	Description string
}

func (in *CategoryInput) validate() (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	slug := domain.Slugify(in.Name)
	if slug == "" {
		return "", invalid("category name is required")
	}
	return slug, nil
}

func (uc *AdminUseCase) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	slug, err := in.validate()
	if err != nil {
		return nil, err
	}
	c := &domain.Category{Name: in.Name, Slug: slug, Description: in.Description}
	err = uc.actions.Perform(ctx, logger.Action{Name: ActionCategoryCreate, Extra: map[string]any{"name": c.Name}},
		func(ctx context.Context, o *logger.Outcome) error {
			if err := uc.categories.Create(ctx, c); err != nil {
				return err
			}
			o.SetEntity(EntityCategory, c.ID)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *AdminUseCase) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error) {
	slug, err := in.validate()
	if err != nil {
		return nil, err
	}
	c := &domain.Category{ID: id, Name: in.Name, Slug: slug, Description: in.Description}
	err = uc.actions.Perform(ctx, logger.Action{Name: ActionCategoryUpdate, EntityType: EntityCategory, EntityID: id},
		func(ctx context.Context, o *logger.Outcome) error {
			return uc.categories.Update(ctx, c)
		})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses while products still reference the category.
func (uc *AdminUseCase) DeleteCategory(ctx context.Context, id int64) error {
	return uc.actions.Perform(ctx, logger.Action{Name: ActionCategoryDelete, EntityType: EntityCategory, EntityID: id},
		func(ctx context.Context, o *logger.Outcome) error {
			return refuse(uc.categories.Delete(ctx, id))
		})
}

// ---- products ----

// Products lists every product including inactive ones.
func (uc *AdminUseCase) Products(ctx context.Context, page int, search string) (domain.Paginated[domain.Product], error) {
	return uc.products.List(ctx, domain.ProductFilter{Search: search, Page: domain.NewPage(page, domain.AdminPageSize)})
}

func (uc *AdminUseCase) Product(ctx context.Context, id int64) (*domain.Product, error) {
	return uc.products.GetByID(ctx, id)
}

// ProductInput is the product form. The slug is derived from the name.
type ProductInput struct {
	Name             string
	Description      string
	ShortDescription string
	Price            domain.Money
	StockQuantity    int
	ImageURL         string
	IsActive         bool
	CategoryID       int64
}

func (in *ProductInput) apply(p *domain.Product) error {
	in.Name = strings.TrimSpace(in.Name)
	slug := domain.Slugify(in.Name)
	switch {
	case slug == "":
		return invalid("product name is required")
	case in.Price < 0:
		return invalid("price cannot be negative")
	case in.StockQuantity < 0:
		return invalid("stock quantity cannot be negative")
	case in.CategoryID <= 0:
		return invalid("category is required")
	}
	p.Name, p.Slug = in.Name, slug
	p.Description = strings.TrimSpace(in.Description)
	p.ShortDescription = strings.TrimSpace(in.ShortDescription)
	p.Price, p.StockQuantity = in.Price, in.StockQuantity
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	p.IsActive, p.CategoryID = in.IsActive, in.CategoryID
	return nil
}

func (uc *AdminUseCase) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if _, err := uc.categories.GetByID(ctx, p.CategoryID); err != nil {
		return nil, invalid("category %d does not exist", p.CategoryID)
	}

	action := logger.Action{
		Name:  ActionProductCreate,
		Extra: map[string]any{"name": p.Name, "price": p.Price.String(), "stock_quantity": p.StockQuantity},
	}
	err := uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		if err := uc.products.Create(ctx, p); err != nil {
			return err
		}
		o.SetEntity(EntityProduct, p.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *AdminUseCase) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*domain.Product, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousPrice := p.Price
	if err := in.apply(p); err != nil {
		return nil, err
	}

	action := logger.Action{
		Name:       ActionProductUpdate,
		EntityType: EntityProduct,
		EntityID:   id,
		Extra:      map[string]any{"price": p.Price.String(), "stock_quantity": p.StockQuantity, "is_active": p.IsActive},
	}
	if previousPrice != p.Price {
		action.Extra["previous_price"] = previousPrice.String()
	}
	err = uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		return uc.products.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *AdminUseCase) DeleteProduct(ctx context.Context, id int64) error {
	return uc.actions.Perform(ctx, logger.Action{Name: ActionProductDelete, EntityType: EntityProduct, EntityID: id},
		func(ctx context.Context, o *logger.Outcome) error {
			return uc.products.Delete(ctx, id)
		})
}

// ---- orders ----

func (uc *AdminUseCase) Orders(ctx context.Context, filter domain.OrderFilter) (domain.Paginated[domain.Order], error) {
	return uc.orders.List(ctx, filter)
}

func (uc *AdminUseCase) Order(ctx context.Context, id int64) (*domain.Order, error) {
	return uc.orders.GetByID(ctx, id)
}

func (uc *AdminUseCase) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	if !status.Valid() {
		return invalid("unknown order status %q", status)
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	action := logger.Action{
		Name:       ActionOrderStatusUpdate,
		EntityType: EntityOrder,
		EntityID:   id,
		Extra:      map[string]any{"old_status": string(order.Status), "new_status": string(status)},
	}
	return uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		return uc.orders.UpdateStatus(ctx, id, status)
	})
}
