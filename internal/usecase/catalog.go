package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/V4T54L/leatherstore/internal/domain"
)

const (
	homeProductCount  = 8
	homeFeaturedCount = 6
	homePostCount     = 3
)

// CatalogUseCase serves the public storefront pages.
type CatalogUseCase struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	posts      domain.BlogRepository
	content    domain.ContentRepository
	slides     domain.HeroSlideRepository
	logger     *slog.Logger
}

func NewCatalogUseCase(products domain.ProductRepository, categories domain.CategoryRepository, posts domain.BlogRepository, content domain.ContentRepository, slides domain.HeroSlideRepository, logger *slog.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		products:   products,
		categories: categories,
		posts:      posts,
		content:    content,
		slides:     slides,
		logger:     logger.With("component", "catalog"),
	}
}

// HomePage is the landing page data.
type HomePage struct {
	HeroSlides  []domain.HeroSlide    `json:"hero_slides"`
	USP         []domain.ContentBlock `json:"usp"`
	Featured    []domain.Product      `json:"featured"`
	Products    []domain.Product      `json:"products"`
	Posts       []domain.BlogPost     `json:"posts"`
	SocialLinks map[string]string     `json:"social_links"`
}

func (uc *CatalogUseCase) Home(ctx context.Context) (*HomePage, error) {
	slides, err := uc.slides.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	featured, err := uc.products.Popular(ctx, homeFeaturedCount)
	if err != nil {
		return nil, err
	}
	products, err := uc.products.Latest(ctx, homeProductCount)
	if err != nil {
		return nil, err
	}
	posts, err := uc.posts.Latest(ctx, homePostCount)
	if err != nil {
		return nil, err
	}
	return &HomePage{
		HeroSlides:  orEmpty(slides),
		USP:         uc.sellingPoints(ctx),
		Featured:    orEmpty(featured),
		Products:    orEmpty(products),
		Posts:       orEmpty(posts),
		SocialLinks: uc.SocialLinks(ctx),
	}, nil
}

// sellingPoints returns the USP blocks that exist, in display order. Lookup
// failures degrade to none.
func (uc *CatalogUseCase) sellingPoints(ctx context.Context) []domain.ContentBlock {
	blocks, err := uc.content.GetMany(ctx, domain.USPKeys)
	if err != nil {
		uc.logger.WarnContext(ctx, "failed to load selling points", "error", err)
		return []domain.ContentBlock{}
	}
	out := make([]domain.ContentBlock, 0, len(domain.USPKeys))
	for _, key := range domain.USPKeys {
		if b, ok := blocks[key]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Sitemap lists every page a visitor can reach.
type Sitemap struct {
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
	Posts      []domain.BlogPost `json:"posts"`
}

func (uc *CatalogUseCase) Sitemap(ctx context.Context) (*Sitemap, error) {
	categories, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := uc.products.Active(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := uc.posts.Published(ctx)
	if err != nil {
		return nil, err
	}
	return &Sitemap{Categories: orEmpty(categories), Products: orEmpty(products), Posts: orEmpty(posts)}, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// CatalogPage is one page of active products plus the category menu.
type CatalogPage struct {
	domain.Paginated[domain.Product]
	Categories []domain.Category `json:"categories"`
	Category   string            `json:"category,omitempty"`
	Query      string            `json:"q,omitempty"`
}

func (uc *CatalogUseCase) Catalog(ctx context.Context, page int, categorySlug, query string) (*CatalogPage, error) {
	products, err := uc.products.List(ctx, domain.ProductFilter{
		CategorySlug: categorySlug,
		Search:       query,
		ActiveOnly:   true,
		Page:         domain.NewPage(page, domain.CatalogPageSize),
	})
	if err != nil {
		return nil, err
	}
	categories, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogPage{Paginated: products, Categories: categories, Category: categorySlug, Query: query}, nil
}

// Product returns an active product and counts the view. Inactive products are
// not found.
func (uc *CatalogUseCase) Product(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := uc.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.ErrNotFound
	}
	if err := uc.products.IncrementViews(ctx, p.ID); err != nil {
		uc.logger.WarnContext(ctx, "failed to count product view", "product_id", p.ID, "error", err)
	} else {
		p.ViewsCount++
	}
	return p, nil
}

func (uc *CatalogUseCase) Categories(ctx context.Context) ([]domain.Category, error) {
	return uc.categories.List(ctx)
}

// Blog lists published posts.
func (uc *CatalogUseCase) Blog(ctx context.Context, page int) (domain.Paginated[domain.BlogPost], error) {
	return uc.posts.List(ctx, true, domain.NewPage(page, domain.BlogPageSize))
}

// Post returns a published post and counts the view.
func (uc *CatalogUseCase) Post(ctx context.Context, slug string) (*domain.BlogPost, error) {
	p, err := uc.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsPublished {
		return nil, domain.ErrNotFound
	}
	if err := uc.posts.IncrementViews(ctx, p.ID); err != nil {
		uc.logger.WarnContext(ctx, "failed to count post view", "post_id", p.ID, "error", err)
	} else {
		p.ViewsCount++
	}
	return p, nil
}

// About returns the about page block, or an empty block if none was written yet.
func (uc *CatalogUseCase) About(ctx context.Context) (*domain.ContentBlock, error) {
	block, err := uc.content.Get(ctx, domain.ContentKeyAbout)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ContentBlock{Key: domain.ContentKeyAbout}, nil
	}
	return block, err
}

// SocialLinks returns the configured social network URLs keyed by content key.
// Lookup failures degrade to no links.
func (uc *CatalogUseCase) SocialLinks(ctx context.Context) map[string]string {
	blocks, err := uc.content.GetMany(ctx, domain.SocialKeys)
	if err != nil {
		uc.logger.WarnContext(ctx, "failed to load social links", "error", err)
		return map[string]string{}
	}
	links := make(map[string]string, len(blocks))
	for key, b := range blocks {
		if b.Content != "" {
			links[key] = b.Content
		}
	}
	return links
}
