package usecase

import (
	"context"
	"strings"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

// Posts lists every post including drafts.
func (uc *AdminUseCase) Posts(ctx context.Context, page int) (domain.Paginated[domain.BlogPost], error) {
	return uc.posts.List(ctx, false, domain.NewPage(page, domain.AdminPageSize))
}

func (uc *AdminUseCase) Post(ctx context.Context, id int64) (*domain.BlogPost, error) {
	return uc.posts.GetByID(ctx, id)
}

// PostInput is the blog post form. The slug is derived from the title.
type PostInput struct {
	Title       string
	Content     string
	Excerpt     string
	ImageURL    string
	IsPublished bool
}

// applyPost copies the form onto p. Publishing stamps PublishedAt the first time only.
func (uc *AdminUseCase) applyPost(in PostInput, p *domain.BlogPost) error {
	in.Title = strings.TrimSpace(in.Title)
	slug := domain.Slugify(in.Title)
	if slug == "" {
		return invalid("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return invalid("content is required")
	}
	p.Title, p.Slug, p.Content = in.Title, slug, in.Content
	p.Excerpt = strings.TrimSpace(in.Excerpt)
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	p.IsPublished = in.IsPublished
	if p.IsPublished && p.PublishedAt == nil {
		now := uc.now().UTC()
		p.PublishedAt = &now
	}
	return nil
}

func (uc *AdminUseCase) CreatePost(ctx context.Context, authorID int64, in PostInput) (*domain.BlogPost, error) {
	p := &domain.BlogPost{AuthorID: authorID}
	if err := uc.applyPost(in, p); err != nil {
		return nil, err
	}
	action := logger.Action{Name: ActionBlogCreate, Extra: map[string]any{"title": p.Title, "is_published": p.IsPublished}}
	err := uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		if err := uc.posts.Create(ctx, p); err != nil {
			return err
		}
		o.SetEntity(EntityPost, p.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *AdminUseCase) UpdatePost(ctx context.Context, id int64, in PostInput) (*domain.BlogPost, error) {
	p, err := uc.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.applyPost(in, p); err != nil {
		return nil, err
	}
	action := logger.Action{
		Name:       ActionBlogUpdate,
		EntityType: EntityPost,
		EntityID:   id,
		Extra:      map[string]any{"title": p.Title, "is_published": p.IsPublished},
	}
	err = uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		return uc.posts.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *AdminUseCase) DeletePost(ctx context.Context, id int64) error {
	return uc.actions.Perform(ctx, logger.Action{Name: ActionBlogDelete, EntityType: EntityPost, EntityID: id},
		func(ctx context.Context, o *logger.Outcome) error {
			return uc.posts.Delete(ctx, id)
		})
}

// ---- content blocks ----

func (uc *AdminUseCase) ContentBlocks(ctx context.Context) ([]domain.ContentBlock, error) {
	return uc.content.List(ctx)
}

// SaveContent creates or replaces the block with b.Key.
func (uc *AdminUseCase) SaveContent(ctx context.Context, editorID int64, b domain.ContentBlock) (*domain.ContentBlock, error) {
	b.Key = strings.TrimSpace(b.Key)
	if b.Key == "" {
		return nil, invalid("content key is required")
	}
	b.UpdatedByID = &editorID
	err := uc.actions.Perform(ctx, logger.Action{Name: ActionContentUpdate, EntityType: EntityContent, EntityID: b.Key},
		func(ctx context.Context, o *logger.Outcome) error {
			return uc.content.Upsert(ctx, &b)
		})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (uc *AdminUseCase) DeleteContent(ctx context.Context, key string) error {
	return uc.actions.Perform(ctx, logger.Action{Name: ActionContentDelete, EntityType: EntityContent, EntityID: key},
		func(ctx context.Context, o *logger.Outcome) error {
			return uc.content.Delete(ctx, key)
		})
}

// ---- hero slides ----

func (uc *AdminUseCase) HeroSlides(ctx context.Context) ([]domain.HeroSlide, error) {
	return uc.slides.List(ctx)
}

// SlideInput is the hero slide form.
type SlideInput struct {
	Title    string
	Subtitle string
	ImageURL string
	LinkURL  string
	LinkText string
	Position int
	IsActive bool
}

func (in SlideInput) apply(s *domain.HeroSlide) error {
	s.Title = strings.TrimSpace(in.Title)
	if s.Title == "" {
		return invalid("title is required")
	}
	if in.Position < 0 {
		return invalid("position must not be negative")
	}
	s.Subtitle = strings.TrimSpace(in.Subtitle)
	s.ImageURL = strings.TrimSpace(in.ImageURL)
	s.LinkURL = strings.TrimSpace(in.LinkURL)
	s.LinkText = strings.TrimSpace(in.LinkText)
	s.Position = in.Position
	s.IsActive = in.IsActive
	return nil
}

func (uc *AdminUseCase) CreateHeroSlide(ctx context.Context, in SlideInput) (*domain.HeroSlide, error) {
	s := &domain.HeroSlide{}
	if err := in.apply(s); err != nil {
		return nil, err
	}
	action := logger.Action{Name: ActionSlideCreate, Extra: map[string]any{"title": s.Title, "is_active": s.IsActive}}
	err := uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		if err := uc.slides.Create(ctx, s); err != nil {
			return err
		}
		o.SetEntity(EntitySlide, s.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *AdminUseCase) UpdateHeroSlide(ctx context.Context, id int64, in SlideInput) (*domain.HeroSlide, error) {
	s, err := uc.slides.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(s); err != nil {
		return nil, err
	}
	action := logger.Action{
		Name:       ActionSlideUpdate,
		EntityType: EntitySlide,
		EntityID:   id,
		Extra:      map[string]any{"title": s.Title, "is_active": s.IsActive, "position": s.Position},
	}
	err = uc.actions.Perform(ctx, action, func(ctx context.Context, o *logger.Outcome) error {
		return uc.slides.Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *AdminUseCase) DeleteHeroSlide(ctx context.Context, id int64) error {
	return uc.actions.Perform(ctx, logger.Action{Name: ActionSlideDelete, EntityType: EntitySlide, EntityID: id},
		func(ctx context.Context, o *logger.Outcome) error {
			return uc.slides.Delete(ctx, id)
		})
}

// ---- contact messages ----

func (uc *AdminUseCase) Messages(ctx context.Context, page int) (domain.Paginated[domain.ContactMessage], error) {
	return uc.messages.List(ctx, domain.NewPage(page, domain.AdminPageSize))
}

// ReadMessage returns the message and marks it read on first view.
func (uc *AdminUseCase) ReadMessage(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	msg, err := uc.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.IsRead {
		return msg, nil
	}
	err = uc.actions.Perform(ctx, logger.Action{Name: ActionMessageRead, EntityType: EntityMessage, EntityID: id},
		func(ctx context.Context, o *logger.Outcome) error {
			return uc.messages.MarkRead(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	msg.IsRead = true
	return msg, nil
}

func (uc *AdminUseCase) DeleteMessage(ctx context.Context, id int64) error {
	return uc.actions.Perform(ctx, logger.Action{Name: ActionMessageDelete, EntityType: EntityMessage, EntityID: id},
		func(ctx context.Context, o *logger.Outcome) error {
			return uc.messages.Delete(ctx, id)
		})
}
