package domain

import "time"

// BlogPost represents an article. PublishedAt is set the first time the post
// is published and kept afterwards.
type BlogPost struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	AuthorID    int64      `json:"author_id"`
	IsPublished bool       `json:"is_published"`
	ViewsCount  int        `json:"views_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// ContentBlock is an editable piece of site copy addressed by key.
type ContentBlock struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key"`
	Title       string    `json:"title,omitempty"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type,omitempty"`
	Section     string    `json:"section,omitempty"`
	UpdatedByID *int64    `json:"updated_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	ContentKeyAbout     = "about"
	ContentKeyInstagram = "social_instagram"
	ContentKeyFacebook  = "social_facebook"
	ContentKeyTelegram  = "social_telegram"

	ContentKeyUSPFirst  = "usp_first"
	ContentKeyUSPSecond = "usp_second"
	ContentKeyUSPThird  = "usp_third"
)

// SocialKeys are the content keys rendered as footer links.
var SocialKeys = []string{ContentKeyInstagram, ContentKeyFacebook, ContentKeyTelegram}

// USPKeys are the selling points shown on the home page, in display order.
var USPKeys = []string{ContentKeyUSPFirst, ContentKeyUSPSecond, ContentKeyUSPThird}

// HeroSlide is a banner in the home page carousel. Active slides are shown
// ordered by Position, then ID.
type HeroSlide struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	LinkURL   string    `json:"link_url,omitempty"`
	LinkText  string    `json:"link_text,omitempty"`
	Position  int       `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardStats are the counters shown on the back office landing page.
type DashboardStats struct {
	Products       int   `json:"products"`
	Orders         int   `json:"orders"`
	PendingOrders  int   `json:"pending_orders"`
	Revenue        Money `json:"revenue"`
	Users          int   `json:"users"`
	BlogPosts      int   `json:"blog_posts"`
	UnreadMessages int   `json:"unread_messages"`
}
