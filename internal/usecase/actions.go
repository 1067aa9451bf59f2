package usecase

import (
	"errors"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

// Action names recorded on the actions and auth channels.
const (
	ActionUserLogin     = "user_login"
	ActionUserLogout    = "user_logout"
	ActionUserRegister  = "user_register"
	ActionProfileUpdate = "profile_update"

	ActionCartAdd    = "cart_add"
	ActionCartRemove = "cart_remove"
	ActionCartUpdate = "cart_update"

	ActionOrderCreate       = "order_create"
	ActionOrderStatusUpdate = "order_status_update"

	ActionContactSubmit = "contact_submit"

	ActionUserUpdate     = "user_update"
	ActionUserDelete     = "user_delete"
	ActionCategoryCreate = "category_create"
	ActionCategoryUpdate = "category_update"
	ActionCategoryDelete = "category_delete"
	ActionProductCreate  = "product_create"
	ActionProductUpdate  = "product_update"
	ActionProductDelete  = "product_delete"
	ActionBlogCreate     = "blog_create"
	ActionBlogUpdate     = "blog_update"
	ActionBlogDelete     = "blog_delete"
	ActionContentUpdate  = "content_update"
	ActionContentDelete  = "content_delete"
	ActionSlideCreate    = "hero_slide_create"
	ActionSlideUpdate    = "hero_slide_update"
	ActionSlideDelete    = "hero_slide_delete"
	ActionMessageRead    = "message_read"
	ActionMessageDelete  = "message_delete"
)

// Reasons attached to rejected actions.
const (
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonAccountDeactivated = "account_deactivated"
	ReasonInsufficientStock  = "insufficient_stock"
	ReasonUnavailable        = "product_unavailable"
	ReasonEmptyCart          = "empty_cart"
	ReasonCategoryInUse      = "category_in_use"
	ReasonSelfDelete         = "self_delete"
	ReasonForbidden          = "forbidden"
	ReasonRateLimited        = "rate_limited"
)

// Entity types used in action events.
const (
	EntityUser     = "user"
	EntityProduct  = "product"
	EntityCategory = "category"
	EntityOrder    = "order"
	EntityPost     = "blog_post"
	EntityContent  = "content"
	EntitySlide    = "hero_slide"
	EntityMessage  = "contact_message"
)

// ActorOf returns the log identity of u.
func ActorOf(u *domain.User) logger.Actor {
	return logger.Actor{ID: u.ID, Username: u.Username, Role: string(u.Role)}
}

// refusalReason maps expected business refusals to a reason code, or "" for
// anything that should be logged as a failure.
func refusalReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return ReasonInsufficientStock
	case errors.Is(err, domain.ErrProductUnavailable):
		return ReasonUnavailable
	case errors.Is(err, domain.ErrEmptyCart):
		return ReasonEmptyCart
	case errors.Is(err, domain.ErrCategoryInUse):
		return ReasonCategoryInUse
	case errors.Is(err, domain.ErrForbidden):
		return ReasonForbidden
	}
	return ""
}

// refuse marks expected business refusals so Perform records them as rejections.
func refuse(err error) error {
	if reason := refusalReason(err); reason != "" {
		return logger.Refuse(reason, err)
	}
	return err
}
