package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/crypto/bcrypt"

	"github.com/V4T54L/leatherstore/internal/adapter/repository/postgres"
	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/config"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

var defaultCategories = []domain.Category{
	{Name: "Wallets", Description: "Wallets and card holders"},
	{Name: "Belts", Description: "Hand-stitched belts"},
	{Name: "Bags", Description: "Bags, satchels and totes"},
	{Name: "Accessories", Description: "Key rings, cases and small goods"},
}

var defaultContent = []domain.ContentBlock{
	{Key: domain.ContentKeyAbout, Title: "About us", Content: "Handmade leather goods.", ContentType: "text", Section: "about"},
	{Key: domain.ContentKeyInstagram, Title: "Instagram", ContentType: "url", Section: "social"},
	{Key: domain.ContentKeyFacebook, Title: "Facebook", ContentType: "url", Section: "social"},
	{Key: domain.ContentKeyTelegram, Title: "Telegram", ContentType: "url", Section: "social"},
	{Key: domain.ContentKeyUSPFirst, Title: "Genuine leather", Content: "Premium hides from trusted tanneries.", ContentType: "text", Section: "usp"},
	{Key: domain.ContentKeyUSPSecond, Title: "Handmade", Content: "Every piece is cut and stitched by hand.", ContentType: "text", Section: "usp"},
	{Key: domain.ContentKeyUSPThird, Title: "Worldwide delivery", Content: "Wholesale shipping for business customers.", ContentType: "text", Section: "usp"},
}

func main() {
	cfg, err := config.LoadSeed()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logCfg, err := cfg.Log.Router(true, os.Stderr)
	if err != nil {
		slog.Error("invalid log configuration", "error", err)
		os.Exit(1)
	}
	logRouter, err := logger.NewRouter(logCfg)
	if err != nil {
		slog.Error("failed to open log channels", "error", err)
		os.Exit(1)
	}
	log := logRouter.Install()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = seed(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("seed failed", "error", err)
	}
	logRouter.Close()
	if err != nil {
		os.Exit(1)
	}
}

func seed(ctx context.Context, cfg *config.SeedConfig, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("schema applied")

	users := postgres.NewUserRepository(db)
	if _, err := users.GetByUsername(ctx, cfg.AdminUsername); err == nil {
		log.Info("admin already exists", "username", cfg.AdminUsername)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &domain.User{
			Username:     cfg.AdminUsername,
			Email:        cfg.AdminEmail,
			PasswordHash: string(hash),
			FullName:     "Administrator",
			Role:         domain.RoleAdmin,
			IsActive:     true,
		}
		if err := users.Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		log.Info("admin created", "username", admin.Username, "user_id", admin.ID)
	}

	categories := postgres.NewCategoryRepository(db)
	for _, c := range defaultCategories {
		c.Slug = domain.Slugify(c.Name)
		if _, err := categories.GetBySlug(ctx, c.Slug); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := categories.Create(ctx, &c); err != nil {
			return fmt.Errorf("failed to create category %q: %w", c.Name, err)
		}
		log.Info("category created", "slug", c.Slug)
	}

	content := postgres.NewContentRepository(db)
	for _, b := range defaultContent {
		if _, err := content.Get(ctx, b.Key); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := content.Upsert(ctx, &b); err != nil {
			return fmt.Errorf("failed to create content %q: %w", b.Key, err)
		}
		log.Info("content block created", "key", b.Key)
	}
	return nil
}
