package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
	"github.com/V4T54L/leatherstore/internal/pkg/logger/loggertest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// requestContext returns a context carrying request info, the way the HTTP
// middleware prepares it.
func requestContext(actor *logger.Actor) context.Context {
	return logger.WithRequest(context.Background(), &logger.RequestInfo{
		ID:            "req-1",
		Method:        "POST",
		Path:          "/test",
		ClientAddress: "203.0.113.7",
		Actor:         actor,
	})
}

func newActions() (*logger.ActionLogger, *loggertest.Capture) {
	capture := &loggertest.Capture{}
	return logger.NewActionLogger(capture), capture
}

func leatherCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Wallet", Slug: "wallet", Price: 250000, StockQuantity: 10, IsActive: true, CategoryID: 1},
		{ID: 2, Name: "Belt", Slug: "belt", Price: 300000, StockQuantity: 5, IsActive: true, CategoryID: 1},
		{ID: 3, Name: "Bag", Slug: "bag", Price: 700000, StockQuantity: 2, IsActive: true, CategoryID: 2},
		{ID: 4, Name: "Old Satchel", Slug: "old-satchel", Price: 100000, StockQuantity: 3, IsActive: false, CategoryID: 2},
	}
}

func leatherCategories() []domain.Category {
	return []domain.Category{
		{ID: 1, Name: "Accessories", Slug: "accessories"},
		{ID: 2, Name: "Bags", Slug: "bags"},
		{ID: 3, Name: "Gloves", Slug: "gloves"},
	}
}
