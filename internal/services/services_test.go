package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	cfg          *config.Config
	store        *store.Store
	auth         *AuthService
	moderation   *ModerationService
	catalog      *CatalogService
	conversation *ConversationService
	shopping     *ShoppingService
	admin        *AdminService
}

func newFixture(t *testing.T, initialStatus models.ProductStatus) *fixture {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:            "test-secret",
		JWTExpiry:            time.Hour,
		BcryptCost:           bcrypt.MinCost,
		ProductInitialStatus: string(initialStatus),
	}
	st := store.New(testutil.NewDB(t))
	return &fixture{
		cfg:          cfg,
		store:        st,
		auth:         NewAuthService(st, cfg),
		moderation:   NewModerationService(st, cfg),
		catalog:      NewCatalogService(st),
		conversation: NewConversationService(st),
		shopping:     NewShoppingService(st),
		admin:        NewAdminService(st),
	}
}

// register creates an account and returns it as an Actor with the given role.
func (f *fixture) register(t *testing.T, username string, role models.Role) Actor {
	t.Helper()
	resp, err := f.auth.Register(&dto.RegisterRequest{
		Username: username,
		Email:    username + "@test.io",
		Password: "secret1",
	})
	require.NoError(t, err)
	if role != models.RoleUser {
		_, err = f.store.Users.UpdateRole(resp.User.ID, role)
		require.NoError(t, err)
	}
	return Actor{ID: resp.User.ID, Role: role}
}

func (f *fixture) createProduct(t *testing.T, seller Actor, title string, price float64) *models.Product {
	t.Helper()
	p, err := f.moderation.Create(seller, &dto.CreateProductRequest{
		Title:       title,
		Description: "A collectible in good shape",
		Category:    "Posters",
		Price:       &price,
	})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }
