package store_test

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.Store {
	return store.New(testutil.NewDB(t))
}

func seedUser(t *testing.T, s *store.Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@test.io", Password: "hash"}
	require.NoError(t, s.Users.Create(u))
	return u
}

func seedProduct(t *testing.T, s *store.Store, seller *models.User, title string, price float64, status models.ProductStatus) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:       title,
		Description: "description of " + title,
		Category:    "Posters",
		Condition:   models.DefaultCondition,
		Price:       price,
		SellerID:    seller.ID,
		SellerName:  seller.Username,
		Status:      status,
	}
	require.NoError(t, s.Products.Create(p))
	return p
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := newStore(t)
	seedUser(t, s, "alice")

	err := s.Users.Create(&models.User{Username: "alice2", Email: "alice@test.io", Password: "x"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	n, err := s.Users.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUsers_ByIDNotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.Users.ByID(uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_DeleteRemovesFavoritesAndCart(t *testing.T) {
	s := newStore(t)
	seller := seedUser(t, s, "seller")
	buyer := seedUser(t, s, "buyer")
	p := seedProduct(t, s, seller, "Alien poster", 30, models.StatusApproved)

	require.NoError(t, s.Favorites.Add(buyer.ID, p.ID))
	require.NoError(t, s.Carts.Add(buyer.ID, p.ID, 1))

	require.NoError(t, s.Users.Delete(buyer.ID))

	favs, err := s.Favorites.Products(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
	items, err := s.Carts.Items(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, s.Users.Delete(buyer.ID), store.ErrNotFound)
}

func TestProducts_PriceHistory(t *testing.T) {
	s := newStore(t)
	seller := seedUser(t, s, "seller")
	p := seedProduct(t, s, seller, "Batman statue", 120, models.StatusApproved)

	got, err := s.Products.ByID(p.ID)
	require.NoError(t, err)
	require.Len(t, got.PriceHistory, 1)
	assert.Equal(t, 120.0, got.PriceHistory[0].Price)

	updated, err := s.Products.AppendPrice(p.ID, 95, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 95.0, updated.Price)
	require.Len(t, updated.PriceHistory, 2)
	assert.Equal(t, 120.0, updated.PriceHistory[0].Price)
	assert.Equal(t, 95.0, updated.PriceHistory[1].Price)
}

func TestProducts_QueryOnlyRequestedStatuses(t *testing.T) {
	s := newStore(t)
	seller := seedUser(t, s, "seller")
	seedProduct(t, s, seller, "Approved poster", 10, models.StatusApproved)
	seedProduct(t, s, seller, "Pending poster", 10, models.StatusPending)
	seedProduct(t, s, seller, "Rejected poster", 10, models.StatusRejected)
	seedProduct(t, s, seller, "Removed poster", 10, models.StatusRemoved)

	products, total, err := s.Products.Query(store.ProductFilter{
		Statuses: []models.ProductStatus{models.StatusApproved},
		Search:   "POSTER",
		Limit:    12,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Approved poster", products[0].Title)
}

func TestProducts_QueryFiltersAndSort(t *testing.T) {
	s := newStore(t)
	seller := seedUser(t, s, "seller")
	seedProduct(t, s, seller, "Cheap", 5, models.StatusApproved)
	seedProduct(t, s, seller, "Middle", 50, models.StatusApproved)
	seedProduct(t, s, seller, "Expensive", 500, models.StatusApproved)

	lo, hi := 10.0, 600.0
	products, total, err := s.Products.Query(store.ProductFilter{
		Statuses: []models.ProductStatus{models.StatusApproved},
		MinPrice: &lo,
		MaxPrice: &hi,
		Sort:     store.SortPriceDesc,
		Page:     1,
		Limit:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Expensive", products[0].Title)

	products, _, err = s.Products.Query(store.ProductFilter{
		Statuses: []models.ProductStatus{models.StatusApproved},
		MinPrice: &lo,
		MaxPrice: &hi,
		Sort:     store.SortPriceDesc,
		Page:     2,
		Limit:    1,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Middle", products[0].Title)
}

func TestProducts_SearchEscapesWildcards(t *testing.T) {
	s := newStore(t)
	seller := seedUser(t, s, "seller")
	seedProduct(t, s, seller, "100% original", 5, models.StatusApproved)
	seedProduct(t, s, seller, "1000 pieces", 5, models.StatusApproved)

	products, _, err := s.Products.Query(store.ProductFilter{Search: "100%", Limit: 12})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "100% original", products[0].Title)
}

func TestProducts_IncrementViews(t *testing.T) {
	s := newStore(t)
	seller := seedUser(t, s, "seller")
	p := seedProduct(t, s, seller, "Comic", 5, models.StatusApproved)

	require.NoError(t, s.Products.IncrementViews(p.ID))
	require.NoError(t, s.Products.IncrementViews(p.ID))

	got, err := s.Products.ByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}

func TestProducts_DeleteCascades(t *testing.T) {
	s := newStore(t)
	seller := seedUser(t, s, "seller")
	buyer := seedUser(t, s, "buyer")
	p := seedProduct(t, s, seller, "Figure", 25, models.StatusApproved)
	require.NoError(t, s.Favorites.Add(buyer.ID, p.ID))
	require.NoError(t, s.Products.AddInterest(p.ID, buyer.ID))

	require.NoError(t, s.Products.Delete(p.ID))

	_, err := s.Products.ByID(p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	favs, err := s.Favorites.Products(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
	assert.ErrorIs(t, s.Products.Delete(p.ID), store.ErrNotFound)
}

func TestProducts_InterestIsASet(t *testing.T) {
	s := newStore(t)
	seller := seedUser(t, s, "seller")
	buyer := seedUser(t, s, "buyer")
	p := seedProduct(t, s, seller, "Card", 3, models.StatusApproved)

	require.NoError(t, s.Products.AddInterest(p.ID, buyer.ID))
	require.NoError(t, s.Products.AddInterest(p.ID, buyer.ID))

	ids, err := s.Products.InterestedBuyers(p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{buyer.ID}, ids)
}

func TestProducts_CountByStatus(t *testing.T) {
	s := newStore(t)
	seller := seedUser(t, s, "seller")
	seedProduct(t, s, seller, "a", 1, models.StatusApproved)
	seedProduct(t, s, seller, "b", 1, models.StatusApproved)
	seedProduct(t, s, seller, "c", 1, models.StatusPending)

	counts, err := s.Products.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.StatusApproved])
	assert.Equal(t, int64(1), counts[models.StatusPending])
	assert.Zero(t, counts[models.StatusSold])
}

func TestFavorites_SetSemantics(t *testing.T) {
	s := newStore(t)
	seller := seedUser(t, s, "seller")
	buyer := seedUser(t, s, "buyer")
	p := seedProduct(t, s, seller, "Poster", 10, models.StatusApproved)

	require.NoError(t, s.Favorites.Add(buyer.ID, p.ID))
	require.NoError(t, s.Favorites.Add(buyer.ID, p.ID))

	favs, err := s.Favorites.Products(buyer.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, p.ID, favs[0].ID)

	require.NoError(t, s.Favorites.Remove(buyer.ID, p.ID))
	favs, err = s.Favorites.Products(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestCarts_AddAccumulatesQuantity(t *testing.T) {
	s := newStore(t)
	seller := seedUser(t, s, "seller")
	buyer := seedUser(t, s, "buyer")
	p := seedProduct(t, s, seller, "Statue", 80, models.StatusApproved)

	require.NoError(t, s.Carts.Add(buyer.ID, p.ID, 1))
	require.NoError(t, s.Carts.Add(buyer.ID, p.ID, 2))

	items, err := s.Carts.Items(buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Statue", items[0].Product.Title)

	require.NoError(t, s.Carts.Clear(buyer.ID))
	items, err = s.Carts.Items(buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMessages_MarkReadOnce(t *testing.T) {
	s := newStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	msg := &models.Message{ConversationID: "c1", SenderID: alice.ID, RecipientID: bob.ID, Body: "hi"}
	require.NoError(t, s.Messages.Create(msg))

	first := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	read, err := s.Messages.MarkRead(msg.ID, first)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)

	again, err := s.Messages.MarkRead(msg.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, again.ReadAt.Equal(*read.ReadAt))

	_, err = s.Messages.MarkRead(uuid.New(), time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMessages_ByConversationNewestFirst(t *testing.T) {
	s := newStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	base := time.Now().Add(-time.Hour)
	for i, body := range []string{"one", "two", "three"} {
		require.NoError(t, s.Messages.Create(&models.Message{
			ConversationID: "c1",
			SenderID:       alice.ID,
			RecipientID:    bob.ID,
			Body:           body,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	msgs, err := s.Messages.ByConversation("c1", 2, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "three", msgs[0].Body)
	assert.Equal(t, "two", msgs[1].Body)

	msgs, err = s.Messages.ByConversation("c1", 2, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "one", msgs[0].Body)
}

func TestCategories_SlugAndDelete(t *testing.T) {
	s := newStore(t)
	admin := seedUser(t, s, "admin")

	c := &models.Category{Name: "Vintage Movie Posters", CreatedBy: admin.ID}
	require.NoError(t, s.Categories.Create(c))
	assert.Equal(t, "vintage-movie-posters", c.Slug)

	err := s.Categories.Create(&models.Category{Name: "Vintage Movie Posters", CreatedBy: admin.ID})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	require.NoError(t, s.Categories.Delete(c.ID))
	assert.ErrorIs(t, s.Categories.Delete(c.ID), store.ErrNotFound)
}
