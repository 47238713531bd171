package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_AutoApprovePolicy(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	seller := f.register(t, "seller", models.RoleSeller)

	p := f.createProduct(t, seller, "Star Wars poster", 40)

	assert.Equal(t, models.StatusApproved, p.Status)
	assert.NotNil(t, p.ValidatedAt)
	assert.Nil(t, p.ValidatedBy)
	assert.Equal(t, models.DefaultCondition, p.Condition)
	assert.Equal(t, "seller", p.SellerName)
}

func TestCreate_PendingPolicy(t *testing.T) {
	f := newFixture(t, models.StatusPending)
	seller := f.register(t, "seller", models.RoleSeller)

	p := f.createProduct(t, seller, "Star Wars poster", 40)

	assert.Equal(t, models.StatusPending, p.Status)
	assert.Nil(t, p.ValidatedAt)
}

func TestCreate_ScreenHoldsFlaggedListing(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	seller := f.register(t, "seller", models.RoleSeller)

	price := 10.0
	p, err := f.moderation.Create(seller, &dto.CreateProductRequest{
		Title:       "Signed comic",
		Description: "Contact me directly at seller@mail.com",
		Category:    "Comics",
		Price:       &price,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, p.Status)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	seller := f.register(t, "seller", models.RoleSeller)

	negative := -1.0
	_, err := f.moderation.Create(seller, &dto.CreateProductRequest{
		Title: "x", Description: "y", Category: "Posters", Price: &negative,
	})
	assert.ErrorIs(t, err, ErrValidation)

	price := 1.0
	_, err = f.moderation.Create(seller, &dto.CreateProductRequest{
		Title: "x", Description: "y", Category: "Stamps", Price: &price,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.moderation.Create(seller, &dto.CreateProductRequest{
		Title: "x", Description: "y", Category: "Posters", Condition: "Mint", Price: &price,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApprove_Idempotent(t *testing.T) {
	f := newFixture(t, models.StatusPending)
	seller := f.register(t, "seller", models.RoleSeller)
	admin := f.register(t, "admin", models.RoleAdmin)
	p := f.createProduct(t, seller, "Figure", 15)

	first, err := f.moderation.Approve(p.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, first.Status)
	require.NotNil(t, first.ValidatedBy)
	assert.Equal(t, admin.ID, *first.ValidatedBy)

	second, err := f.moderation.Approve(p.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, second.Status)
}

func TestApprove_Errors(t *testing.T) {
	f := newFixture(t, models.StatusPending)
	seller := f.register(t, "seller", models.RoleSeller)
	admin := f.register(t, "admin", models.RoleAdmin)
	p := f.createProduct(t, seller, "Figure", 15)

	_, err := f.moderation.Approve(p.ID, seller)
	assert.ErrorIs(t, err, ErrAuthz)

	_, err = f.moderation.Approve(uuid.New(), admin)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.store.Products.ByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestReject_Visibility(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	seller := f.register(t, "seller", models.RoleSeller)
	admin := f.register(t, "admin", models.RoleAdmin)
	buyer := f.register(t, "buyer", models.RoleUser)
	p := f.createProduct(t, seller, "Blurry statue", 99)

	rejected, err := f.moderation.Reject(p.ID, admin, "low quality images")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "low quality images", rejected.RejectionReason)

	_, err = f.catalog.GetProduct(p.ID, &buyer)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.catalog.GetProduct(p.ID, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	own, err := f.catalog.GetProduct(p.ID, &seller)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, own.Status)

	asAdmin, err := f.catalog.GetProduct(p.ID, &admin)
	require.NoError(t, err)
	assert.Equal(t, "low quality images", asAdmin.RejectionReason)
}

func TestReject_DefaultReason(t *testing.T) {
	f := newFixture(t, models.StatusPending)
	seller := f.register(t, "seller", models.RoleSeller)
	admin := f.register(t, "admin", models.RoleAdmin)
	p := f.createProduct(t, seller, "Card", 2)

	rejected, err := f.moderation.Reject(p.ID, admin, "  ")
	require.NoError(t, err)
	assert.Equal(t, "unspecified", rejected.RejectionReason)
}

func TestUpdatePrice_AppendsHistory(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	seller := f.register(t, "seller", models.RoleSeller)
	p := f.createProduct(t, seller, "Comic", 20)
	require.Len(t, p.PriceHistory, 1)

	updated, err := f.moderation.UpdatePrice(p.ID, seller, 17.5)
	require.NoError(t, err)
	assert.Equal(t, 17.5, updated.Price)
	require.Len(t, updated.PriceHistory, 2)
	assert.Equal(t, 20.0, updated.PriceHistory[0].Price)
	assert.Equal(t, 17.5, updated.PriceHistory[1].Price)

	_, err = f.moderation.UpdatePrice(p.ID, seller, -3)
	assert.ErrorIs(t, err, ErrValidation)

	stranger := f.register(t, "stranger", models.RoleUser)
	_, err = f.moderation.UpdatePrice(p.ID, stranger, 1)
	assert.ErrorIs(t, err, ErrAuthz)
}

func TestUpdate_PartialEditAndPrice(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	seller := f.register(t, "seller", models.RoleSeller)
	p := f.createProduct(t, seller, "Comic", 20)

	updated, err := f.moderation.Update(p.ID, seller, &dto.UpdateProductRequest{
		Title:  ptr("Comic #1 first print"),
		Price:  ptr(25.0),
		Images: []string{"https://img.example/1.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Comic #1 first print", updated.Title)
	assert.Equal(t, 25.0, updated.Price)
	assert.Len(t, updated.PriceHistory, 2)
	require.Len(t, updated.Images, 1)
	assert.Equal(t, "https://img.example/1.jpg", updated.Images[0].URL)
	assert.Equal(t, "A collectible in good shape", updated.Description)
}

func TestUpdate_RefusedEditWritesNothing(t *testing.T) {
	f := newFixture(t, models.StatusPending)
	seller := f.register(t, "seller", models.RoleSeller)
	p := f.createProduct(t, seller, "Boba Fett figure", 30)

	for _, tc := range []struct {
		name   string
		status string
		want   error
	}{
		{"pending cannot be sold", "sold", ErrValidation},
		{"owner cannot approve", "approved", ErrAuthz},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.moderation.Update(p.ID, seller, &dto.UpdateProductRequest{
				Title:  ptr("Renamed figure"),
				Price:  ptr(5.0),
				Status: ptr(tc.status),
			})
			assert.ErrorIs(t, err, tc.want)

			stored, err := f.store.Products.ByID(p.ID)
			require.NoError(t, err)
			assert.Equal(t, "Boba Fett figure", stored.Title)
			assert.Equal(t, 30.0, stored.Price)
			assert.Len(t, stored.PriceHistory, 1)
			assert.Equal(t, models.StatusPending, stored.Status)
		})
	}
}

func TestUpdate_FieldsAndStatusTogether(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	seller := f.register(t, "seller", models.RoleSeller)
	p := f.createProduct(t, seller, "Statue", 150)

	updated, err := f.moderation.Update(p.ID, seller, &dto.UpdateProductRequest{
		Title:  ptr("Statue, boxed"),
		Price:  ptr(140.0),
		Status: ptr("sold"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Statue, boxed", updated.Title)
	assert.Equal(t, 140.0, updated.Price)
	assert.Len(t, updated.PriceHistory, 2)
	assert.Equal(t, models.StatusSold, updated.Status)
	assert.NotNil(t, updated.SoldAt)
}

func TestUpdate_ScreenHoldsFlaggedEdit(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	seller := f.register(t, "seller", models.RoleSeller)
	admin := f.register(t, "admin", models.RoleAdmin)
	p := f.createProduct(t, seller, "Signed comic", 45)
	require.Equal(t, models.StatusApproved, p.Status)

	held, err := f.moderation.Update(p.ID, seller, &dto.UpdateProductRequest{
		Description: ptr("Contact me directly at seller@mail.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, held.Status)
	assert.Nil(t, held.ValidatedAt)
	assert.Equal(t, "Contact me directly at seller@mail.com", held.Description)

	// price-only edits do not re-screen existing text
	q := f.createProduct(t, seller, "Poster", 12)
	repriced, err := f.moderation.Update(q.ID, seller, &dto.UpdateProductRequest{Price: ptr(10.0)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, repriced.Status)

	// admins edit without being held
	edited, err := f.moderation.Update(q.ID, admin, &dto.UpdateProductRequest{
		Description: ptr("Ask the seller at seller@mail.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, edited.Status)
}

func TestChangeStatus_Lifecycle(t *testing.T) {
	f := newFixture(t, models.StatusPending)
	seller := f.register(t, "seller", models.RoleSeller)
	admin := f.register(t, "admin", models.RoleAdmin)
	buyer := f.register(t, "buyer", models.RoleUser)
	p := f.createProduct(t, seller, "Statue", 150)

	// pending listings cannot be sold
	_, err := f.moderation.ChangeStatus(p.ID, seller, models.StatusSold, nil)
	assert.ErrorIs(t, err, ErrValidation)

	// owners cannot approve themselves
	_, err = f.moderation.ChangeStatus(p.ID, seller, models.StatusApproved, nil)
	assert.ErrorIs(t, err, ErrAuthz)

	_, err = f.moderation.Approve(p.ID, admin)
	require.NoError(t, err)

	sold, err := f.moderation.ChangeStatus(p.ID, seller, models.StatusSold, &buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSold, sold.Status)
	assert.NotNil(t, sold.SoldAt)
	require.NotNil(t, sold.SoldTo)
	assert.Equal(t, buyer.ID, *sold.SoldTo)

	u, err := f.store.Users.ByID(seller.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.SellerInfo.TotalSales)

	// sold is terminal for the owner
	_, err = f.moderation.ChangeStatus(p.ID, seller, models.StatusRemoved, nil)
	assert.ErrorIs(t, err, ErrValidation)

	// but an admin can override
	removed, err := f.moderation.ChangeStatus(p.ID, admin, models.StatusRemoved, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRemoved, removed.Status)
}

func TestDelete_OwnerOrAdmin(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	seller := f.register(t, "seller", models.RoleSeller)
	admin := f.register(t, "admin", models.RoleAdmin)
	stranger := f.register(t, "stranger", models.RoleUser)
	p1 := f.createProduct(t, seller, "One", 1)
	p2 := f.createProduct(t, seller, "Two", 2)

	assert.ErrorIs(t, f.moderation.Delete(p1.ID, stranger), ErrAuthz)
	_, err := f.store.Products.ByID(p1.ID)
	require.NoError(t, err)

	require.NoError(t, f.moderation.Delete(p1.ID, seller))
	require.NoError(t, f.moderation.Delete(p2.ID, admin))
	assert.ErrorIs(t, f.moderation.Delete(p2.ID, admin), ErrNotFound)
}

func TestPendingAndHistory(t *testing.T) {
	f := newFixture(t, models.StatusPending)
	seller := f.register(t, "seller", models.RoleSeller)
	admin := f.register(t, "admin", models.RoleAdmin)
	a := f.createProduct(t, seller, "A", 1)
	b := f.createProduct(t, seller, "B", 1)
	f.createProduct(t, seller, "C", 1)

	pending, err := f.moderation.Pending(admin)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	_, err = f.moderation.Pending(seller)
	assert.ErrorIs(t, err, ErrAuthz)

	_, err = f.moderation.Approve(a.ID, admin)
	require.NoError(t, err)
	_, err = f.moderation.Reject(b.ID, admin, "")
	require.NoError(t, err)

	history, err := f.moderation.History(admin, "", 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	rejected, err := f.moderation.History(admin, "rejected", 10)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, b.ID, rejected[0].ID)

	_, err = f.moderation.History(admin, "archived", 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTransitionTable(t *testing.T) {
	assert.True(t, models.StatusPending.CanTransition(models.StatusApproved))
	assert.True(t, models.StatusPending.CanTransition(models.StatusRejected))
	assert.True(t, models.StatusApproved.CanTransition(models.StatusSold))
	assert.True(t, models.StatusApproved.CanTransition(models.StatusRemoved))
	assert.False(t, models.StatusRejected.CanTransition(models.StatusApproved))
	assert.False(t, models.StatusSold.CanTransition(models.StatusApproved))
	assert.False(t, models.StatusPending.CanTransition(models.StatusSold))
}

func TestContentScreen(t *testing.T) {
	cs := newContentScreen()

	assert.Empty(t, cs.Check("Original 1977 Star Wars poster", "Folded, light wear on the corners."))
	assert.Equal(t, "contact_info", cs.Check("Call me at 06 12 34 56 78"))
	assert.Equal(t, "contact_info", cs.Check("Reach me on (555) 123-4567"))
	assert.Equal(t, "contact_info", cs.Check("+33 6 12 34 56 78 after 6pm"))

	// collectors describe reproductions and quote catalogue numbers
	assert.Empty(t, cs.Check("Hasbro replica lightsaber", "Fake blood effect on the mask, catalogue ref 4012345678"))
	assert.Empty(t, cs.Check("Sealed figure", "Serial 5551234567 on the box"))
	assert.Equal(t, "inappropriate_language", cs.Check("Not a scam, I promise"))
	assert.Equal(t, "spam_detected", cs.Check("Amazing!!!!!!"))
	assert.Equal(t, "excessive_caps", cs.Check("AMAZING DEAL: GREAT PRICE, HURRY, LIMITED STOCK"))
}
