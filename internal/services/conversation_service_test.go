package services

import (
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tick makes the service clock advance one second per call.
func tick(svc *ConversationService) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		at = at.Add(time.Second)
		return at
	}
}

func send(t *testing.T, f *fixture, from, to Actor, conversationID, body string) *models.Message {
	t.Helper()
	msg, err := f.conversation.SendMessage(from.ID, &dto.SendMessageRequest{
		ConversationID: conversationID,
		RecipientID:    to.ID.String(),
		Message:        body,
	})
	require.NoError(t, err)
	return msg
}

func TestSendMessage(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	alice := f.register(t, "alice", models.RoleUser)
	bob := f.register(t, "bob", models.RoleUser)

	msg := send(t, f, alice, bob, "alice-bob", "  hello  ")
	assert.Equal(t, "hello", msg.Body)
	assert.Equal(t, "alice", msg.SenderName)
	assert.Equal(t, "bob", msg.RecipientName)
	assert.False(t, msg.IsRead)
	assert.NotEqual(t, uuid.Nil, msg.ID)
}

func TestSendMessage_Validation(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	alice := f.register(t, "alice", models.RoleUser)
	bob := f.register(t, "bob", models.RoleUser)

	cases := map[string]dto.SendMessageRequest{
		"empty body":      {ConversationID: "c", RecipientID: bob.ID.String(), Message: "   "},
		"too long":        {ConversationID: "c", RecipientID: bob.ID.String(), Message: strings.Repeat("é", 2001)},
		"no conversation": {RecipientID: bob.ID.String(), Message: "hi"},
		"no recipient":    {ConversationID: "c", Message: "hi"},
		"bad recipient":   {ConversationID: "c", RecipientID: "bob", Message: "hi"},
		"self":            {ConversationID: "c", RecipientID: alice.ID.String(), Message: "hi"},
		"bad product":     {ConversationID: "c", RecipientID: bob.ID.String(), ProductID: "nope", Message: "hi"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.conversation.SendMessage(alice.ID, &req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := f.conversation.SendMessage(alice.ID, &dto.SendMessageRequest{
		ConversationID: "c", RecipientID: bob.ID.String(), Message: strings.Repeat("é", 2000),
	})
	assert.NoError(t, err)

	_, err = f.conversation.SendMessage(alice.ID, &dto.SendMessageRequest{
		ConversationID: "c", RecipientID: uuid.NewString(), Message: "hi",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendMessage_RecordsInterest(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	seller := f.register(t, "seller", models.RoleSeller)
	buyer := f.register(t, "buyer", models.RoleUser)
	p := f.createProduct(t, seller, "Poster", 10)

	for i := 0; i < 2; i++ {
		_, err := f.conversation.SendMessage(buyer.ID, &dto.SendMessageRequest{
			ConversationID: "deal", RecipientID: seller.ID.String(), ProductID: p.ID.String(), Message: "still available?",
		})
		require.NoError(t, err)
	}
	_, err := f.conversation.SendMessage(seller.ID, &dto.SendMessageRequest{
		ConversationID: "deal", RecipientID: buyer.ID.String(), ProductID: p.ID.String(), Message: "yes",
	})
	require.NoError(t, err)

	ids, err := f.store.Products.InterestedBuyers(p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{buyer.ID}, ids)
}

func TestGetConversation_NewestFirst(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	tick(f.conversation)
	alice := f.register(t, "alice", models.RoleUser)
	bob := f.register(t, "bob", models.RoleUser)

	send(t, f, alice, bob, "c1", "first")
	send(t, f, bob, alice, "c1", "second")
	send(t, f, alice, bob, "c1", "third")
	send(t, f, alice, bob, "other", "elsewhere")

	msgs, err := f.conversation.GetConversation("c1", 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "third", msgs[0].Body)
	assert.Equal(t, "first", msgs[2].Body)

	msgs, err = f.conversation.GetConversation("c1", 1, 1)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "second", msgs[0].Body)

	msgs, err = f.conversation.GetConversation("unknown", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestListUserConversations_Grouping(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	tick(f.conversation)
	alice := f.register(t, "alice", models.RoleUser)
	bob := f.register(t, "bob", models.RoleUser)
	carol := f.register(t, "carol", models.RoleUser)

	send(t, f, alice, bob, "alice-bob", "hi bob")
	send(t, f, carol, alice, "alice-carol", "hi alice")
	latest := send(t, f, bob, alice, "alice-bob", "hi alice, bob here")
	send(t, f, bob, carol, "bob-carol", "not alice's business")

	convs, err := f.conversation.ListUserConversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, "alice-bob", convs[0].ConversationID)
	assert.Equal(t, latest.ID, convs[0].LastMessage.ID)
	assert.Equal(t, 1, convs[0].UnreadCount)

	assert.Equal(t, "alice-carol", convs[1].ConversationID)
	assert.Equal(t, "hi alice", convs[1].LastMessage.Body)
	assert.Equal(t, 1, convs[1].UnreadCount)

	none, err := f.conversation.ListUserConversations(uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMarkRead_RecipientOnly(t *testing.T) {
	f := newFixture(t, models.StatusApproved)
	alice := f.register(t, "alice", models.RoleUser)
	bob := f.register(t, "bob", models.RoleUser)
	msg := send(t, f, alice, bob, "c1", "hello")

	_, err := f.conversation.MarkRead(msg.ID, alice.ID)
	assert.ErrorIs(t, err, ErrAuthz)

	read, err := f.conversation.MarkRead(msg.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.NotNil(t, read.ReadAt)

	_, err = f.conversation.MarkRead(uuid.New(), bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
