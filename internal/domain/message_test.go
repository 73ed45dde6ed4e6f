package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityID(t *testing.T) {
	confirmed := ServerID("42")
	pending := PendingID("tok-1")

	assert.True(t, confirmed.Confirmed())
	assert.False(t, confirmed.Pending())
	assert.True(t, pending.Pending())
	assert.False(t, pending.Confirmed())

	assert.True(t, confirmed.Equal(ServerID("42")))
	assert.False(t, confirmed.Equal(ServerID("43")))
	assert.True(t, pending.Equal(PendingID("tok-1")))
	assert.False(t, pending.Equal(PendingID("tok-2")))

	// a pending id never equals a confirmed one, even with the same raw value
	assert.False(t, ServerID("tok-1").Equal(PendingID("tok-1")))

	assert.True(t, EntityID{}.IsZero())
	assert.False(t, confirmed.IsZero())

	assert.Equal(t, "42", confirmed.String())
	assert.Equal(t, "pending:tok-1", pending.String())
}

func TestChatHeadPeer(t *testing.T) {
	h := &ChatHead{
		ID:       ServerID("c1"),
		Sender:   UserRef{ID: "u1", Name: "Usman"},
		Receiver: UserRef{ID: "u2", Name: "Dua"},
	}

	assert.Equal(t, "u2", h.Peer("u1").ID)
	assert.Equal(t, "u1", h.Peer("u2").ID)
	// an outsider resolves to the sender, the head simply does not involve them
	assert.Equal(t, "u1", h.Peer("u3").ID)

	assert.True(t, h.Involves("u1"))
	assert.True(t, h.Involves("u2"))
	assert.False(t, h.Involves("u3"))
}

func TestValidateMessageText(t *testing.T) {
	ev := NewErrValidation()
	ValidateMessageText("hello", ev)
	assert.False(t, ev.HasErrors())

	long := make([]byte, 5121)
	ValidateMessageText(string(long), ev)
	assert.True(t, ev.HasErrors())
}
