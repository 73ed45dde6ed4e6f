package domain

import (
	"time"
)

// EntityID identifies a message or a chat head. Exactly one of Server or Local
// is set: Server once the messaging service has acknowledged the entity, Local
// while it only exists optimistically on this client. Reconciling an optimistic
// entity with its confirmed counterpart is a field check, not a string check.
type EntityID struct {
	Server string `json:"server,omitempty"`
	Local  string `json:"local,omitempty"`
}

func ServerID(id string) EntityID {
	return EntityID{Server: id}
}

func PendingID(token string) EntityID {
	return EntityID{Local: token}
}

func (id EntityID) Confirmed() bool {
	return id.Server != ""
}

func (id EntityID) Pending() bool {
	return id.Server == ""
}

// Equal reports whether two ids refer to the same entity,
// a pending id never equals a confirmed one
func (id EntityID) Equal(other EntityID) bool {
	if id.Confirmed() != other.Confirmed() {
		return false
	}
	if id.Confirmed() {
		return id.Server == other.Server
	}
	return id.Local == other.Local
}

func (id EntityID) IsZero() bool {
	return id.Server == "" && id.Local == ""
}

func (id EntityID) String() string {
	if id.Confirmed() {
		return id.Server
	}
	return "pending:" + id.Local
}

type Message struct {
	ID              EntityID  `json:"id"`
	Text            string    `json:"text"`
	SentAt          time.Time `json:"sentAt"`
	SenderID        string    `json:"senderId"`
	RecipientID     string    `json:"recipientId"`
	SenderAvatarURL string    `json:"senderProfileImage,omitempty"`
	Seen            bool      `json:"isSeen"`
}

// ChatHead summarizes one peer-to-peer thread for the conversation list.
// Sender is the participant that opened the thread, not necessarily the
// current user, resolve the other party with Peer.
type ChatHead struct {
	ID            EntityID  `json:"id"`
	Sender        UserRef   `json:"sender"`
	Receiver      UserRef   `json:"receiver"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"updatedAt"`
}

// Peer returns the participant that is not selfID.
func (c *ChatHead) Peer(selfID string) UserRef {
	if c.Sender.ID == selfID {
		return c.Receiver
	}
	return c.Sender
}

// Involves reports whether userID is one of the two participants.
func (c *ChatHead) Involves(userID string) bool {
	return c.Sender.ID == userID || c.Receiver.ID == userID
}

func ValidateMessageText(text string, ev *ErrValidation) {
	ev.Evaluate(len(text) <= 5120, "text", "must be a max of 5120 bytes (5KB) long")
}
