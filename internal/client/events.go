package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/minglehq/mingle/internal/domain"
)

// Inbound socket events form a closed set of variants, decoded once at the
// transport edge and dispatched through a single handler. Malformed or unknown
// payloads never reach session state.

type Event interface {
	sessionEvent()
}

// SnapshotEvent carries the caller's conversation list, delivered once right
// after the connection is established.
type SnapshotEvent struct {
	ChatHeads []*domain.ChatHead
}

// DeliveryEvent is a live, server-confirmed message for a joined pair.
type DeliveryEvent struct {
	ChatID string
	Msg    *domain.Message
}

// HistoryEvent is the stored message log for a joined pair, oldest first.
type HistoryEvent struct {
	PeerID string
	Msgs   []*domain.Message
}

// SeenAckEvent confirms the peer has seen a message.
type SeenAckEvent struct {
	MessageID string
}

// ErrorEvent is a human-readable failure signal from the service.
type ErrorEvent struct {
	Reason string
}

func (SnapshotEvent) sessionEvent() {}
func (DeliveryEvent) sessionEvent() {}
func (HistoryEvent) sessionEvent()  {}
func (SeenAckEvent) sessionEvent()  {}
func (ErrorEvent) sessionEvent()    {}

var errUnknownEvent = errors.New("unknown event")

const (
	evConnection   = "connection"
	evNewMessage   = "new_message"
	evChatHistory  = "chat_history"
	evMessageSeen  = "message_seen"
	evMessageError = "message_error"
)

// Outbound actions.
const (
	actJoin   = "join_room"
	actSend   = "send_message"
	actSeen   = "message_seen"
	actDelete = "delete_message"
	actClear  = "clear_chat"
)

// outboundFrame is the single shape every outbound signal serializes to.
// ChatID stays a pointer, a send for a still-unconfirmed conversation carries
// an explicit null.
type outboundFrame struct {
	Action     string  `json:"action"`
	ChatID     *string `json:"chatId"`
	MessageID  string  `json:"messageId,omitempty"`
	SenderID   string  `json:"senderId,omitempty"`
	ReceiverID string  `json:"receiverId,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// Wire DTOs, the shapes the messaging service actually sends.

type wireEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type wireChatHead struct {
	ChatID      string         `json:"chatId"`
	Sender      domain.UserRef `json:"sender"`
	Receiver    domain.UserRef `json:"receiver"`
	LastMessage string         `json:"lastMessage"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type wireDelivery struct {
	MessageID  string         `json:"messageId"`
	ChatID     string         `json:"chatId"`
	Message    string         `json:"message"`
	Timestamp  time.Time      `json:"timestamp"`
	SenderID   string         `json:"senderId"`
	ReceiverID string         `json:"receiverId"`
	SenderInfo domain.UserRef `json:"senderInfo"`
	IsSeen     bool           `json:"isSeen"`
}

type wireStoredMsg struct {
	ID           string    `json:"id"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
	SenderID     string    `json:"senderId"`
	ReceiverID   string    `json:"receiverId"`
	SenderAvatar string    `json:"senderProfileImage"`
	IsSeen       bool      `json:"isSeen"`
}

func decodeEvent(raw []byte) (Event, error) {
	var env wireEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Event {

	case evConnection:
		var data struct {
			ChatHeads []wireChatHead `json:"chatHeads"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, err
		}
		heads := make([]*domain.ChatHead, 0, len(data.ChatHeads))
		for _, wh := range data.ChatHeads {
			if wh.ChatID == "" {
				continue
			}
			heads = append(heads, &domain.ChatHead{
				ID:            domain.ServerID(wh.ChatID),
				Sender:        wh.Sender,
				Receiver:      wh.Receiver,
				LastMessage:   wh.LastMessage,
				LastMessageAt: wh.UpdatedAt,
			})
		}
		return SnapshotEvent{ChatHeads: heads}, nil

	case evNewMessage:
		var data wireDelivery
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, err
		}
		if data.MessageID == "" {
			return nil, fmt.Errorf("delivery event without a message id")
		}
		return DeliveryEvent{
			ChatID: data.ChatID,
			Msg: &domain.Message{
				ID:              domain.ServerID(data.MessageID),
				Text:            data.Message,
				SentAt:          data.Timestamp,
				SenderID:        data.SenderID,
				RecipientID:     data.ReceiverID,
				SenderAvatarURL: data.SenderInfo.AvatarURL,
				Seen:            data.IsSeen,
			},
		}, nil

	case evChatHistory:
		var data struct {
			PeerID   string          `json:"peerId"`
			Messages []wireStoredMsg `json:"messages"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, err
		}
		msgs := make([]*domain.Message, 0, len(data.Messages))
		for _, wm := range data.Messages {
			if wm.ID == "" {
				continue
			}
			msgs = append(msgs, &domain.Message{
				ID:              domain.ServerID(wm.ID),
				Text:            wm.Message,
				SentAt:          wm.CreatedAt,
				SenderID:        wm.SenderID,
				RecipientID:     wm.ReceiverID,
				SenderAvatarURL: wm.SenderAvatar,
				Seen:            wm.IsSeen,
			})
		}
		return HistoryEvent{PeerID: data.PeerID, Msgs: msgs}, nil

	case evMessageSeen:
		var data struct {
			MessageID string `json:"messageId"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, err
		}
		return SeenAckEvent{MessageID: data.MessageID}, nil

	case evMessageError:
		var data struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, err
		}
		return ErrorEvent{Reason: data.Message}, nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownEvent, env.Event)
}
