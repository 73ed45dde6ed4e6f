package client

import (
	"testing"

	"github.com/minglehq/mingle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshotEvent(t *testing.T) {
	raw := []byte(`{
		"event": "connection",
		"data": {
			"chatHeads": [
				{
					"chatId": "c1",
					"sender": {"id": "u1", "name": "Usman"},
					"receiver": {"id": "u2", "name": "Dua"},
					"lastMessage": "see you",
					"updatedAt": "2025-06-18T15:30:00Z"
				},
				{"chatId": "", "lastMessage": "dropped, no id"}
			]
		}
	}`)
	ev, err := decodeEvent(raw)
	require.NoError(t, err)
	snap, ok := ev.(SnapshotEvent)
	require.True(t, ok)
	require.Len(t, snap.ChatHeads, 1)
	assert.Equal(t, domain.ServerID("c1"), snap.ChatHeads[0].ID)
	assert.Equal(t, "see you", snap.ChatHeads[0].LastMessage)
	assert.Equal(t, "u2", snap.ChatHeads[0].Receiver.ID)
}

func TestDecodeDeliveryEvent(t *testing.T) {
	raw := []byte(`{
		"event": "new_message",
		"data": {
			"messageId": "m9",
			"chatId": "c1",
			"message": "hello",
			"timestamp": "2025-06-18T15:30:00Z",
			"senderId": "u2",
			"receiverId": "u1",
			"senderInfo": {"id": "u2", "profileImage": "http://x/p.png"},
			"isSeen": false
		}
	}`)
	ev, err := decodeEvent(raw)
	require.NoError(t, err)
	del, ok := ev.(DeliveryEvent)
	require.True(t, ok)
	assert.Equal(t, "c1", del.ChatID)
	assert.Equal(t, domain.ServerID("m9"), del.Msg.ID)
	assert.Equal(t, "hello", del.Msg.Text)
	assert.Equal(t, "http://x/p.png", del.Msg.SenderAvatarURL)
}

func TestDecodeDeliveryEventWithoutID(t *testing.T) {
	raw := []byte(`{"event": "new_message", "data": {"message": "hello"}}`)
	_, err := decodeEvent(raw)
	assert.Error(t, err)
}

func TestDecodeHistoryEvent(t *testing.T) {
	raw := []byte(`{
		"event": "chat_history",
		"data": {
			"peerId": "u2",
			"messages": [
				{"id": "m1", "message": "hey", "createdAt": "2025-06-18T10:00:00Z", "senderId": "u2", "receiverId": "u1", "isSeen": true},
				{"id": "m2", "message": "hey back", "createdAt": "2025-06-18T10:01:00Z", "senderId": "u1", "receiverId": "u2"}
			]
		}
	}`)
	ev, err := decodeEvent(raw)
	require.NoError(t, err)
	hist, ok := ev.(HistoryEvent)
	require.True(t, ok)
	assert.Equal(t, "u2", hist.PeerID)
	require.Len(t, hist.Msgs, 2)
	assert.True(t, hist.Msgs[0].Seen)
	assert.Equal(t, domain.ServerID("m2"), hist.Msgs[1].ID)
}

func TestDecodeSeenAndErrorEvents(t *testing.T) {
	ev, err := decodeEvent([]byte(`{"event": "message_seen", "data": {"messageId": "m1"}}`))
	require.NoError(t, err)
	assert.Equal(t, SeenAckEvent{MessageID: "m1"}, ev)

	ev, err = decodeEvent([]byte(`{"event": "message_error", "data": {"message": "user is offline"}}`))
	require.NoError(t, err)
	assert.Equal(t, ErrorEvent{Reason: "user is offline"}, ev)
}

func TestDecodeUnknownEvent(t *testing.T) {
	_, err := decodeEvent([]byte(`{"event": "typing", "data": {}}`))
	assert.ErrorIs(t, err, errUnknownEvent)

	_, err = decodeEvent([]byte(`not even json`))
	assert.Error(t, err)
}
