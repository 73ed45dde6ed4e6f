package client

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/minglehq/mingle/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 18, 15, 30, 0, 0, time.UTC)

// newTestSession builds a session whose broadcast loops run but whose run loop
// does not, so tests drive applyCmd and handleEvent directly and inspect state
// without racing.
func newTestSession(t *testing.T, target *domain.UserRef) *ChatSession {
	t.Helper()
	sc := SessionContext{SelfID: "self", Token: "tok"}
	s := newChatSession(sc, target, nil)
	n := 0
	s.newToken = func() string {
		n++
		return fmt.Sprintf("tok-%d", n)
	}
	s.now = func() time.Time { return testNow }
	ctx, cancel := context.WithCancel(context.Background())
	go s.ChatHeads.Broadcast(ctx)
	go s.ActiveLog.Broadcast(ctx)
	go s.Errs.Broadcast(ctx)
	go s.ConnState.Broadcast(ctx)
	t.Cleanup(cancel)
	return s
}

func drainFrames(s *ChatSession) []outboundFrame {
	var frames []outboundFrame
	for {
		select {
		case f := <-s.out:
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

func serverHead(id, peerID string) *domain.ChatHead {
	return &domain.ChatHead{
		ID:       domain.ServerID(id),
		Sender:   domain.UserRef{ID: "self"},
		Receiver: domain.UserRef{ID: peerID, Name: "Peer " + peerID},
	}
}

func TestSnapshotSynthesizesPlaceholderForTarget(t *testing.T) {
	target := domain.UserRef{ID: "u2", Name: "Dua"}
	s := newTestSession(t, &target)

	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{serverHead("c1", "u9")}})

	require.Len(t, s.heads, 2)
	assert.True(t, s.heads[0].ID.Pending(), "new conversation gets a local placeholder id")
	assert.Equal(t, "u2", s.heads[0].Receiver.ID)
	assert.Same(t, s.heads[0], s.active)
	assert.Equal(t, "u2", s.joinedPeer)

	frames := drainFrames(s)
	require.Len(t, frames, 1)
	assert.Equal(t, actJoin, frames[0].Action)
	assert.Equal(t, "u2", frames[0].ReceiverID)
}

func TestSnapshotReusesExistingHeadForTarget(t *testing.T) {
	target := domain.UserRef{ID: "u2"}
	s := newTestSession(t, &target)

	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{serverHead("c1", "u2")}})

	require.Len(t, s.heads, 1)
	assert.Equal(t, domain.ServerID("c1"), s.active.ID)
}

func TestOptimisticSendThenDeliveryConverges(t *testing.T) {
	s := newTestSession(t, nil)
	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{serverHead("c1", "u2")}})
	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[0]})

	s.applyCmd(sessionCmd{op: opSend, text: "  hello there  "})

	require.Len(t, s.log, 1)
	assert.True(t, s.log[0].ID.Pending())
	assert.Equal(t, "hello there", s.log[0].Text, "text is trimmed before anything sees it")
	assert.Equal(t, "hello there", s.heads[0].LastMessage)

	frames := drainFrames(s)
	require.Len(t, frames, 2) // join, then send
	send := frames[1]
	assert.Equal(t, actSend, send.Action)
	require.NotNil(t, send.ChatID)
	assert.Equal(t, "c1", *send.ChatID)

	// confirmed delivery supersedes the optimistic entry
	confirmed := &domain.Message{
		ID: domain.ServerID("m1"), Text: "hello there", SentAt: testNow,
		SenderID: "self", RecipientID: "u2",
	}
	s.handleEvent(DeliveryEvent{ChatID: "c1", Msg: confirmed})

	require.Len(t, s.log, 1)
	assert.Equal(t, domain.ServerID("m1"), s.log[0].ID)

	// a duplicate delivery of the same id is a no-op
	s.handleEvent(DeliveryEvent{ChatID: "c1", Msg: confirmed})
	assert.Len(t, s.log, 1)
}

func TestSendOnPendingConversationCarriesNullChatID(t *testing.T) {
	target := domain.UserRef{ID: "u2"}
	s := newTestSession(t, &target)
	s.handleEvent(SnapshotEvent{ChatHeads: nil})
	drainFrames(s)

	s.applyCmd(sessionCmd{op: opSend, text: "first ever"})

	frames := drainFrames(s)
	require.Len(t, frames, 1)
	assert.Nil(t, frames[0].ChatID, "no server id yet, the frame carries an explicit null")

	// the delivery assigns the conversation its server id
	s.handleEvent(DeliveryEvent{ChatID: "c7", Msg: &domain.Message{
		ID: domain.ServerID("m1"), Text: "first ever", SentAt: testNow,
		SenderID: "self", RecipientID: "u2",
	}})
	assert.Equal(t, domain.ServerID("c7"), s.active.ID, "placeholder promoted")
}

func TestDeliveryForAnotherConversationOnlyUpdatesItsHead(t *testing.T) {
	s := newTestSession(t, nil)
	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{
		serverHead("c1", "u2"), serverHead("c2", "u3"),
	}})
	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[0]})
	drainFrames(s)

	s.handleEvent(DeliveryEvent{ChatID: "c2", Msg: &domain.Message{
		ID: domain.ServerID("m5"), Text: "psst", SentAt: testNow,
		SenderID: "u3", RecipientID: "self",
	}})

	assert.Empty(t, s.log, "the active log is for u2, a u3 message stays out of it")
	assert.Equal(t, "psst", s.heads[1].LastMessage)
}

func TestHistoryReplacesLogAndMarksSeenOnce(t *testing.T) {
	s := newTestSession(t, nil)
	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{serverHead("c1", "u2")}})
	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[0]})
	s.log = []*domain.Message{{ID: domain.PendingID("stale")}}
	drainFrames(s)

	msgs := []*domain.Message{
		{ID: domain.ServerID("m1"), Text: "hey", SenderID: "self", RecipientID: "u2", SentAt: testNow},
		{ID: domain.ServerID("m2"), Text: "hey back", SenderID: "u2", RecipientID: "self", SentAt: testNow},
	}
	s.handleEvent(HistoryEvent{PeerID: "u2", Msgs: msgs})

	require.Len(t, s.log, 2)
	assert.Equal(t, domain.ServerID("m1"), s.log[0].ID)

	frames := drainFrames(s)
	require.Len(t, frames, 1, "the unseen last message addressed to us gets marked")
	assert.Equal(t, actSeen, frames[0].Action)
	assert.Equal(t, "m2", frames[0].MessageID)
}

func TestHistoryNotMarkedSeenWhenLastMessageIsOwn(t *testing.T) {
	s := newTestSession(t, nil)
	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{serverHead("c1", "u2")}})
	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[0]})
	drainFrames(s)

	s.handleEvent(HistoryEvent{PeerID: "u2", Msgs: []*domain.Message{
		{ID: domain.ServerID("m1"), SenderID: "self", RecipientID: "u2", SentAt: testNow},
	}})
	assert.Empty(t, drainFrames(s))
}

func TestStaleHistoryIsDiscarded(t *testing.T) {
	s := newTestSession(t, nil)
	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{
		serverHead("c1", "u2"), serverHead("c2", "u3"),
	}})
	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[0]})
	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[1]})
	drainFrames(s)

	// a late answer to the u2 join must not leak into the u3 conversation
	s.handleEvent(HistoryEvent{PeerID: "u2", Msgs: []*domain.Message{
		{ID: domain.ServerID("m1"), SenderID: "u2", RecipientID: "self", SentAt: testNow},
	}})
	assert.Empty(t, s.log)

	s.handleEvent(HistoryEvent{PeerID: "u3", Msgs: []*domain.Message{
		{ID: domain.ServerID("m2"), SenderID: "u3", RecipientID: "self", SentAt: testNow},
	}})
	require.Len(t, s.log, 1)
	assert.Equal(t, domain.ServerID("m2"), s.log[0].ID)
}

func TestSwitchingConversationClearsLogBeforeJoin(t *testing.T) {
	s := newTestSession(t, nil)
	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{
		serverHead("c1", "u2"), serverHead("c2", "u3"),
	}})
	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[0]})
	s.handleEvent(HistoryEvent{PeerID: "u2", Msgs: []*domain.Message{
		{ID: domain.ServerID("m1"), SenderID: "u2", RecipientID: "self", SentAt: testNow, Seen: true},
	}})
	require.Len(t, s.log, 1)

	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[1]})

	assert.Empty(t, s.log)
	assert.Equal(t, "u3", s.joinedPeer)
	require.Eventually(t, func() bool {
		log := s.ActiveLog.Get()
		return log.Head == s.heads[1] && len(log.Msgs) == 0
	}, time.Second, 5*time.Millisecond, "the emptied log is broadcast, not just held")
}

func TestSeenAckMarksMessage(t *testing.T) {
	s := newTestSession(t, nil)
	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{serverHead("c1", "u2")}})
	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[0]})
	s.handleEvent(HistoryEvent{PeerID: "u2", Msgs: []*domain.Message{
		{ID: domain.ServerID("m1"), SenderID: "self", RecipientID: "u2", SentAt: testNow},
	}})

	s.handleEvent(SeenAckEvent{MessageID: "m1"})
	assert.True(t, s.log[0].Seen)

	// an ack for an unknown id changes nothing
	s.handleEvent(SeenAckEvent{MessageID: "m404"})
}

func TestDeleteMessage(t *testing.T) {
	s := newTestSession(t, nil)
	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{serverHead("c1", "u2")}})
	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[0]})
	s.applyCmd(sessionCmd{op: opSend, text: "oops"})
	s.handleEvent(HistoryEvent{PeerID: "u2", Msgs: []*domain.Message{
		{ID: domain.ServerID("m1"), Text: "keep", SenderID: "u2", RecipientID: "self", SentAt: testNow, Seen: true},
		{ID: domain.ServerID("m2"), Text: "oops", SenderID: "self", RecipientID: "u2", SentAt: testNow},
	}})
	drainFrames(s)

	s.applyCmd(sessionCmd{op: opDelete, msgID: domain.ServerID("m2")})

	require.Len(t, s.log, 1)
	assert.Equal(t, "keep", s.log[0].Text)
	frames := drainFrames(s)
	require.Len(t, frames, 1)
	assert.Equal(t, actDelete, frames[0].Action)
	assert.Equal(t, "m2", frames[0].MessageID)

	// deleting a message that is not there emits nothing
	s.applyCmd(sessionCmd{op: opDelete, msgID: domain.ServerID("m404")})
	assert.Empty(t, drainFrames(s))
}

func TestDeletePendingMessageStaysLocal(t *testing.T) {
	s := newTestSession(t, nil)
	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{serverHead("c1", "u2")}})
	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[0]})
	s.applyCmd(sessionCmd{op: opSend, text: "never made it"})
	drainFrames(s)
	pendingID := s.log[0].ID

	s.applyCmd(sessionCmd{op: opDelete, msgID: pendingID})

	assert.Empty(t, s.log)
	assert.Empty(t, drainFrames(s), "nothing stored server side, nothing to signal")
}

func TestClearConversation(t *testing.T) {
	s := newTestSession(t, nil)
	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{serverHead("c1", "u2")}})
	s.applyCmd(sessionCmd{op: opSelect, head: s.heads[0]})
	s.handleEvent(HistoryEvent{PeerID: "u2", Msgs: []*domain.Message{
		{ID: domain.ServerID("m1"), SenderID: "u2", RecipientID: "self", SentAt: testNow, Seen: true},
	}})
	drainFrames(s)

	s.applyCmd(sessionCmd{op: opClear})

	assert.Empty(t, s.log)
	frames := drainFrames(s)
	require.Len(t, frames, 1)
	assert.Equal(t, actClear, frames[0].Action)
	require.NotNil(t, frames[0].ChatID)
	assert.Equal(t, "c1", *frames[0].ChatID)
}

func TestClearPendingConversationStaysLocal(t *testing.T) {
	target := domain.UserRef{ID: "u2"}
	s := newTestSession(t, &target)
	s.handleEvent(SnapshotEvent{ChatHeads: nil})
	s.applyCmd(sessionCmd{op: opSend, text: "draft"})
	drainFrames(s)

	s.applyCmd(sessionCmd{op: opClear})

	assert.Empty(t, s.log)
	assert.Empty(t, drainFrames(s))
}

func TestErrorEventReachesSubscribers(t *testing.T) {
	s := newTestSession(t, nil)
	token, ch := s.Errs.Subscribe()
	defer s.Errs.Unsubscribe(token)

	go s.handleEvent(ErrorEvent{Reason: "user is offline"})

	select {
	case reason := <-ch:
		assert.Equal(t, "user is offline", reason)
	case <-time.After(time.Second):
		t.Fatal("error broadcast never arrived")
	}
}

func TestMessageUserOnLiveSession(t *testing.T) {
	s := newTestSession(t, nil)
	s.handleEvent(SnapshotEvent{ChatHeads: []*domain.ChatHead{serverHead("c1", "u2")}})
	drainFrames(s)

	s.applyCmd(sessionCmd{op: opMessageUser, peer: &domain.UserRef{ID: "u5", Name: "Moiz"}})

	require.Len(t, s.heads, 2)
	assert.True(t, s.heads[0].ID.Pending())
	assert.Equal(t, "u5", s.joinedPeer)

	// messaging the same peer again reuses the placeholder
	s.applyCmd(sessionCmd{op: opMessageUser, peer: &domain.UserRef{ID: "u5"}})
	assert.Len(t, s.heads, 2)
}
