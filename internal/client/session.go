package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/minglehq/mingle/internal/client/repository"
	"github.com/minglehq/mingle/internal/common"
	"github.com/minglehq/mingle/internal/domain"
	msync "github.com/minglehq/mingle/internal/sync"
)

type ConnState int

const (
	Idle ConnState = iota
	Connecting
	Connected
	Disconnected
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	}
	return "idle"
}

// SessionContext is the identity a messaging session runs under, resolved once
// at construction rather than read ad hoc from ambient storage.
type SessionContext struct {
	SelfID string
	Token  string
	WsURL  string
}

// ConversationLog is the active conversation and its visible message log,
// oldest message first.
type ConversationLog struct {
	Head *domain.ChatHead
	Msgs []*domain.Message
}

// ChatSession owns one live connection to the messaging service for the
// lifetime of a mounted messages view. All session state is mutated on a
// single run goroutine fed by the socket read loop and the operation channel,
// so optimistic updates and server events go through the same merge rules.
type ChatSession struct {
	sc     SessionContext
	target *domain.UserRef // "message this user" navigation target, consumed by the first snapshot

	heads      []*domain.ChatHead
	active     *domain.ChatHead
	log        []*domain.Message
	joinedPeer string // peer of the last join, history snapshots for anyone else are stale

	events chan Event
	cmds   chan sessionCmd
	out    chan outboundFrame

	ChatHeads *msync.Broadcaster[[]*domain.ChatHead]
	ActiveLog *msync.Broadcaster[ConversationLog]
	Errs      *msync.Broadcaster[string]
	ConnState *msync.StateMonitor[ConnState]

	bt   *common.BackgroundTask
	repo *repository.LocalRepository

	now      func() time.Time
	newToken func() string
}

type cmdOp int

const (
	opSelect cmdOp = iota
	opSend
	opDelete
	opClear
	opMessageUser
)

type sessionCmd struct {
	op    cmdOp
	head  *domain.ChatHead
	text  string
	msgID domain.EntityID
	peer  *domain.UserRef
}

// OpenChatSession constructs and connects a messaging session for the current
// user. target, when non-nil, is the peer to open a conversation with as soon
// as the initial snapshot arrives.
func (c *Client) OpenChatSession(target *domain.UserRef) (*ChatSession, error) {
	selfID := c.krm.getUserIDFromKeyring()
	if selfID == "" && c.CurrentUsr != nil {
		selfID = c.CurrentUsr.ID
	}
	if selfID == "" {
		return nil, ErrUnauthorized
	}
	sc := SessionContext{SelfID: selfID, Token: c.AuthToken, WsURL: c.ep.subscribeTo}
	s := newChatSession(sc, target, c.repo)
	s.start()
	if err := s.connect(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func newChatSession(sc SessionContext, target *domain.UserRef, repo *repository.LocalRepository) *ChatSession {
	return &ChatSession{
		sc:        sc,
		target:    target,
		events:    make(chan Event, 16),
		cmds:      make(chan sessionCmd),
		out:       make(chan outboundFrame, 64),
		ChatHeads: msync.NewBroadcaster[[]*domain.ChatHead](),
		ActiveLog: msync.NewBroadcaster[ConversationLog](),
		Errs:      msync.NewBroadcaster[string](),
		ConnState: msync.NewStateMonitor[ConnState](Idle),
		bt:        common.NewBackgroundTask(),
		repo:      repo,
		now:       time.Now,
		newToken:  uuid.NewString,
	}
}

func (s *ChatSession) SelfID() string {
	return s.sc.SelfID
}

func (s *ChatSession) start() {
	s.bt.Run(s.ChatHeads.Broadcast)
	s.bt.Run(s.ActiveLog.Broadcast)
	s.bt.Run(s.Errs.Broadcast)
	s.bt.Run(s.ConnState.Broadcast)
	s.bt.Run(s.run)
}

func (s *ChatSession) connect() error {
	s.ConnState.WriteToChan(Connecting)
	opts := &websocket.DialOptions{
		CompressionMode: websocket.CompressionContextTakeover,
		HTTPHeader:      http.Header{"Authorization": {"Bearer " + s.sc.Token}},
	}
	target := s.sc.WsURL + "?userId=" + url.QueryEscape(s.sc.SelfID)
	conn, resp, err := websocket.Dial(context.Background(), target, opts)
	if err != nil {
		slog.Error(err.Error())
		s.ConnState.WriteToChan(Disconnected)
		return getMostNestedError(err)
	}
	defer resp.Body.Close()
	s.bt.Run(func(shtdwnCtx context.Context) { s.readLoop(shtdwnCtx, conn) })
	s.bt.Run(func(shtdwnCtx context.Context) { s.writeLoop(shtdwnCtx, conn) })
	return nil
}

// Close tears the session down deterministically, the connection must not be
// left dangling when the view unmounts.
func (s *ChatSession) Close() {
	s.ConnState.WriteToChan(Disconnected)
	if err := s.bt.Shutdown(2 * time.Second); err != nil {
		slog.Warn(err.Error())
	}
}

// Operations. Each posts onto the run loop so user actions and server events
// mutate session state from exactly one goroutine.

func (s *ChatSession) SelectConversation(head *domain.ChatHead) {
	s.cmds <- sessionCmd{op: opSelect, head: head}
}

func (s *ChatSession) SendMessage(text string) {
	s.cmds <- sessionCmd{op: opSend, text: text}
}

func (s *ChatSession) DeleteMessage(id domain.EntityID) {
	s.cmds <- sessionCmd{op: opDelete, msgID: id}
}

func (s *ChatSession) ClearConversation() {
	s.cmds <- sessionCmd{op: opClear}
}

// MessageUser opens a conversation with peer, reusing an existing one when the
// peer is already in the list.
func (s *ChatSession) MessageUser(peer domain.UserRef) {
	s.cmds <- sessionCmd{op: opMessageUser, peer: &peer}
}

func (s *ChatSession) run(shtdwnCtx context.Context) {
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		case cmd := <-s.cmds:
			s.applyCmd(cmd)
		case <-shtdwnCtx.Done():
			return
		}
	}
}

func (s *ChatSession) applyCmd(cmd sessionCmd) {
	switch cmd.op {
	case opSelect:
		s.selectConversation(cmd.head)
	case opSend:
		s.sendMessage(cmd.text)
	case opDelete:
		s.deleteMessage(cmd.msgID)
	case opClear:
		s.clearConversation()
	case opMessageUser:
		s.messageUser(*cmd.peer)
	}
}

func (s *ChatSession) handleEvent(ev Event) {
	switch ev := ev.(type) {
	case SnapshotEvent:
		s.applySnapshot(ev)
	case DeliveryEvent:
		s.applyDelivery(ev)
	case HistoryEvent:
		s.applyHistory(ev)
	case SeenAckEvent:
		s.applySeenAck(ev)
	case ErrorEvent:
		s.Errs.Write(ev.Reason)
	}
}

func (s *ChatSession) applySnapshot(ev SnapshotEvent) {
	s.heads = ev.ChatHeads
	s.ConnState.WriteToChan(Connected)
	if s.target != nil {
		target := *s.target
		s.target = nil
		s.messageUser(target)
	}
	s.broadcastHeads()
	s.cacheHeads()
}

func (s *ChatSession) messageUser(peer domain.UserRef) {
	head := s.findHeadByPeer(peer.ID)
	if head == nil {
		// brand-new conversation, synthesize a placeholder until the
		// server assigns it an id
		head = &domain.ChatHead{
			ID:       domain.PendingID(s.newToken()),
			Sender:   domain.UserRef{ID: s.sc.SelfID},
			Receiver: peer,
		}
		s.heads = append([]*domain.ChatHead{head}, s.heads...)
	}
	s.selectConversation(head)
	s.broadcastHeads()
}

// selectConversation makes head active, discards the previous log, and asks
// the service for history. The emptied log is broadcast before any new content
// can arrive.
func (s *ChatSession) selectConversation(head *domain.ChatHead) {
	if head == nil {
		return
	}
	s.active = head
	s.log = nil
	peer := head.Peer(s.sc.SelfID)
	s.joinedPeer = peer.ID
	s.broadcastLog()
	s.emit(outboundFrame{Action: actJoin, SenderID: s.sc.SelfID, ReceiverID: peer.ID})
}

// sendMessage appends an optimistic message and dispatches the send. The
// optimistic entry is never rolled back here, reconciliation happens when the
// confirmed delivery arrives.
func (s *ChatSession) sendMessage(text string) {
	text = strings.TrimSpace(text)
	if text == "" || s.active == nil {
		return
	}
	now := s.now()
	peer := s.active.Peer(s.sc.SelfID)
	msg := &domain.Message{
		ID:          domain.PendingID(s.newToken()),
		Text:        text,
		SentAt:      now,
		SenderID:    s.sc.SelfID,
		RecipientID: peer.ID,
	}
	s.log = append(s.log, msg)
	s.active.LastMessage = text
	s.active.LastMessageAt = now
	if s.findHead(s.active.ID) == nil {
		s.heads = append([]*domain.ChatHead{s.active}, s.heads...)
	}
	s.broadcastLog()
	s.broadcastHeads()
	var chatID *string
	if s.active.ID.Confirmed() {
		chatID = &s.active.ID.Server
	}
	s.emit(outboundFrame{
		Action:     actSend,
		ChatID:     chatID,
		SenderID:   s.sc.SelfID,
		ReceiverID: peer.ID,
		Message:    text,
	})
}

// applyDelivery merges a confirmed message into the log: optimistic entries it
// supersedes collapse away, and a duplicate delivery of an already-present id
// is a no-op. A placeholder conversation is promoted to its server id here.
func (s *ChatSession) applyDelivery(ev DeliveryEvent) {
	if ev.Msg == nil {
		return
	}
	if s.concernsActive(ev.Msg) {
		filtered := make([]*domain.Message, 0, len(s.log)+1)
		present := false
		for _, m := range s.log {
			if m.ID.Pending() && !m.ID.Equal(ev.Msg.ID) {
				continue
			}
			if m.ID.Equal(ev.Msg.ID) {
				present = true
			}
			filtered = append(filtered, m)
		}
		if !present {
			filtered = append(filtered, ev.Msg)
		}
		s.log = filtered
		if s.active.ID.Pending() && ev.ChatID != "" {
			s.active.ID = domain.ServerID(ev.ChatID)
		}
		s.broadcastLog()
	}
	if ev.ChatID != "" {
		if head := s.findHead(domain.ServerID(ev.ChatID)); head != nil {
			head.LastMessage = ev.Msg.Text
			head.LastMessageAt = ev.Msg.SentAt
		}
	}
	s.broadcastHeads()
	s.cacheHeads()
}

// applyHistory replaces the log with the server's ordered list. Snapshots for
// any pair other than the currently joined one are stale and discarded.
func (s *ChatSession) applyHistory(ev HistoryEvent) {
	if s.active == nil || ev.PeerID != s.joinedPeer {
		slog.Debug("discarding history snapshot for a stale conversation", "peer", ev.PeerID)
		return
	}
	s.log = ev.Msgs
	s.broadcastLog()
	if len(ev.Msgs) == 0 {
		return
	}
	last := ev.Msgs[len(ev.Msgs)-1]
	if last.RecipientID == s.sc.SelfID && !last.Seen && last.ID.Confirmed() {
		s.emit(outboundFrame{Action: actSeen, MessageID: last.ID.Server, SenderID: s.sc.SelfID})
	}
}

func (s *ChatSession) applySeenAck(ev SeenAckEvent) {
	id := domain.ServerID(ev.MessageID)
	for _, m := range s.log {
		if m.ID.Equal(id) {
			m.Seen = true
			s.broadcastLog()
			return
		}
	}
}

// deleteMessage removes the message locally and fires the delete signal,
// nothing is rolled back if the service rejects it.
func (s *ChatSession) deleteMessage(id domain.EntityID) {
	filtered := make([]*domain.Message, 0, len(s.log))
	for _, m := range s.log {
		if !m.ID.Equal(id) {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == len(s.log) {
		return
	}
	s.log = filtered
	s.broadcastLog()
	if id.Confirmed() {
		s.emit(outboundFrame{Action: actDelete, MessageID: id.Server, SenderID: s.sc.SelfID})
	}
}

func (s *ChatSession) clearConversation() {
	if s.active == nil {
		return
	}
	s.log = nil
	s.broadcastLog()
	// a pending conversation has nothing stored server side to clear
	if s.active.ID.Confirmed() {
		s.emit(outboundFrame{Action: actClear, ChatID: &s.active.ID.Server, SenderID: s.sc.SelfID})
	}
}

// Helpers & Stuff -----------------------------------------------------------------------------------------------------

func (s *ChatSession) concernsActive(msg *domain.Message) bool {
	if s.active == nil {
		return false
	}
	toPeer := msg.SenderID == s.sc.SelfID && msg.RecipientID == s.joinedPeer
	fromPeer := msg.SenderID == s.joinedPeer && msg.RecipientID == s.sc.SelfID
	return toPeer || fromPeer
}

func (s *ChatSession) findHead(id domain.EntityID) *domain.ChatHead {
	for _, h := range s.heads {
		if h.ID.Equal(id) {
			return h
		}
	}
	return nil
}

func (s *ChatSession) findHeadByPeer(peerID string) *domain.ChatHead {
	for _, h := range s.heads {
		if h.Involves(peerID) {
			return h
		}
	}
	return nil
}

func (s *ChatSession) broadcastHeads() {
	heads := make([]*domain.ChatHead, len(s.heads))
	copy(heads, s.heads)
	s.ChatHeads.Write(heads)
}

func (s *ChatSession) broadcastLog() {
	msgs := make([]*domain.Message, len(s.log))
	copy(msgs, s.log)
	s.ActiveLog.Write(ConversationLog{Head: s.active, Msgs: msgs})
}

func (s *ChatSession) cacheHeads() {
	if s.repo == nil {
		return
	}
	if err := s.repo.ReplaceChatHeads(s.heads...); err != nil {
		slog.Error(err.Error())
	}
}

func (s *ChatSession) emit(f outboundFrame) {
	select {
	case s.out <- f:
	case <-s.bt.GetShtdwnCtx().Done():
	}
}

func (s *ChatSession) readLoop(shtdwnCtx context.Context, conn *websocket.Conn) {
	defer conn.CloseNow()
	for {
		select {
		case <-shtdwnCtx.Done():
			conn.Close(websocket.StatusNormalClosure, "messages view closed")
			return
		default:
			var raw json.RawMessage
			if err := wsjson.Read(shtdwnCtx, conn, &raw); err != nil {
				if websocket.CloseStatus(err) != websocket.StatusNormalClosure &&
					shtdwnCtx.Err() == nil {
					slog.Error(err.Error())
					s.Errs.Write("connection to the messaging service was lost")
					s.ConnState.WriteToChan(Disconnected)
				}
				return
			}
			ev, err := decodeEvent(raw)
			if err != nil {
				// guarded no-op, a malformed payload must not corrupt state
				slog.Warn("dropping undecodable event", "err", err.Error())
				continue
			}
			select {
			case s.events <- ev:
			case <-shtdwnCtx.Done():
				return
			}
		}
	}
}

func (s *ChatSession) writeLoop(shtdwnCtx context.Context, conn *websocket.Conn) {
	for {
		select {
		case f := <-s.out:
			if err := wsjson.Write(shtdwnCtx, conn, f); err != nil {
				if shtdwnCtx.Err() == nil {
					slog.Error(err.Error())
					s.Errs.Write("unable to reach the messaging service")
				}
				return
			}
		case <-shtdwnCtx.Done():
			return
		}
	}
}
