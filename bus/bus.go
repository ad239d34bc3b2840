// Package bus is a small in-process pub/sub used to expose node state to
// monitors. Topics are slash-free token paths; subscriptions may use "+" for
// one level and a trailing "#" for any remaining levels. Retained messages are
// replayed to new matching subscribers.
package bus

import (
	"strings"
	"sync"
)

// Wildcards.
const (
	One  = "+"
	Tail = "#"
)

// Topic is a sequence of tokens.
type Topic []string

// T builds a topic from tokens.
func T(tokens ...string) Topic { return Topic(tokens) }

func (t Topic) String() string { return strings.Join(t, "/") }

// Match reports whether the concrete topic t is selected by filter f.
func (f Topic) Match(t Topic) bool {
	for i, tok := range f {
		if tok == Tail {
			return i == len(f)-1
		}
		if i >= len(t) {
			return false
		}
		if tok != One && tok != t[i] {
			return false
		}
	}
	return len(f) == len(t)
}

// Message is a single publication.
type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
}

// Subscription is a filtered message queue owned by a Connection.
type Subscription struct {
	filter Topic
	ch     chan *Message
	conn   *Connection
}

func (s *Subscription) Topic() Topic             { return s.filter }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// deliver never blocks: a full queue loses its oldest entry.
func (s *Subscription) deliver(m *Message) {
	for {
		select {
		case s.ch <- m:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

type node struct {
	children map[string]*node
	retained *Message
}

// Bus routes messages between connections.
type Bus struct {
	mu       sync.Mutex
	qLen     int
	subs     []*Subscription
	retained node
}

// NewBus creates a bus with the given per-subscription queue length.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{qLen: queueLen}
}

// NewMessage is a convenience constructor.
func (b *Bus) NewMessage(t Topic, payload any, retained bool) *Message {
	return &Message{Topic: t, Payload: payload, Retained: retained}
}

// Publish delivers msg to every matching subscriber. A retained message with a
// nil payload clears the retained value for its topic.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if msg.Retained {
		b.retain(msg)
	}
	for _, s := range b.subs {
		if s.filter.Match(msg.Topic) {
			s.deliver(msg)
		}
	}
}

func (b *Bus) retain(msg *Message) {
	n := &b.retained
	path := []*node{n}
	for _, tok := range msg.Topic {
		if n.children == nil {
			if msg.Payload == nil {
				return
			}
			n.children = make(map[string]*node)
		}
		c, ok := n.children[tok]
		if !ok {
			if msg.Payload == nil {
				return
			}
			c = &node{}
			n.children[tok] = c
		}
		n = c
		path = append(path, n)
	}
	if msg.Payload != nil {
		n.retained = msg
		return
	}
	n.retained = nil
	for i := len(msg.Topic) - 1; i >= 0; i-- {
		c := path[i+1]
		if c.retained != nil || len(c.children) != 0 {
			break
		}
		delete(path[i].children, msg.Topic[i])
	}
}

// replay walks the retained tree and sends every value selected by filter.
func (b *Bus) replay(n *node, filter Topic, s *Subscription) {
	if len(filter) == 0 {
		if n.retained != nil {
			s.deliver(n.retained)
		}
		return
	}
	switch filter[0] {
	case Tail:
		b.replayAll(n, s)
	case One:
		for _, c := range n.children {
			b.replay(c, filter[1:], s)
		}
	default:
		if c, ok := n.children[filter[0]]; ok {
			b.replay(c, filter[1:], s)
		}
	}
}

func (b *Bus) replayAll(n *node, s *Subscription) {
	if n.retained != nil {
		s.deliver(n.retained)
	}
	for _, c := range n.children {
		b.replayAll(c, s)
	}
}

func (b *Bus) add(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
	b.replay(&b.retained, s.filter, s)
}

func (b *Bus) remove(s *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, x := range b.subs {
		if x == s {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Connection groups the subscriptions of one client.
type Connection struct {
	bus  *Bus
	id   string
	mu   sync.Mutex
	subs []*Subscription
}

// NewConnection creates a connection bound to this bus.
func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }

// Publish sends msg via the bus.
func (c *Connection) Publish(msg *Message) { c.bus.Publish(msg) }

// Subscribe registers filter and replays matching retained messages.
func (c *Connection) Subscribe(filter Topic) *Subscription {
	s := &Subscription{filter: filter, ch: make(chan *Message, c.bus.qLen), conn: c}
	c.mu.Lock()
	c.subs = append(c.subs, s)
	c.mu.Unlock()
	c.bus.add(s)
	return s
}

// Unsubscribe removes s and closes its channel.
func (c *Connection) Unsubscribe(s *Subscription) {
	c.mu.Lock()
	for i, x := range c.subs {
		if x == s {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	if c.bus.remove(s) {
		close(s.ch)
	}
}

// Disconnect closes every subscription owned by c.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, s := range subs {
		if c.bus.remove(s) {
			close(s.ch)
		}
	}
}

// NewMessage is a convenience constructor.
func (c *Connection) NewMessage(t Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(t, payload, retained)
}
