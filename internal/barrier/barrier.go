// Package barrier implements the startup rendezvous that holds the broker
// back until every declared participant has checked in.
//
// Each participant id gets its own reply socket at a deterministic address
// (sync base port + id, plus the matching inproc name). The barrier binds
// those slots one id at a time in ascending order and blocks on each until
// a ready request arrives; only after all of them have arrived does it fan
// the acknowledgments back out. Binding incrementally is deliberate: a
// participant whose slot is not open yet simply keeps retrying its connect
// at the transport layer, so no bind-before-connect ordering is imposed on
// the launcher.
//
// There are no timeouts. A participant that never connects blocks the
// barrier, and with it the whole engine, forever.
package barrier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-zeromq/zmq4"
	"github.com/reacto-io/reacto/internal/transport"
)

// State tracks one participant's progress through the handshake.
type State uint32

const (
	// AwaitingConnection means the slot is bound and no request has
	// arrived yet.
	AwaitingConnection State = iota
	// ReceivedReady means the participant's ready request arrived.
	ReceivedReady
	// AckSent means the barrier replied; the participant is released.
	AckSent
)

func (s State) String() string {
	switch s {
	case AwaitingConnection:
		return "awaiting-connection"
	case ReceivedReady:
		return "received-ready"
	case AckSent:
		return "ack-sent"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

// Session is the live handshake state for one participant id. The reply
// socket is retained across both phases and, like every engine socket,
// never closed.
type Session struct {
	ID   int
	Addr string

	state atomic.Uint32
	sock  zmq4.Socket
}

// State reports the session's current handshake state.
func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(next State) { s.state.Store(uint32(next)) }

// Barrier rendezvous-checks a fixed number of participants.
type Barrier struct {
	cfg   transport.Config
	total int

	mu       sync.Mutex
	sessions []*Session
}

// New returns a barrier for total participants with ids 0..total-1.
func New(cfg transport.Config, total int) *Barrier {
	return &Barrier{cfg: cfg, total: total}
}

// Sessions returns a snapshot of the sessions created so far, in bind
// order.
func (b *Barrier) Sessions() []*Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Session, len(b.sessions))
	copy(out, b.sessions)
	return out
}

// Await blocks until every participant has sent its ready request, then
// acknowledges each of them. It returns nil only once all acknowledgments
// are on the wire; any bind, receive, or send error is returned as-is and
// the engine is unrecoverable from that point.
func (b *Barrier) Await(ctx context.Context) error {
	for id := 0; id < b.total; id++ {
		session, err := b.openSlot(ctx, id)
		if err != nil {
			return err
		}
		if _, err := session.sock.Recv(); err != nil {
			return fmt.Errorf("barrier: receive ready from participant %d: %w", id, err)
		}
		session.setState(ReceivedReady)
		slog.Info("participant ready", slog.Int("id", id), slog.String("addr", session.Addr))
	}

	// Release in reverse bind order. Nothing depends on this order, it
	// just drains the retained sockets like a stack.
	sessions := b.Sessions()
	for i := len(sessions) - 1; i >= 0; i-- {
		session := sessions[i]
		if err := session.sock.Send(zmq4.NewMsgString("ok")); err != nil {
			return fmt.Errorf("barrier: acknowledge participant %d: %w", session.ID, err)
		}
		session.setState(AckSent)
		slog.Info("participant released", slog.Int("id", session.ID))
	}
	return nil
}

func (b *Barrier) openSlot(ctx context.Context, id int) (*Session, error) {
	sock := zmq4.NewRep(ctx)
	tcpAddr := b.cfg.SyncTCP(id)
	if err := sock.Listen(tcpAddr); err != nil {
		return nil, fmt.Errorf("barrier: bind %s: %w", tcpAddr, err)
	}
	inprocAddr := b.cfg.SyncInproc(id)
	if err := sock.Listen(inprocAddr); err != nil {
		return nil, fmt.Errorf("barrier: bind %s: %w", inprocAddr, err)
	}
	slog.Debug("rendezvous slot bound", slog.Int("id", id), slog.Int("port", b.cfg.SyncPort(id)))

	session := &Session{ID: id, Addr: inprocAddr, sock: sock}
	b.mu.Lock()
	b.sessions = append(b.sessions, session)
	b.mu.Unlock()
	return session, nil
}
