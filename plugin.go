package reacto

import (
	"github.com/go-zeromq/zmq4"
	"github.com/reacto-io/reacto/events"
	"github.com/reacto-io/reacto/internal/transport"
)

// EntryPoint is a plugin's long-running body. It is invoked on the
// plugin's own goroutine once the barrier has released every participant,
// with the plugin's private publish and subscribe sockets and a fresh
// encoder whose scratch buffer the plugin may use for outgoing frames.
//
// Entry points are expected to run for the life of the process. Returning
// an error terminates the whole engine; plugins are not supervised or
// restarted. The subscribe socket delivers messages in publish order per
// publisher, nothing more.
type EntryPoint func(pub, sub zmq4.Socket, enc *events.Encoder) error

// PluginDescriptor declares one in-process plugin. Descriptors are built
// once at startup and never mutated; the set of plugins is fixed for the
// life of the engine.
type PluginDescriptor struct {
	// ID must be unique across all participants, external ones included,
	// and the full id set must cover 0..N-1: the id determines the
	// plugin's rendezvous port (sync base + ID), and the barrier only
	// opens slots for the first N ports.
	ID int
	// Subscriptions lists the topic names the plugin consumes. An empty
	// list is valid and means the plugin receives nothing; source-only
	// plugins use that.
	Subscriptions []string
	// Run is the plugin body. Required.
	Run EntryPoint
}

// ExternalParticipant declares a participant that joins from outside the
// process. The engine knows nothing about it except its id: it must
// perform the rendezvous handshake on tcp port sync base + ID before the
// engine will start relaying, and afterwards talks straight to the public
// ingress and egress ports.
type ExternalParticipant struct {
	ID int
}

// Participant is the runtime state of one launched in-process plugin. It
// exists from launch until process exit; there is no shutdown path.
type Participant struct {
	// ID is the plugin's participant id.
	ID int

	sockets *transport.PluginSockets
}
