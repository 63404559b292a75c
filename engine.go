package reacto

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alphadose/haxmap"
	"github.com/fogfish/opts"
	"github.com/go-zeromq/zmq4"
	"github.com/reacto-io/reacto/events"
	"github.com/reacto-io/reacto/internal/barrier"
	"github.com/reacto-io/reacto/internal/relay"
	"github.com/reacto-io/reacto/internal/transport"
	"github.com/reacto-io/reacto/pkg/slogx"
)

// Default addressing, shared with any out-of-process participant.
const (
	DefaultIngressPort  = 5559
	DefaultEgressPort   = 5560
	DefaultSyncBasePort = 5000

	defaultIngressName = "messages"
	defaultEgressName  = "events"
)

// exit is swapped out in tests that exercise plugin failure handling.
var exit = os.Exit

// Engine is the broker plus the lifecycle of its declared participants.
// Build one with New, then call Run exactly once.
type Engine struct {
	plugins   []PluginDescriptor
	externals []ExternalParticipant
	resolver  events.FilterResolver
	cfg       transport.Config

	participants *haxmap.Map[int, *Participant]
}

// New builds an engine from the given options. It validates the
// participant set (unique, non-negative ids; an entry point per plugin)
// but opens no sockets; all side effects happen in Run.
func New(options ...opts.Option[Engine]) (*Engine, error) {
	e := &Engine{
		resolver: events.TypeResolver{},
		cfg: transport.Config{
			IngressPort: DefaultIngressPort,
			EgressPort:  DefaultEgressPort,
			SyncBase:    DefaultSyncBasePort,
			IngressName: defaultIngressName,
			EgressName:  defaultEgressName,
		},
		participants: haxmap.New[int, *Participant](),
	}
	if err := opts.Apply(e, options); err != nil {
		return nil, err
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) validate() error {
	total := len(e.plugins) + len(e.externals)
	seen := make(map[int]struct{}, total)
	claim := func(id int, kind string) error {
		if id < 0 {
			return fmt.Errorf("reacto: %s id %d is negative", kind, id)
		}
		// The barrier binds rendezvous slots for ids 0..N-1 only; an id
		// beyond that range would dial a slot that never opens and park
		// the engine forever.
		if id >= total {
			return fmt.Errorf("reacto: %s id %d is out of range; %d participants must use ids 0..%d",
				kind, id, total, total-1)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("reacto: duplicate participant id %d", id)
		}
		seen[id] = struct{}{}
		return nil
	}
	for _, p := range e.plugins {
		if p.Run == nil {
			return fmt.Errorf("reacto: plugin %d has no entry point", p.ID)
		}
		if err := claim(p.ID, "plugin"); err != nil {
			return err
		}
	}
	for _, x := range e.externals {
		if err := claim(x.ID, "external participant"); err != nil {
			return err
		}
	}
	return nil
}

// ParticipantCount is the number the barrier waits for: in-process plugins
// plus external participants.
func (e *Engine) ParticipantCount() int {
	return len(e.plugins) + len(e.externals)
}

// Participant returns the runtime state for a launched plugin id.
func (e *Engine) Participant(id int) (*Participant, bool) {
	return e.participants.Get(id)
}

// Run starts the engine: it binds the broker endpoints, wires and spawns
// every in-process plugin, blocks in the barrier until all participants
// have checked in, and then relays ingress traffic to egress forever.
//
// Run only returns on failure. Every returned error is fatal to the
// engine; callers are expected to log it and exit.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("starting event engine",
		slog.Int("plugins", len(e.plugins)),
		slog.Int("externals", len(e.externals)))

	eps, err := transport.Open(ctx, e.cfg)
	if err != nil {
		return err
	}

	for _, desc := range e.plugins {
		if err := e.launch(ctx, desc); err != nil {
			return err
		}
	}

	bar := barrier.New(e.cfg, e.ParticipantCount())
	if err := bar.Await(ctx); err != nil {
		return err
	}

	return relay.Run(eps.Ingress, eps.Egress)
}

// launch wires a plugin's three sockets on the calling goroutine, records
// the participant, and spawns the plugin goroutine. Nothing is spawned
// unless all of the wiring succeeded.
func (e *Engine) launch(ctx context.Context, desc PluginDescriptor) error {
	filters := make([][]byte, 0, len(desc.Subscriptions))
	for _, topic := range desc.Subscriptions {
		filter, err := e.resolver.Resolve(topic)
		if err != nil {
			return fmt.Errorf("reacto: resolve subscription %q for plugin %d: %w", topic, desc.ID, err)
		}
		filters = append(filters, filter)
	}

	socks, err := transport.ConnectPlugin(ctx, e.cfg, desc.ID, filters)
	if err != nil {
		return err
	}
	e.participants.Set(desc.ID, &Participant{ID: desc.ID, sockets: socks})

	go e.runPlugin(desc, socks)
	return nil
}

// runPlugin is the plugin goroutine: rendezvous handshake first, entry
// point second. It never hands control back to the engine; a handshake
// error or an entry point error terminates the process.
func (e *Engine) runPlugin(desc PluginDescriptor, socks *transport.PluginSockets) {
	// The dial spins until the barrier opens this id's slot.
	if err := socks.Sync.Dial(e.cfg.SyncInproc(desc.ID)); err != nil {
		e.pluginFatal(desc.ID, "connect rendezvous", err)
		return
	}
	if err := socks.Sync.Send(zmq4.NewMsgString("ready")); err != nil {
		e.pluginFatal(desc.ID, "send ready", err)
		return
	}
	if _, err := socks.Sync.Recv(); err != nil {
		e.pluginFatal(desc.ID, "await barrier ack", err)
		return
	}
	slog.Info("plugin released by barrier", slog.Int("plugin", desc.ID))

	if err := desc.Run(socks.Pub, socks.Sub, events.NewEncoder()); err != nil {
		e.pluginFatal(desc.ID, "entry point", err)
	}
}

func (e *Engine) pluginFatal(id int, step string, err error) {
	slog.Error("plugin failed, terminating engine",
		slog.Int("plugin", id),
		slog.String("step", step),
		slogx.Error(err))
	exit(1)
}
