package transport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/reacto-io/reacto/pkg/slogx"
)

// dialRetry is the pause between connect attempts against an endpoint that
// is not bound yet. Rendezvous sockets dial with unlimited retries so a
// participant can connect before the barrier has opened its slot.
const dialRetry = 10 * time.Millisecond

// Config carries the engine's addressing scheme. The zero value is not
// usable; the root package fills in defaults before handing it down.
type Config struct {
	// IngressPort is the tcp port of the many-publishers fan-in channel.
	IngressPort int
	// EgressPort is the tcp port of the one-publisher fan-out channel.
	EgressPort int
	// SyncBase is the first rendezvous port; participant id k syncs on
	// SyncBase + k.
	SyncBase int
	// IngressName and EgressName are the inproc endpoint names used by
	// plugin goroutines inside the broker process.
	IngressName string
	EgressName  string
}

// SyncPort returns the rendezvous port assigned to a participant id.
func (c Config) SyncPort(id int) int { return c.SyncBase + id }

// SyncTCP returns the tcp rendezvous endpoint for a participant id, bound
// on all interfaces.
func (c Config) SyncTCP(id int) string {
	return fmt.Sprintf("tcp://*:%d", c.SyncPort(id))
}

// SyncInproc returns the local rendezvous endpoint for a participant id,
// keyed by its port number.
func (c Config) SyncInproc(id int) string {
	return fmt.Sprintf("inproc://sync-%d", c.SyncPort(id))
}

func (c Config) ingressInproc() string { return "inproc://" + c.IngressName }
func (c Config) egressInproc() string  { return "inproc://" + c.EgressName }

// Endpoints holds the broker's two long-lived channels.
type Endpoints struct {
	// Ingress receives everything any publisher sends.
	Ingress zmq4.Socket
	// Egress fans received messages out to filtered subscribers.
	Egress zmq4.Socket
}

// Open binds the broker's egress and ingress sockets on their tcp ports
// and inproc names. There is no fallback addressing: any bind failure is
// returned and the engine treats it as fatal. The sockets stay open for
// the life of the process.
func Open(ctx context.Context, cfg Config) (*Endpoints, error) {
	egress := zmq4.NewPub(ctx)
	if err := egress.Listen(fmt.Sprintf("tcp://*:%d", cfg.EgressPort)); err != nil {
		return nil, fmt.Errorf("transport: bind egress tcp port %d: %w", cfg.EgressPort, err)
	}
	if err := egress.Listen(cfg.egressInproc()); err != nil {
		return nil, fmt.Errorf("transport: bind egress %s: %w", cfg.egressInproc(), err)
	}

	ingress := zmq4.NewSub(ctx)
	if err := ingress.Listen(fmt.Sprintf("tcp://*:%d", cfg.IngressPort)); err != nil {
		return nil, fmt.Errorf("transport: bind ingress tcp port %d: %w", cfg.IngressPort, err)
	}
	if err := ingress.Listen(cfg.ingressInproc()); err != nil {
		return nil, fmt.Errorf("transport: bind ingress %s: %w", cfg.ingressInproc(), err)
	}
	// Empty prefix: the broker sees every message regardless of topic.
	if err := ingress.SetOption(zmq4.OptionSubscribe, ""); err != nil {
		return nil, fmt.Errorf("transport: subscribe-all on ingress: %w", err)
	}

	slog.Debug("egress bound", slog.Int("port", cfg.EgressPort), slogx.Endpoint(cfg.egressInproc()))
	slog.Debug("ingress bound", slog.Int("port", cfg.IngressPort), slogx.Endpoint(cfg.ingressInproc()))
	return &Endpoints{Ingress: ingress, Egress: egress}, nil
}

// PluginSockets is the private socket bundle wired for one in-process
// plugin before its goroutine starts.
type PluginSockets struct {
	// Pub feeds the broker's ingress.
	Pub zmq4.Socket
	// Sub consumes the broker's egress, narrowed to the installed filters.
	Sub zmq4.Socket
	// Sync is the request side of the rendezvous handshake. It is created
	// here but dialed from the plugin goroutine via DialSync, so the
	// connect attempt can outwait a slot the barrier has not opened yet.
	Sync zmq4.Socket
}

// ConnectPlugin opens the publish and subscribe sockets for a plugin over
// the broker's inproc endpoints and installs the given subscription
// filters. A plugin with no filters subscribes to nothing and will never
// receive a message.
func ConnectPlugin(ctx context.Context, cfg Config, id int, filters [][]byte) (*PluginSockets, error) {
	pub := zmq4.NewPub(ctx)
	if err := pub.Dial(cfg.ingressInproc()); err != nil {
		return nil, fmt.Errorf("transport: plugin %d connect pub to %s: %w", id, cfg.ingressInproc(), err)
	}

	sub := zmq4.NewSub(ctx)
	if err := sub.Dial(cfg.egressInproc()); err != nil {
		return nil, fmt.Errorf("transport: plugin %d connect sub to %s: %w", id, cfg.egressInproc(), err)
	}
	for _, filter := range filters {
		if err := sub.SetOption(zmq4.OptionSubscribe, string(filter)); err != nil {
			return nil, fmt.Errorf("transport: plugin %d install filter %q: %w", id, filter, err)
		}
		slog.Debug("filter installed", slog.Int("plugin", id), slogx.ByteString("filter", filter))
	}

	sync := NewSyncRequest(ctx)
	slog.Debug("plugin sockets wired", slog.Int("plugin", id), slog.Int("filters", len(filters)))
	return &PluginSockets{Pub: pub, Sub: sub, Sync: sync}, nil
}

// NewSyncRequest creates the request side of a rendezvous handshake. The
// socket retries its connect indefinitely, which stands in for the
// queue-until-bound behavior the barrier's incremental binds depend on.
func NewSyncRequest(ctx context.Context) zmq4.Socket {
	return zmq4.NewReq(ctx,
		zmq4.WithDialerRetry(dialRetry),
		zmq4.WithDialerMaxRetries(-1))
}
