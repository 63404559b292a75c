package reacto

import (
	"fmt"

	"github.com/fogfish/opts"
	"github.com/reacto-io/reacto/events"
)

// WithResolver installs the topic filter resolver used to turn declared
// subscription names into binary prefix filters. Defaults to the built-in
// events.TypeResolver.
var WithResolver = opts.ForName[Engine, events.FilterResolver]("resolver")

// WithPlugins appends in-process plugin descriptors to the engine's
// configuration.
func WithPlugins(plugins ...PluginDescriptor) opts.Option[Engine] {
	return opts.Type[Engine](func(e *Engine) error {
		e.plugins = append(e.plugins, plugins...)
		return nil
	})
}

// WithExternals declares participants that will join the rendezvous from
// outside the process.
func WithExternals(externals ...ExternalParticipant) opts.Option[Engine] {
	return opts.Type[Engine](func(e *Engine) error {
		e.externals = append(e.externals, externals...)
		return nil
	})
}

// WithIngressPort overrides the tcp port of the fan-in channel.
func WithIngressPort(port int) opts.Option[Engine] {
	return opts.Type[Engine](func(e *Engine) error {
		e.cfg.IngressPort = port
		return nil
	})
}

// WithEgressPort overrides the tcp port of the fan-out channel.
func WithEgressPort(port int) opts.Option[Engine] {
	return opts.Type[Engine](func(e *Engine) error {
		e.cfg.EgressPort = port
		return nil
	})
}

// WithSyncBasePort overrides the first rendezvous port; participant id k
// then syncs on port+k.
func WithSyncBasePort(port int) opts.Option[Engine] {
	return opts.Type[Engine](func(e *Engine) error {
		e.cfg.SyncBase = port
		return nil
	})
}

// WithChannelNames overrides the inproc names of the ingress and egress
// channels. Engines sharing a process must not share names.
func WithChannelNames(ingress, egress string) opts.Option[Engine] {
	return opts.Type[Engine](func(e *Engine) error {
		if ingress == "" || egress == "" {
			return fmt.Errorf("reacto: channel names must not be empty")
		}
		e.cfg.IngressName = ingress
		e.cfg.EgressName = egress
		return nil
	})
}
