// Package reacto is a publish-subscribe event engine for plugin pipelines.
//
// The engine is the broker: it binds a fan-in ingress channel that every
// publisher feeds and a fan-out egress channel that every subscriber
// drinks from, both reachable over tcp and, for plugins sharing the
// process, over inproc. In-process plugins are declared up front as
// PluginDescriptors; each one is wired with a private publish socket, a
// private subscribe socket narrowed to its declared topics, and a
// rendezvous socket for the startup handshake, then started on its own
// goroutine. Out-of-process participants are declared as
// ExternalParticipants and perform the same handshake over tcp.
//
// Startup is gated by a synchronization barrier: the engine refuses to
// relay a single message until every declared participant, in-process or
// external, has sent its ready request and been acknowledged. After the
// barrier releases, the engine forwards ingress traffic to egress
// unconditionally and indefinitely.
//
// Failure semantics are deliberately blunt. Any setup or handshake error
// aborts the engine, a plugin entry point returning an error terminates
// the process, and nothing in the startup path carries a timeout: one
// absent participant stalls the engine forever. There is no persistence,
// no redelivery, and no dynamic registration.
//
// Example:
//
//	engine, err := reacto.New(
//	    reacto.WithPlugins(
//	        reacto.PluginDescriptor{ID: 0, Run: source},
//	        reacto.PluginDescriptor{ID: 1, Subscriptions: []string{"NewImageEvent"}, Run: scorer},
//	    ),
//	    reacto.WithExternals(reacto.ExternalParticipant{ID: 2}),
//	)
//	if err != nil {
//	    return err
//	}
//	return engine.Run(context.Background()) // blocks forever
package reacto
