// Package transport owns every socket the engine creates: the broker's
// ingress and egress endpoints, the per-plugin publish/subscribe pairs, and
// the request side of the rendezvous handshake.
//
// Each broker endpoint is double-bound, once on tcp for out-of-process
// participants and once on inproc for plugin goroutines sharing the
// process. Sockets are never closed; they live until the process exits.
package transport
