// Package relay implements the broker's steady state: pull a message off
// the ingress socket, push it to the egress socket, repeat forever.
package relay

import (
	"fmt"
	"log/slog"

	"github.com/go-zeromq/zmq4"
)

// Run forwards every message from in to out, verbatim. Messages are not
// inspected, transformed, or buffered beyond what the sockets themselves
// do; egress-side topic filtering happens in the transport when the
// message is fanned out to subscribers.
//
// Run never returns under normal operation. A receive or send error means
// a socket was closed underneath the broker, which is unrecoverable.
func Run(in, out zmq4.Socket) error {
	slog.Info("relay started")
	for {
		msg, err := in.Recv()
		if err != nil {
			return fmt.Errorf("relay: receive on ingress: %w", err)
		}
		if err := out.Send(msg); err != nil {
			return fmt.Errorf("relay: forward to egress: %w", err)
		}
	}
}
