package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/reacto-io/reacto"
	"github.com/reacto-io/reacto/events"
	"github.com/reacto-io/reacto/internal/transport"
	"github.com/reacto-io/reacto/pkg/slogx"
	"github.com/spf13/cobra"
)

func newJoinCommand() *cobra.Command {
	var (
		id          int
		host        string
		syncBase    int
		ingressPort int
		egressPort  int
		subscribe   []string
		publish     string
	)

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join a running broker as an external participant",
		Long: `Perform the external participant handshake: connect to the rendezvous
port for the given id, send a ready request, and wait for the broker's
acknowledgment. Afterwards, optionally publish one event to the broker's
ingress port and/or consume filtered events from its egress port.

With --subscribe the command blocks forever, logging every matching
event. Without it, it exits once the handshake (and any publish) is done.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sync := transport.NewSyncRequest(ctx)
			syncAddr := fmt.Sprintf("tcp://%s:%d", host, syncBase+id)
			if err := sync.Dial(syncAddr); err != nil {
				return fmt.Errorf("connect rendezvous %s: %w", syncAddr, err)
			}
			if err := sync.Send(zmq4.NewMsgString("ready")); err != nil {
				return fmt.Errorf("send ready: %w", err)
			}
			if _, err := sync.Recv(); err != nil {
				return fmt.Errorf("await acknowledgment: %w", err)
			}
			slog.Info("released by barrier", slog.Int("id", id))

			if publish != "" {
				if err := publishOne(ctx, host, ingressPort, publish); err != nil {
					return err
				}
			}
			if len(subscribe) == 0 {
				return nil
			}
			return consume(ctx, host, egressPort, subscribe)
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "participant id assigned to this process")
	cmd.Flags().StringVar(&host, "host", "localhost", "broker host")
	cmd.Flags().IntVar(&syncBase, "sync-base-port", reacto.DefaultSyncBasePort, "first rendezvous port")
	cmd.Flags().IntVar(&ingressPort, "ingress-port", reacto.DefaultIngressPort, "broker ingress port")
	cmd.Flags().IntVar(&egressPort, "egress-port", reacto.DefaultEgressPort, "broker egress port")
	cmd.Flags().StringSliceVar(&subscribe, "subscribe", nil, "topic names to consume after the handshake")
	cmd.Flags().StringVar(&publish, "publish", "", "topic name of a single empty-bodied event to publish")
	return cmd
}

func publishOne(ctx context.Context, host string, port int, topic string) error {
	typ, err := events.Parse(topic)
	if err != nil {
		return err
	}
	pub := zmq4.NewPub(ctx)
	addr := fmt.Sprintf("tcp://%s:%d", host, port)
	if err := pub.Dial(addr); err != nil {
		return fmt.Errorf("connect ingress %s: %w", addr, err)
	}
	// A frame sent before the subscription handshake finishes is dropped.
	time.Sleep(100 * time.Millisecond)
	frame, err := events.NewEncoder().Encode(typ, struct{}{})
	if err != nil {
		return err
	}
	if err := pub.Send(zmq4.NewMsg(frame)); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	slog.Info("published", slogx.Topic(topic))
	return nil
}

func consume(ctx context.Context, host string, port int, topics []string) error {
	sub := zmq4.NewSub(ctx)
	addr := fmt.Sprintf("tcp://%s:%d", host, port)
	if err := sub.Dial(addr); err != nil {
		return fmt.Errorf("connect egress %s: %w", addr, err)
	}
	var resolver events.TypeResolver
	for _, topic := range topics {
		filter, err := resolver.Resolve(topic)
		if err != nil {
			return err
		}
		if err := sub.SetOption(zmq4.OptionSubscribe, string(filter)); err != nil {
			return fmt.Errorf("install filter for %s: %w", topic, err)
		}
	}

	for {
		msg, err := sub.Recv()
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}
		env, err := events.Decode(msg.Bytes())
		if err != nil {
			slog.Warn("undecodable frame", slogx.Error(err))
			continue
		}
		slog.Info("event",
			slogx.Topic(env.Type.String()),
			slog.String("id", env.ID.String()),
			slog.Time("ts", env.Timestamp))
	}
}
