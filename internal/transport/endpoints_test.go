package transport

import (
	"context"
	"testing"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/reacto-io/reacto/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// settle gives the pub/sub sockets time to exchange subscriptions after
// wiring; messages sent before that are dropped by design.
const settle = 200 * time.Millisecond

func testConfig(ingress, egress, syncBase int, tag string) Config {
	return Config{
		IngressPort: ingress,
		EgressPort:  egress,
		SyncBase:    syncBase,
		IngressName: "messages-" + tag,
		EgressName:  "events-" + tag,
	}
}

func recvFrame(t *testing.T, sock zmq4.Socket, timeout time.Duration) ([]byte, bool) {
	t.Helper()
	frames := make(chan []byte, 1)
	go func() {
		msg, err := sock.Recv()
		if err != nil {
			return
		}
		frames <- msg.Bytes()
	}()
	select {
	case frame := <-frames:
		return frame, true
	case <-time.After(timeout):
		return nil, false
	}
}

func TestSyncAddressing(t *testing.T) {
	cfg := testConfig(17559, 17560, 17000, "addr")

	assert.Equal(t, 17000, cfg.SyncPort(0))
	assert.Equal(t, 17003, cfg.SyncPort(3))
	assert.Equal(t, "tcp://*:17002", cfg.SyncTCP(2))
	assert.Equal(t, "inproc://sync-17002", cfg.SyncInproc(2))
}

func TestOpenAndPluginFlow(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(17561, 17562, 17100, "flow")

	eps, err := Open(ctx, cfg)
	require.NoError(t, err)

	filter, err := events.TypeResolver{}.Resolve("NewImageEvent")
	require.NoError(t, err)

	scorer, err := ConnectPlugin(ctx, cfg, 1, [][]byte{filter})
	require.NoError(t, err)
	deaf, err := ConnectPlugin(ctx, cfg, 2, nil)
	require.NoError(t, err)
	time.Sleep(settle)

	t.Run("ingress sees every published frame", func(t *testing.T) {
		frame, err := events.NewEncoder().Encode(events.ImageStored, struct{}{})
		require.NoError(t, err)
		require.NoError(t, scorer.Pub.Send(zmq4.NewMsg(frame)))

		got, ok := recvFrame(t, eps.Ingress, 2*time.Second)
		require.True(t, ok, "ingress did not receive the published frame")
		assert.Equal(t, frame, got)
	})

	t.Run("egress honors plugin filters", func(t *testing.T) {
		matching, err := events.NewEncoder().Encode(events.NewImage, struct{}{})
		require.NoError(t, err)
		other, err := events.NewEncoder().Encode(events.ImageScored, struct{}{})
		require.NoError(t, err)

		require.NoError(t, eps.Egress.Send(zmq4.NewMsg(other)))
		require.NoError(t, eps.Egress.Send(zmq4.NewMsg(matching)))

		got, ok := recvFrame(t, scorer.Sub, 2*time.Second)
		require.True(t, ok, "filtered subscriber received nothing")
		assert.Equal(t, matching, got, "subscriber saw a frame outside its filter")
	})

	t.Run("empty subscription set receives nothing", func(t *testing.T) {
		frame, err := events.NewEncoder().Encode(events.NewImage, struct{}{})
		require.NoError(t, err)
		require.NoError(t, eps.Egress.Send(zmq4.NewMsg(frame)))

		_, ok := recvFrame(t, deaf.Sub, 500*time.Millisecond)
		assert.False(t, ok, "plugin with no subscriptions received a frame")
	})
}

func TestOpenFailsOnBusyPort(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(17563, 17564, 17200, "busy-a")

	_, err := Open(ctx, cfg)
	require.NoError(t, err)

	// Same tcp ports, different inproc names: the tcp bind must fail and
	// there is no fallback port.
	clash := testConfig(17563, 17564, 17200, "busy-b")
	_, err = Open(ctx, clash)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bind egress")
}
