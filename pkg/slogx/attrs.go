// Package slogx provides small slog.Attr constructors shared across the
// engine, so log fields keep consistent keys.
package slogx

import "log/slog"

// Error returns an attribute with key "error" and the error's message.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// ByteString returns an attribute rendering a byte slice as a string.
// Handy for filter prefixes, which are short and mostly printable.
func ByteString(key string, value []byte) slog.Attr {
	return slog.String(key, string(value))
}

// Topic returns an attribute with key "topic" for an event type name.
func Topic(name string) slog.Attr {
	return slog.String("topic", name)
}

// Endpoint returns an attribute with key "endpoint" for a socket address.
func Endpoint(addr string) slog.Attr {
	return slog.String("endpoint", addr)
}
