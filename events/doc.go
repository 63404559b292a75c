// Package events defines the event taxonomy of the image pipeline and the
// binary envelope format that travels over the broker.
//
// Every message on the wire is a single frame laid out as a fixed-size
// type tag followed by a JSON body:
//
//	[2 bytes, big-endian Type][JSON header + payload]
//
// The tag doubles as the subscription filter: subscribers install the tag
// bytes of the types they care about as a prefix filter, and the broker
// never looks past it. The engine treats the tag as opaque bytes; only this
// package knows it is a uint16.
//
// Design decisions:
//   - Prefix filtering: matching happens on raw bytes at the transport
//     layer, so the tag must be a stable, deterministic function of the
//     event type name
//   - Opaque to the broker: the relay forwards frames verbatim and never
//     decodes them
//   - Pluggable resolution: the FilterResolver interface keeps the
//     name-to-prefix mapping swappable; TypeResolver is the default
package events
