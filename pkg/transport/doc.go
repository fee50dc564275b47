// Package transport mirrors a tree to remote renderers over WebSocket.
//
// A Hub is a renderer for the cycle package: it keeps the authoritative
// live tree and forwards every Mount and patch batch to connected clients
// as protocol frames. A Client dials a hub and mirrors the stream into its
// own live tree, acknowledging each batch.
//
// Connection flow:
//
//	server                         client
//	  ── Hello{version, session} ──▶
//	  ── Mount{seq, tree} ─────────▶
//	  ── Patches{seq, batch} ──────▶
//	  ◀──────────── Ack{seq} ───────
//	  ◀──── Event{seq, index, name} ─
//
// Sequence numbers count Mount and Patches frames. A client that receives a
// batch out of order, or fails to apply one, reports an Error frame and the
// hub answers with a Mount flagged FlagResync. Events carry the sequence
// number of the tree they were raised on; the hub refuses events raised on a
// tree it has since changed, because indices may have shifted.
//
// Usage:
//
//	hub := transport.NewHub(&transport.HubConfig{Registry: reg})
//	driver := cycle.New(hub)
//	http.ListenAndServe(":8080", hub.Handler())
package transport
