// Package stream exposes the broadcast hub over websockets at /ws.
//
// Every connection joins the shared channel and receives tokens-refresh and
// token-updates events as the poller publishes them. Clients may send
//
//	{"type":"subscribe","channel":"<name>"}
//	{"type":"unsubscribe","channel":"<name>"}
//
// to join or leave named channels; each command is acknowledged with a subscribed,
// unsubscribed or error event. Nothing is sent on connect: clients bootstrap with
// GET /api/tokens and then apply pushed events.
package stream
