// Package broadcast fans snapshots and change-sets out to push subscribers.
//
// Every registered client belongs to the shared channel and may join any number of
// named channels. Publishing never blocks: each client owns a bounded send buffer and
// a client whose buffer is full is disconnected instead of slowing the publisher.
// There is no replay; a client that connects between publishes receives nothing until
// the next one.
//
// Frames are JSON objects of the form
//
//	{"event":"tokens-refresh","data":[...],"timestamp":"..."}
//
// with events tokens-refresh (full snapshot), token-updates (change-set),
// subscribed, unsubscribed and error.
//
// Sinks receive a copy of every published frame, e.g. KafkaSink.
package broadcast
