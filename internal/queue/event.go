// Package queue defines message payloads exchanged over the message broker
// and the publisher and consumer that move them.
package queue

// HitQueueName is the durable queue hit events are routed to.
const HitQueueName = "hits.recorded"

// HitEvent is published after a counter was incremented.  It carries the
// value the store returned so consumers never have to read the counter back.
type HitEvent struct {
	Counter    string `json:"counter"`
	Count      int64  `json:"count"`
	RecordedAt string `json:"recorded_at"`
}
