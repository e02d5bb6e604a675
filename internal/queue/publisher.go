package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// handshakeTimeout bounds a dial whose context carries no deadline.
	handshakeTimeout = 5 * time.Second
	// redialAfter is how long publishes skip the broker after a failed dial.
	redialAfter = 5 * time.Second
)

var (
	// ErrDialInProgress is returned while another publish is dialing the broker.
	ErrDialInProgress = errors.New("broker dial in progress")
	// ErrBrokerBackoff is returned while publishes wait out a failed dial.
	ErrBrokerBackoff = errors.New("broker unreachable, backing off")
)

// Publisher sends hit events to RabbitMQ.  The connection is dialed on first
// use and redialed when the broker dropped it; each publish opens its own
// channel since channels must not be shared between goroutines.  Only one
// publish dials at a time and never while holding the lock, so a slow broker
// costs the other publishes nothing.
type Publisher struct {
	url    string
	logger *zap.SugaredLogger
	now    func() time.Time

	mu       sync.Mutex
	conn     *amqp.Connection
	dialing  bool
	nextDial time.Time
}

func NewPublisher(url string, logger *zap.SugaredLogger) *Publisher {
	return &Publisher{url: url, logger: logger, now: time.Now}
}

func (p *Publisher) connection(ctx context.Context) (*amqp.Connection, error) {
	p.mu.Lock()
	switch {
	case p.conn != nil && !p.conn.IsClosed():
		conn := p.conn
		p.mu.Unlock()
		return conn, nil
	case p.dialing:
		p.mu.Unlock()
		return nil, ErrDialInProgress
	case p.now().Before(p.nextDial):
		p.mu.Unlock()
		return nil, ErrBrokerBackoff
	}
	p.dialing = true
	p.mu.Unlock()

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      dialContext(ctx),
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialing = false
	if err != nil {
		p.nextDial = p.now().Add(redialAfter)
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	p.conn = conn
	return conn, nil
}

// dialContext returns an amqp dialer bound to ctx.  The connection deadline
// covers the AMQP handshake; amqp clears it once the connection is open.
func dialContext(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(handshakeTimeout)
		}
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

// PublishHit publishes ev to the hits.recorded queue as a persistent JSON
// message.  Errors are logged and returned; callers are free to ignore them.
func (p *Publisher) PublishHit(ctx context.Context, ev HitEvent) error {
	if err := p.publish(ctx, ev); err != nil {
		p.logger.Warnw("publish hit event failed", "counter", ev.Counter, "count", ev.Count, "error", err)
		return err
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, ev HitEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := p.connection(ctx)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(HitQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", HitQueueName, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close releases the broker connection, if any.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}
