package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"

	"opsdeck/internal/errs"
	"opsdeck/internal/ports"
)

// NATSPublisher emits domain events as JSON messages. Subjects are
// prefixed so several deployments can share one cluster, e.g.
// "opsdeck.asset.disposed".
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

var _ ports.EventPublisher = (*NATSPublisher)(nil)

func NewNATSPublisher(url string, prefix string) (*NATSPublisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("nats url is required")
	}

	conn, err := nats.Connect(url, nats.Name("opsdeck"))
	if err != nil {
		return nil, errs.Wrap(err, "connect nats")
	}

	return &NATSPublisher{
		conn:   conn,
		prefix: strings.TrimSuffix(prefix, "."),
	}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload any) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	trimmedSubject := strings.TrimSpace(subject)
	if trimmedSubject == "" {
		return errors.New("subject is required")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "marshal event payload")
	}

	full := trimmedSubject
	if p.prefix != "" {
		full = p.prefix + "." + trimmedSubject
	}

	if err := p.conn.Publish(full, data); err != nil {
		return errs.Wrapf(err, "publish event %q", full)
	}
	return nil
}

// Close drains pending publishes before disconnecting.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
