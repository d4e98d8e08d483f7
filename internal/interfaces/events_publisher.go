package interfaces

import "context"

type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	Close() error
}
