package eventbus

import (
	"context"
	"errors"
	"reflect"
	"sync"
)

// Handler handles a published event.
type Handler func(ctx context.Context, event any) error

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

var (
	// ErrNilEvent is returned when a nil event is published.
	ErrNilEvent = errors.New("eventbus: nil event")
	// ErrUnexpectedEvent is returned when a typed handler receives another type.
	ErrUnexpectedEvent = errors.New("eventbus: unexpected event type")
)

// Bus is an in-process synchronous event bus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// New constructs an empty bus.
func New() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Publish runs every handler subscribed to the event type and joins their errors.
func (b *Bus) Publish(ctx context.Context, event any) error {
	if event == nil {
		return ErrNilEvent
	}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[TypeName(event)]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers a handler for an event type name.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	if eventType == "" || handler == nil {
		return
	}
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

// On subscribes a handler typed on T. Pointer events are dereferenced.
func On[T any](b *Bus, fn func(ctx context.Context, event T) error) {
	b.Subscribe(TypeOf[T](), func(ctx context.Context, event any) error {
		switch e := event.(type) {
		case T:
			return fn(ctx, e)
		case *T:
			if e == nil {
				return nil
			}
			return fn(ctx, *e)
		default:
			return ErrUnexpectedEvent
		}
	})
}

// TypeName returns the qualified type name of an event value.
func TypeName(event any) string {
	if event == nil {
		return ""
	}
	t := reflect.TypeOf(event)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.String()
}

// TypeOf returns the qualified type name of T.
func TypeOf[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
