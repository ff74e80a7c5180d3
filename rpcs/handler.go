package rpcs

import "context"

// Handler handles a decoded request body and returns the
// response to encode, or nil for an empty response
type Handler interface {
	Handle(ctx context.Context, v interface{}) (interface{}, error)
}

// HandlerFunc allows functions to act as a Handler
type HandlerFunc func(ctx context.Context, v interface{}) (interface{}, error)

// Handle is the implementation of Handler for HandlerFunc
func (f HandlerFunc) Handle(ctx context.Context, v interface{}) (interface{}, error) {
	return f(ctx, v)
}

// EntityFactory creates the instances request bodies are decoded
// into. A factory that returns nil declares that the handler
// expects no body
type EntityFactory interface {
	Create() interface{}
}

// EntityFactoryFunc allows functions to act as an EntityFactory
type EntityFactoryFunc func() interface{}

// Create is the implementation of EntityFactory for EntityFactoryFunc
func (f EntityFactoryFunc) Create() interface{} {
	return f()
}

// NoBody is the EntityFactory of handlers that expect no body
var NoBody EntityFactory = EntityFactoryFunc(func() interface{} { return nil })
