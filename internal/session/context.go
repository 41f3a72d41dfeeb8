package session

import "context"

type storeContextKey struct{}
type deviceContextKey struct{}

// WithStore stores the request's session store in context.
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// FromContext extracts the session store from context.
func FromContext(ctx context.Context) *Store {
	store, _ := ctx.Value(storeContextKey{}).(*Store)
	return store
}

// WithDevice records the device the request's store belongs to.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, deviceContextKey{}, device)
}

// DeviceFromContext returns the device recorded by WithDevice.
func DeviceFromContext(ctx context.Context) string {
	device, _ := ctx.Value(deviceContextKey{}).(string)
	return device
}
