// Package event is a small synchronous publish/subscribe bus connecting the
// scroll spy to its observers: Lua hooks, logging and reload notifications.
//
// # Topics
//
// Topics are dot-separated names:
//
//	spy.active.changed      ActiveChanged
//	spy.scroll.completed    ScrollCompleted
//	document.reloaded       DocumentReloaded
//	config.reloaded         ConfigReloaded
//
// Subscriptions use patterns where "*" matches exactly one segment and
// "**" matches the rest of the topic:
//
//	bus.SubscribeFunc("spy.*.changed", fn)  // spy.active.changed
//	bus.SubscribeFunc("spy.**", fn)         // every spy topic
//
// # Delivery
//
// Publish calls matching handlers in subscription order on the caller's
// goroutine. A handler error does not stop delivery; every error is
// returned joined, each wrapped in HandlerError. Panics are recovered into
// PanicError, which matches ErrHandlerPanic.
package event
