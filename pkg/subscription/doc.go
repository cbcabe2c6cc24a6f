// Package subscription provides the ordered observer registry that
// parsed protocol events are fanned out to.
//
// Observers are invoked synchronously, in registration order, on the
// goroutine driving the read loop. Subscribing the same callback twice
// creates two distinct entries and both receive events. Dispatch
// snapshots the registration list, so an observer may unsubscribe
// itself (or others) during dispatch without corrupting the in-flight
// iteration; the removed observer no longer receives subsequent events.
//
// A panicking observer is isolated: the panic is recovered, reported
// through the failure callback, and delivery continues with the next
// observer.
package subscription
