// Package lip implements a resilient client for the Lutron Integration
// Protocol, the line-oriented telnet control protocol spoken by Lutron
// bridges and main repeaters.
//
// The client maintains one persistent authenticated connection to a
// single bridge, tolerates transient network failures via automatic
// reconnection with exponential backoff, detects silently dead sockets
// with an application-level heartbeat, and delivers parsed protocol
// events to subscribers in the order their lines were read.
//
// # Basic Usage
//
//	client := lip.NewClient(lip.DefaultConfig("192.168.1.50"))
//	unsub := client.Subscribe(func(msg wire.Message) {
//	    fmt.Println(msg.Mode, msg.IntegrationID, msg.Value)
//	})
//	defer unsub()
//
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	defer client.Stop()
//
//	// Ask for the level of output 31, set output 31 to 75%.
//	client.Query(wire.ModeOutput, 31, 1)
//	client.Action(wire.ModeOutput, 31, 1, 75)
//
// # Resilience
//
// Connect starts two long-lived goroutines: a read loop that parses and
// dispatches inbound lines, and a watchdog that sends a heartbeat query
// on a fixed interval. The watchdog triggers a reconnect when the
// heartbeat write fails or when neither a successful read nor a
// heartbeat acknowledgement has been observed within the liveness
// deadline. Reconnection retries indefinitely with exponential backoff
// until it succeeds or Stop is called; events in flight during teardown
// may be lost but are never duplicated.
package lip
