// Package connection provides reconnect spacing for the LIP client.
//
// The bridge's connect timeout is the only spacing the protocol itself
// imposes between reconnect attempts, which hot-loops against a host
// that refuses connections immediately. The client therefore spaces
// attempts with exponential backoff:
//
//  1. Initial delay: 1 second
//  2. Exponential increase: 2s, 4s, 8s, 16s
//  3. Maximum delay: 30 seconds
//  4. Continue at 30s until successful
//  5. Reset to 1s on successful connection
//
// Jitter of up to 25% of the base delay is added so that many clients
// recovering from the same outage do not reconnect in lockstep.
// Setting Initial to zero disables spacing entirely, restoring the
// connect-timeout-only behavior.
package connection
