// Package nethttp is the net/http transport backend.
//
// Cancelling the Send context (or calling Abort) aborts the exchange; the
// handle timeout, possibly capped by Config.Timeout, produces a timeout
// event. Relative URLs resolve against Config.Origin, which is also the
// origin used for the same-origin credentials check.
package nethttp
