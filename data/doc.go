// Package data defines the request and response contract shared by the
// adapter and the layers above it.
//
// A Request is a declarative description of one exchange. A Response has the
// same shape whether the exchange succeeded, failed at the network level,
// timed out, or was aborted; callers inspect Meta to tell them apart.
package data
