// Package transport defines the XMLHttpRequest-style primitive the adapter
// drives, and the pieces shared by its backends: the body Payload variant,
// the raw response header block format, and response body decoding.
//
// A Handle runs at most one exchange. Send delivers exactly one terminal
// Event on the returned channel and then closes it. Status, headers and
// response body are readable once the event has been received.
//
// Backends live in subpackages (nethttp, browser) and are looked up by name
// through a Registry.
package transport
