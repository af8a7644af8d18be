// Package testserver is a gin fixture server exercising the response shapes
// the adapter has to normalize: JSON with and without the XSSI prefix,
// malformed JSON, a stale Date header, slow and truncated bodies, cookies
// and an echo endpoint. It backs the package tests and the "xhr serve"
// command.
package testserver
