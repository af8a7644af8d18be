// Package errors provides the structured error type shared by the adapter,
// its transports and the CLI.
//
// Transport terminal conditions (network failure, abort, timeout) and
// malformed JSON bodies are expressed as *AppError values so they can be
// logged and recorded on spans, but the adapter never returns them to its
// caller: they are folded into Response.Meta instead.
//
//	if errors.IsTimeout(handle.Err()) {
//	    // the handle delivered transport.EventTimeout
//	}
package errors
