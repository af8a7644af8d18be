// Package component defines the lifecycle contract for long-lived parts of
// an xhrkit process and a Registry that starts them in order and stops them
// in reverse.
//
//   - Component: Start/Stop/Health
//   - Describable: optional self-description logged at startup
package component
