// Package version reports the xhrkit build version.
//
// Values are set at link time and fall back to the module build info:
//
//	go build -ldflags "-X github.com/kbukum/xhrkit/version.Version=1.2.0" ./cmd/xhr
package version
