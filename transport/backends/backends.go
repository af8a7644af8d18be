// Package backends registers the built-in transport backends.
//
// Import it for its RegisterDefaults function; the backends themselves
// live in transport/nethttp and transport/browser.
package backends

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/xhrkit/transport"
	"github.com/kbukum/xhrkit/transport/browser"
	"github.com/kbukum/xhrkit/transport/nethttp"
)

// RegisterDefaults registers the nethttp and browser backends with the
// transport registry. Calling it more than once is harmless.
func RegisterDefaults() {
	transport.Register(nethttp.Name, func(cfg map[string]any) (transport.Transport, error) {
		var c nethttp.Config
		if err := Decode(cfg, &c); err != nil {
			return nil, fmt.Errorf("nethttp config: %w", err)
		}
		return nethttp.New(c)
	})

	transport.Register(browser.Name, func(cfg map[string]any) (transport.Transport, error) {
		var c browser.Config
		if err := Decode(cfg, &c); err != nil {
			return nil, fmt.Errorf("browser config: %w", err)
		}
		return browser.New(c)
	})
}

// Decode maps a loosely typed config map onto out. Durations may be given
// as strings such as "5s"; unknown keys are rejected.
func Decode(in map[string]any, out any) error {
	if len(in) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
