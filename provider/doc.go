// Package provider is a small generic provider framework: named factory
// registries for swappable backends and composable RequestResponse
// middleware.
//
// Middleware[I, O] wraps a RequestResponse provider. Use Chain to compose
// several; the first is outermost:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTracing[In, Out]("my-service"),
//	)(rawProvider)
//
// Providers that never return an error, but report failure inside their
// output, pass a Classifier so the middlewares can still tell outcomes apart.
//
// Registries map names to factories:
//
//	reg := provider.NewRegistry[MyProvider]()
//	reg.RegisterFactory("default", myFactory)
//	p, err := reg.Create("default", cfg)
package provider
