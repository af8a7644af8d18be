package provider

import "context"

// RequestResponse represents a provider that takes one input and returns one output.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Classifier labels the result of one Execute call. Middlewares use the
// label as the metric status and treat anything other than "ok" as a
// failure. Providers that absorb their failures into the output supply
// their own Classifier.
type Classifier[O any] func(output O, err error) string

// DefaultClassifier labels a call "error" when err is set and "ok" otherwise.
func DefaultClassifier[O any](_ O, err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func classifierOf[O any](classify []Classifier[O]) Classifier[O] {
	if len(classify) > 0 && classify[0] != nil {
		return classify[0]
	}
	return DefaultClassifier[O]
}
