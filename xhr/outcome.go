package xhr

import "github.com/kbukum/xhrkit/data"

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeAborted = "aborted"
	OutcomeTimeout = "timeout"
)

// Outcome classifies a Response for the provider middlewares, which only
// see Execute's always-nil error otherwise.
//
//	rr := provider.WithMetrics[*data.Request, data.Response](m, xhr.Outcome)(adapter)
func Outcome(resp data.Response, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case resp.Meta.Timeout:
		return OutcomeTimeout
	case resp.Meta.Error && resp.Status == 0 && resp.StatusText == StatusTextAborted:
		return OutcomeAborted
	case resp.Meta.Error:
		return OutcomeError
	default:
		return OutcomeOK
	}
}
