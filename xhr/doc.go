// Package xhr is the transport adapter: it turns a data.Request into a
// normalized data.Response by driving an XMLHttpRequest-style
// transport.Handle.
//
// Execute never fails. Network errors, aborts and timeouts are absorbed
// into the Response (Meta.Error, Meta.Timeout, Status 0) so callers handle
// every outcome through one value:
//
//	adapter := xhr.New(t)
//	resp, _ := adapter.Execute(ctx, &data.Request{Method: "GET", URL: "/api/users"})
//	if resp.Meta.Error {
//	    // status 0 on abort or timeout, last seen status otherwise
//	}
//
// Responses whose content-type mentions json are parsed automatically,
// with the )]}', anti-hijacking prefix stripped. A Date header older than
// the send time marks the response as cached.
package xhr
