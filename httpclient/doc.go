// Package httpclient is the shared outbound transport for speechkit providers.
//
// An Adapter owns a base URL, default headers and a single *http.Client.
// Requests carry their own auth, so one Adapter can serve callers with
// different API keys concurrently. Bodies may be JSON values, raw bytes or a
// *MultipartBody. Every call opens an "http.request" span and, when metrics
// are attached, records a remote.request sample.
//
//	a, err := httpclient.New(httpclient.Config{Name: "siliconflow", BaseURL: url})
//
//	resp, err := httpclient.Post[result](a, ctx, "/images/generations", body,
//	    httpclient.WithRequestAuth(httpclient.BearerAuth(key)))
//
// Failures are *Error values classified by status code; AppError converts
// them into the speechkit error taxonomy. Nothing here retries.
package httpclient
