// Package version exposes the build information of the speechkit binary.
//
// Version, Commit and BuildTime are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/speechkit/version.Version=0.3.0 \
//	  -X github.com/kbukum/speechkit/version.Commit=$(git rev-parse --short HEAD)" ./cmd/speechkit
//
// Unset values fall back to the VCS stamp embedded by the Go toolchain.
package version
