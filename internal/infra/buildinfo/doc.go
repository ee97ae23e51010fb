// Package buildinfo exposes version information injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/kvfile-go/internal/infra/buildinfo.Version=v1.0.0 \
//	    -X github.com/yndnr/kvfile-go/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo
