//go:build tools

// Package tools lists the development tools used with the portal.
// They are run with `go run pkg@version` or installed with `go install`,
// so none of them appear in go.mod.
package tools

// mockgen regenerates internal/mocks from the interfaces in internal/ports:
//
//	go generate ./internal/mocks
//
// Air reloads cmd/portal on template or Go changes during development:
//
//	go install github.com/air-verse/air@v1.63.0
//	DEV=true air --build.cmd "go build -o ./tmp/portal ./cmd/portal" --build.bin ./tmp/portal
