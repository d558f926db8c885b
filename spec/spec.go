// Package spec embeds the OpenAPI specification for the two Roam endpoints
// the client consumes. The stub server serves it at /openapi.yaml so the
// contract and the running stub stay in sync.
package spec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte
