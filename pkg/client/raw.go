package client

import (
	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/mesh-intelligence/savedobjects/pkg/client RawRepository

// RawRepository is a repository whose attributes stay undecoded JSON. The
// HTTP API and the CLI work at this level.
type RawRepository interface {
	types.Repository[json.RawMessage]
}

// RawClient is a client over undecoded JSON attributes.
type RawClient = Client[json.RawMessage]
