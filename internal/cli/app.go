package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mesh-intelligence/savedobjects/internal/logging"
	"github.com/mesh-intelligence/savedobjects/pkg/client"
	"github.com/mesh-intelligence/savedobjects/pkg/sqlite"
)

// session is an attached backend and the client on top of it.
type session struct {
	client  *client.RawClient
	backend *sqlite.Backend
}

// Close detaches the backend, writing the snapshot when the sync strategy
// defers it.
func (s *session) Close() error {
	return s.backend.Detach()
}

// open attaches the configured backend and returns a client scoped to the
// configured namespace. The caller must Close the session.
func (a *app) open() (*session, error) {
	registry, err := a.settings.registry()
	if err != nil {
		return nil, err
	}
	cfg, err := a.settings.backendConfig(a.flags.dataDir)
	if err != nil {
		return nil, err
	}

	backend := sqlite.NewBackend(sqlite.WithLogger(logging.WithComponent(a.logger, "sqlite")))
	if err := backend.Attach(cfg); err != nil {
		return nil, sysErrorf("attach backend: %w", err)
	}

	repo := sqlite.NewRepository[json.RawMessage](backend, registry)
	c := client.New[json.RawMessage](repo, registry,
		client.WithNamespace(a.settings.Namespace),
		client.WithLogger(a.logger),
	)
	return &session{client: c, backend: backend}, nil
}

// withSession opens a session, runs fn and closes the session, keeping the
// first error.
func (a *app) withSession(fn func(*session) error) (err error) {
	s, err := a.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = sysErrorf("detach backend: %w", cerr)
		}
	}()
	return fn(s)
}

// readAttributes returns a JSON payload given inline, as @file, or as "-"
// for stdin.
func readAttributes(value string, stdin io.Reader) (json.RawMessage, error) {
	var data []byte
	switch {
	case value == "":
		return json.RawMessage(`{}`), nil
	case value == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		data = b
	case strings.HasPrefix(value, "@"):
		b, err := os.ReadFile(strings.TrimPrefix(value, "@"))
		if err != nil {
			return nil, fmt.Errorf("read attributes file: %w", err)
		}
		data = b
	default:
		data = []byte(value)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("attributes are not valid JSON")
	}
	return json.RawMessage(data), nil
}
