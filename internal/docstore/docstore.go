// Package docstore persists named JSON documents as whole blobs.
//
// Every backend offers the same contract: Read returns the last bytes
// written under a name, or ErrNotFound; Write replaces the document.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Read when no document has the given name
var ErrNotFound = errors.New("document not found")

// Store is a key-value store of whole documents
type Store interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Close() error
}

// Backend names accepted by Open
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendBolt     = "bolt"
	BackendMemory   = "memory"
)

// Options selects and configures a backend
type Options struct {
	Backend     string
	Dir         string
	SQLitePath  string
	PostgresURL string
	BoltPath    string
}

// Open creates the backend named in opts
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		return NewFileStore(opts.Dir)
	case BackendSQLite:
		return OpenSQLite(opts.SQLitePath)
	case BackendPostgres:
		return OpenPostgres(opts.PostgresURL)
	case BackendBolt:
		return OpenBolt(opts.BoltPath)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", opts.Backend)
	}
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("document name is required")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid document name: %q", name)
	}
	return nil
}
