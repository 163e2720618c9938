//go:build !cgo

package sqlkv

import (
	"context"
	"errors"
	"fmt"
)

var errNoCGO = errors.New("sqlkv: this binary was built without CGO support; rebuild with CGO_ENABLED=1")

// EmbeddedConfig describes an embedded Dolt database directory.
type EmbeddedConfig struct {
	Path           string
	Database       string
	CommitterName  string
	CommitterEmail string
}

// OpenEmbedded returns an error in non-CGO builds.
// Point mysql.dsn at a dolt sql-server to use Dolt without CGO.
func OpenEmbedded(_ context.Context, _ EmbeddedConfig) (*Store, error) {
	return nil, fmt.Errorf("embedded dolt requires CGO: %w\n\nTo use Dolt without CGO, run a dolt sql-server and set:\n  td config set storage.backend mysql\n  td config set mysql.dsn 'root@tcp(127.0.0.1:3307)/td'", errNoCGO)
}
