// Package storage holds the backends that keep the serialized menu blob.
//
// Every backend stores one opaque byte slice per key; encoding and schema
// handling belong to the catalog store.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// DefaultKey is the key the menu blob lives under.
const DefaultKey = "pizzeria_menu_data"

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("storage: not found")

// Driver names a backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverS3       Driver = "s3"
	DriverMemory   Driver = "memory"
)

// Persister loads and saves the menu blob.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Driver() Driver
}

// ParseDriver maps a config value onto a Driver.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(s); d {
	case DriverPostgres, DriverSQLite, DriverS3, DriverMemory:
		return d, nil
	case "":
		return DriverPostgres, nil
	}
	return "", fmt.Errorf("unknown store driver %q", s)
}
