// Package ports defines the interfaces value factories are built on.
// Implementations live in adapters/.
package ports

import "time"

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Random abstracts randomness for testability.
type Random interface {
	// String generates a random string of n characters.
	String(n int) (string, error)
}
