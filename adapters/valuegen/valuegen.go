// Package valuegen provides the clocks, identifier generators and random
// sources behind "$name" value factories in model definitions.
package valuegen

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/artpar/modelkit/core/definition"
	"github.com/artpar/modelkit/core/field"
	"github.com/artpar/modelkit/ports"
	"github.com/google/uuid"
)

// TokenLength is the length of "$token" values.
const TokenLength = 32

// Factories returns the built-in value factories:
//
//	$now    current time from clk
//	$uuid   identifier from ids
//	$token  random hex string of TokenLength characters from rnd
//
// A nil source leaves its factory out.
func Factories(clk ports.Clock, ids ports.IDGenerator, rnd ports.Random) definition.Factories {
	fs := definition.Factories{}
	if clk != nil {
		fs["now"] = func() any { return clk.Now() }
	}
	if ids != nil {
		fs["uuid"] = func() any { return ids.New() }
	}
	if rnd != nil {
		fs["token"] = func() any {
			s, err := rnd.String(TokenLength)
			if err != nil {
				return field.Missing
			}
			return s
		}
	}
	return fs
}

// Defaults returns Factories backed by the system clock, random UUIDs and
// crypto/rand.
func Defaults() definition.Factories {
	return Factories(SystemClock{}, UUIDs{}, CryptoRandom{})
}

// SystemClock returns the current UTC time.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock is a controllable clock for tests.
type FixedClock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewFixedClock creates a clock stopped at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{current: t}
}

// Now returns the clock's time.
func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// UUIDs generates random (version 4) UUIDs.
type UUIDs struct{}

// New generates a new UUID.
func (UUIDs) New() string {
	return uuid.NewString()
}

// Sequence generates deterministic UUIDs for tests: the counter fills the
// low bytes of an otherwise fixed version 4 UUID.
type Sequence struct {
	counter atomic.Uint64
}

// New returns the next UUID in the sequence, starting at 1.
func (s *Sequence) New() string {
	n := s.counter.Add(1)
	var id uuid.UUID
	id[6] = 0x40
	id[8] = 0x80
	for i := 15; i >= 10 && n > 0; i-- {
		id[i] = byte(n)
		n >>= 8
	}
	return id.String()
}

// Count returns how many identifiers have been generated.
func (s *Sequence) Count() uint64 {
	return s.counter.Load()
}

// CryptoRandom reads from crypto/rand.
type CryptoRandom struct{}

// String generates a random hex string of n characters.
func (CryptoRandom) String(n int) (string, error) {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b)[:n], nil
}

var (
	_ ports.Clock       = SystemClock{}
	_ ports.Clock       = (*FixedClock)(nil)
	_ ports.IDGenerator = UUIDs{}
	_ ports.IDGenerator = (*Sequence)(nil)
	_ ports.Random      = CryptoRandom{}
)
