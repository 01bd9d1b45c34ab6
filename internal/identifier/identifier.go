// Package identifier generates short, collision-resistant identifiers used
// to disambiguate coexisting engine instances in log output and in reload
// correlation IDs.
package identifier

import (
	"crypto/rand"
	"fmt"

	"github.com/eknkc/basex"
)

const (
	// alphabet is the alphabet used for encoding identifiers. It is the full
	// base62 alphanumeric range, visually ambiguous characters included;
	// collisions are guarded against by length, not alphabet choice.
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// collisionResistantLength is the number of random bytes used to build
	// an identifier. At this length the birthday bound on collision makes
	// two engines sharing an identifier astronomically unlikely.
	collisionResistantLength = 16
	// prefixEngine is prepended to engine instance identifiers.
	prefixEngine = "engn"
	// prefixReload is prepended to reload-cycle correlation identifiers.
	prefixReload = "rlod"
)

var codec *basex.Encoding

func init() {
	encoding, err := basex.NewEncoding(alphabet)
	if err != nil {
		panic("unable to initialize identifier encoding")
	}
	codec = encoding
}

func random() ([]byte, error) {
	buffer := make([]byte, collisionResistantLength)
	if _, err := rand.Read(buffer); err != nil {
		return nil, fmt.Errorf("unable to read random data: %w", err)
	}
	return buffer, nil
}

func new(prefix string) (string, error) {
	data, err := random()
	if err != nil {
		return "", err
	}
	return prefix + "_" + codec.Encode(data), nil
}

// NewEngine generates a new engine instance identifier.
func NewEngine() (string, error) {
	return new(prefixEngine)
}

// NewReloadCycle generates a new reload-cycle correlation identifier, used to
// tie together the log lines produced while invalidating one changed file's
// transitive dependents.
func NewReloadCycle() (string, error) {
	return new(prefixReload)
}
