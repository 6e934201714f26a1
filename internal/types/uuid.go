package types

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex item_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

// DeterministicIDWithPrefix derives a short display ID from a seed,
// e.g. `grp_1n4f0qk3b9x2p`. Equal seeds always produce the same ID, so
// totals results computed twice over an unchanged snapshot render
// identically.
func DeterministicIDWithPrefix(prefix, seed string) string {
	h := fnv.New64a()
	h.Write([]byte(seed))
	id := strconv.FormatUint(h.Sum64(), 36)

	if prefix == "" {
		return id
	}
	return fmt.Sprintf("%s_%s", prefix, id)
}

// Identifier prefixes used across the engine
const (
	UUID_PREFIX_LINE_ITEM       = "item"
	UUID_PREFIX_RECURRING_GROUP = "grp"
	UUID_PREFIX_WARNING         = "warn"
)
