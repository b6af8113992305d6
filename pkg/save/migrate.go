package save

import "fmt"

// A migration rewrites an uncompressed body from one version to the next.
// Migrations run in a monotonic chain: a version-1 file passes through
// every registered step until it reaches CurrentVersion.
type migration func(body []byte) ([]byte, error)

// migrations[v] upgrades a body from version v to v+1. The table is empty
// while the format is at its first version; the chain exists so old saves
// keep loading once the format moves.
var migrations = map[uint32]migration{}

// migrate upgrades a body to CurrentVersion. Versions newer than this
// build are refused rather than guessed at.
func migrate(body []byte, version uint32) ([]byte, error) {
	if version > CurrentVersion {
		return nil, fmt.Errorf("save version %d is newer than supported version %d", version, CurrentVersion)
	}
	for version < CurrentVersion {
		step, ok := migrations[version]
		if !ok {
			return nil, fmt.Errorf("no migration from save version %d", version)
		}
		upgraded, err := step(body)
		if err != nil {
			return nil, fmt.Errorf("migrating from version %d: %w", version, err)
		}
		body = upgraded
		version++
	}
	return body, nil
}
