// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package workgen

// TierKind classifies a storage tier. Remote storage always holds every
// placed file; cache storage holds the subset admitted by the placement
// planner.
type TierKind int

const (
	// TierRemote is the authoritative tier of last resort.
	TierRemote TierKind = iota + 1
	// TierCache is an optional tier close to the compute resources.
	TierCache
)

func (k TierKind) String() string {
	switch k {
	case TierRemote:
		return "remote"
	case TierCache:
		return "cache"
	default:
		return "unspecified"
	}
}

func (k TierKind) mask() TierMask {
	switch k {
	case TierRemote:
		return 1
	case TierCache:
		return 2
	default:
		return 0
	}
}

// StorageTier names one storage service in the simulated platform.
type StorageTier struct {
	Name string
	Kind TierKind
}

// TierSet is a validated storage topology: exactly one remote tier plus any
// number of cache tiers. Use [NewTierSet] to construct one.
type TierSet struct {
	remote StorageTier
	caches []StorageTier
}

// NewTierSet validates and assembles a storage topology. It returns a
// [ConfigurationError] unless the tiers contain exactly one remote tier;
// a topology with no cache tiers at all is valid, placement then keeps
// every file remote-only.
func NewTierSet(tiers ...StorageTier) (*TierSet, error) {
	var ts TierSet
	remotes := 0
	for _, t := range tiers {
		switch t.Kind {
		case TierRemote:
			remotes++
			ts.remote = t
		case TierCache:
			ts.caches = append(ts.caches, t)
		default:
			return nil, configErrorf("storage tier %q has an unsupported kind", t.Name)
		}
	}
	if remotes != 1 {
		return nil, configErrorf("exactly one remote storage tier is required, got %d", remotes)
	}
	return &ts, nil
}

// Remote returns the single remote tier.
func (ts *TierSet) Remote() StorageTier {
	return ts.remote
}

// Caches returns the cache tiers in configuration order. The returned slice
// must not be modified.
func (ts *TierSet) Caches() []StorageTier {
	return ts.caches
}
