package sim

import "fmt"

// Tier identifies one level of the relief administration hierarchy.
// The model follows the archival shorthand Z→P→C→V: Central (中央/省赈务会),
// Province, County, Village. Tiers are strictly ordered parent→child;
// Central has no parent and Village has no child.
type Tier int

const (
	Central Tier = iota
	Province
	County
	Village

	// NumTiers is the fixed depth of the hierarchy.
	NumTiers = 4
)

// TierOrder lists the tiers in top-down update order. The integrator walks
// this slice so that a tier's dispatch is visible to its child within the
// same step; iterating in any other order breaks that contract.
var TierOrder = [NumTiers]Tier{Central, Province, County, Village}

var tierNames = [NumTiers]string{"central", "province", "county", "village"}

// String returns the lowercase tier name ("central", "province", ...).
func (t Tier) String() string {
	if t < 0 || t >= NumTiers {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// Child returns the tier one level down, or false for Village.
func (t Tier) Child() (Tier, bool) {
	if t >= Village {
		return t, false
	}
	return t + 1, true
}

// Parent returns the tier one level up, or false for Central.
func (t Tier) Parent() (Tier, bool) {
	if t <= Central {
		return t, false
	}
	return t - 1, true
}

// IsLeaf reports whether the tier has no child. The leaf tier holds no
// warehouse or in-transit stock; everything it receives is disbursable.
func (t Tier) IsLeaf() bool { return t == Village }

// ParseTier maps a tier name (case-exact, lowercase) to its Tier value.
func ParseTier(name string) (Tier, error) {
	for i, n := range tierNames {
		if n == name {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown tier %q; valid: central, province, county, village", ErrInvalidParameter, name)
}
