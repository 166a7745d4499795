package fleet

import (
	"fmt"

	"github.com/praetorian-inc/ssmhosts/pkg/types"
)

// ResolveTarget picks the single record meant by target: an exact instance
// id, then an exact display name, then a unique Filter match.
func ResolveTarget(records []types.InstanceRecord, target string) (types.InstanceRecord, error) {
	if target == "" {
		return types.InstanceRecord{}, fmt.Errorf("no target given")
	}

	for _, r := range records {
		if r.InstanceID == target {
			return r, nil
		}
	}

	var named []types.InstanceRecord
	for _, r := range records {
		if r.DisplayName == target {
			named = append(named, r)
		}
	}
	if len(named) == 1 {
		return named[0], nil
	}
	if len(named) > 1 {
		return types.InstanceRecord{}, fmt.Errorf("%q names %d instances: %v", target, len(named), types.InstanceIDs(named))
	}

	matched := Filter(records, target)
	switch len(matched) {
	case 0:
		return types.InstanceRecord{}, fmt.Errorf("no managed instance matches %q", target)
	case 1:
		return matched[0], nil
	default:
		return types.InstanceRecord{}, fmt.Errorf("%q matches %d instances: %v", target, len(matched), types.InstanceIDs(matched))
	}
}
