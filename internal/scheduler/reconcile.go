package scheduler

// Reconcile computes the association delta between current and desired task
// identifiers. toRemove keeps the order of current, toAdd the order of
// desired; duplicates in either input are collapsed.
func Reconcile(current, desired []int64) (toAdd, toRemove []int64) {
	currentSet := toSet(current)
	desiredSet := toSet(desired)

	seen := make(map[int64]struct{}, len(current))
	for _, id := range current {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, keep := desiredSet[id]; !keep {
			toRemove = append(toRemove, id)
		}
	}

	clear(seen)
	for _, id := range desired {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, exists := currentSet[id]; !exists {
			toAdd = append(toAdd, id)
		}
	}
	return toAdd, toRemove
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
