package order

// StatusChange pairs an order with the status it held in the previous
// snapshot, so observers can render transition-aware messages.
type StatusChange struct {
	Order Order
	Old   Status
}

// Diff is the delta between two successive snapshots of the same
// subscription.
type Diff struct {
	Appeared      []Order
	StatusChanged []StatusChange
}

// Empty reports whether the diff carries no events.
func (d Diff) Empty() bool {
	return len(d.Appeared) == 0 && len(d.StatusChanged) == 0
}

// DiffSnapshots computes which orders appeared and which changed status
// between prev and curr. Orders are matched by id; Appeared preserves
// curr's ordering (the authority returns newest-first and is not
// re-sorted here).
//
// An empty prev establishes a baseline: the first observation is not
// itself a change, so the diff is empty regardless of curr.
func DiffSnapshots(prev, curr []Order) Diff {
	if len(prev) == 0 {
		return Diff{}
	}

	known := make(map[string]Status, len(prev))
	for _, o := range prev {
		known[o.ID] = o.Status
	}

	var d Diff
	for _, o := range curr {
		old, ok := known[o.ID]
		if !ok {
			d.Appeared = append(d.Appeared, o)
			continue
		}
		if old != o.Status {
			d.StatusChanged = append(d.StatusChanged, StatusChange{Order: o, Old: old})
		}
	}
	return d
}
