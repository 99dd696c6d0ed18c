package timeline

import (
	"sort"
	"time"

	"shiftboard/internal/core"
	"shiftboard/internal/frame"
	"shiftboard/internal/pattern"
)

// ApplyAmendments overlays ts -> label overrides onto labels in place.
// Keys are snapped to their containing base unit first, then checked for
// collisions, in sorted key order — independent of map iteration order. Keys
// outside the frame are silently dropped unless strict is true, in which
// case they raise OutOfBoundsError. Two keys snapping to the same base
// unit is always a fatal AmendmentCollisionError, strict or not.
func ApplyAmendments(fr *frame.Frame, labels []pattern.Label, amendments map[time.Time]pattern.Label, strict bool) error {
	keys := make([]time.Time, 0, len(amendments))
	for ts := range amendments {
		keys = append(keys, ts)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	assigned := make(map[int]bool, len(keys))
	for _, ts := range keys {
		idx, err := fr.IndexAt(ts)
		if err != nil {
			if strict {
				return err
			}
			continue
		}
		if assigned[idx] {
			return core.NewAmendmentCollisionError(idx)
		}
		assigned[idx] = true
		labels[idx] = amendments[ts]
	}
	return nil
}
