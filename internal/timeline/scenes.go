package timeline

import (
	"sort"
	"strings"

	"pilotcast/internal/script"
)

// Coverage turns authored scenes into a list that covers [0, end] exactly:
// each scene starts where the previous one ends and the last ends at end.
//
// Invalid scenes (to <= from) are dropped. An empty result becomes a single
// default scene. A leading default scene fills [0, first.from). Overlaps are
// resolved in favour of the earlier scene; a scene ending inside its
// predecessor is dropped. Gaps extend the earlier scene.
func Coverage(authored []script.Scene, end float64) []Scene {
	valid := make([]Scene, 0, len(authored))
	for _, s := range authored {
		if !s.Valid() || s.ToSec <= 0 {
			continue
		}
		id := strings.TrimSpace(s.ID)
		if id == "" {
			id = DefaultSceneID
		}
		camera := strings.TrimSpace(s.Camera)
		if camera == "" {
			camera = DefaultCamera
		}
		from := s.FromSec
		if from < 0 {
			from = 0
		}
		valid = append(valid, Scene{ID: id, FromSec: from, ToSec: s.ToSec, Camera: camera})
	}
	if len(valid) == 0 {
		return []Scene{{ID: DefaultSceneID, FromSec: 0, ToSec: end, Camera: DefaultCamera}}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].FromSec < valid[j].FromSec
	})

	out := make([]Scene, 0, len(valid)+1)
	if valid[0].FromSec > 0 {
		out = append(out, Scene{ID: DefaultSceneID, FromSec: 0, ToSec: valid[0].FromSec, Camera: DefaultCamera})
	}
	for _, scene := range valid {
		if len(out) == 0 {
			out = append(out, scene)
			continue
		}
		prev := &out[len(out)-1]
		if scene.ToSec <= prev.ToSec {
			continue
		}
		if scene.FromSec > prev.ToSec {
			prev.ToSec = scene.FromSec
		} else {
			scene.FromSec = prev.ToSec
		}
		out = append(out, scene)
	}
	if last := &out[len(out)-1]; last.ToSec < end {
		last.ToSec = end
	}
	return out
}
