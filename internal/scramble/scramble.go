// Package scramble implements the lazy Cartesian-product checkpoint
// enumerator (C6), grounded on the original implementation's
// data.scrambling.Scrambler.calc_matrices.
package scramble

import (
	"github.com/foesi/such-route/internal/geo"
)

// Checkpoint is one entry of the input CSV: a coordinate belonging to
// a group, with the region code it lies in.
type Checkpoint struct {
	Position geo.Coordinate
	Group    string
	Region   string
}

// Entry is one scramble enumeration result: the ordered coordinates to
// feed the matrix builder, and the regions to avoid while computing
// it.
type Entry struct {
	Coordinates []geo.Coordinate
	Nogos       []string
}

// sinkGroup and destGroup mirror the original implementation's group
// codes "8" (a fixed waypoint included unconditionally, "jura") and
// "0" (the tour's final destination).
const (
	sinkGroup = "8"
	destGroup = "0"
)

// NogoSelection picks which reading of spec.md's open question on
// nogo-set construction a Scrambler uses.
type NogoSelection int

const (
	// NogoSelectsChosen forbids the regions of the SELECTED checkpoint
	// of each intermediate group — the default, matching the original
	// implementation's nogos.append(elem_i[1]) over the selected tuple.
	NogoSelectsChosen NogoSelection = iota
	// NogoSelectsNonChosen forbids the regions of every checkpoint in a
	// group EXCEPT the one selected.
	NogoSelectsNonChosen
)

// Scrambler enumerates, for every combination of "which checkpoint to
// select" across the intermediate groups, the matrix coordinates
// (the fixed sink and destination plus, under NogoSelectsChosen, every
// group's checkpoints that were not selected, or under
// NogoSelectsNonChosen, only the selected one) and the nogo regions
// implied by the selection.
type Scrambler struct {
	sink      geo.Coordinate
	dest      geo.Coordinate
	groups    [][]Checkpoint
	selection NogoSelection
}

// New builds a Scrambler from the full checkpoint list. groupOrder
// lists the intermediate group codes in the order they should appear
// in the emitted coordinate list, matching the original
// implementation's explicit groups['1']..groups['7'] sequence.
func New(checkpoints []Checkpoint, groupOrder []string, selection NogoSelection) Scrambler {
	byGroup := make(map[string][]Checkpoint)

	var sink, dest geo.Coordinate

	for _, cp := range checkpoints {
		switch cp.Group {
		case sinkGroup:
			sink = cp.Position

			continue
		case destGroup:
			dest = cp.Position
		}

		byGroup[cp.Group] = append(byGroup[cp.Group], cp)
	}

	groups := make([][]Checkpoint, len(groupOrder))
	for i, g := range groupOrder {
		groups[i] = byGroup[g]
	}

	return Scrambler{sink: sink, dest: dest, groups: groups, selection: selection}
}

// Entries enumerates every scramble combination, emitting the
// unconstrained all-checkpoints entry first (spec.md §4.6), followed
// by one entry per combination of selected checkpoints across the
// intermediate groups, in deterministic order (ascending group index,
// input order within a group).
func (s Scrambler) Entries() []Entry {
	var entries []Entry

	entries = append(entries, s.unconstrainedEntry())

	indices := make([]int, len(s.groups))
	s.enumerate(0, indices, &entries)

	return entries
}

func (s Scrambler) unconstrainedEntry() Entry {
	coords := []geo.Coordinate{s.sink}
	for _, group := range s.groups {
		for _, cp := range group {
			coords = append(coords, cp.Position)
		}
	}
	coords = append(coords, s.dest)

	return Entry{Coordinates: coords}
}

func (s Scrambler) enumerate(groupIdx int, selected []int, entries *[]Entry) {
	if groupIdx == len(s.groups) {
		*entries = append(*entries, s.buildEntry(selected))

		return
	}

	for i := range s.groups[groupIdx] {
		selected[groupIdx] = i
		s.enumerate(groupIdx+1, selected, entries)
	}
}

func (s Scrambler) buildEntry(selected []int) Entry {
	coords := []geo.Coordinate{s.sink}
	var nogos []string

	for groupIdx, group := range s.groups {
		selectedIdx := selected[groupIdx]

		for i, cp := range group {
			switch s.selection {
			case NogoSelectsChosen:
				// spec.md §9's default reading: the selected
				// checkpoint's region becomes a nogo, the group's
				// other checkpoints remain candidate stops.
				if i != selectedIdx {
					coords = append(coords, cp.Position)
				}
				if i == selectedIdx {
					nogos = append(nogos, cp.Region)
				}
			case NogoSelectsNonChosen:
				// the inverted reading: only the selected checkpoint
				// remains a candidate stop, and every region the tour
				// does not visit this round becomes a nogo.
				if i == selectedIdx {
					coords = append(coords, cp.Position)
				} else {
					nogos = append(nogos, cp.Region)
				}
			}
		}
	}

	coords = append(coords, s.dest)

	return Entry{Coordinates: coords, Nogos: nogos}
}
