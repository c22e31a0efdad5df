package filter

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies one of the fixed filters.
type Kind int

const (
	Grayscale Kind = iota
	EdgeDetect
	Blur
	Sepia
	Invert
	Sketch
)

// kindInfo holds the stable machine name and the human-readable label of a Kind.
type kindInfo struct {
	name  string
	label string
}

var kinds = [...]kindInfo{
	Grayscale:  {"grayscale", "Grayscale"},
	EdgeDetect: {"edge_detect", "Canny Edge Detection"},
	Blur:       {"blur", "Blur"},
	Sepia:      {"sepia", "Sepia"},
	Invert:     {"invert", "Invert Colors"},
	Sketch:     {"sketch", "Sketch"},
}

// aliases are extra spellings accepted by ParseKind.
var aliases = map[string]Kind{
	"gray":  Grayscale,
	"grey":  Grayscale,
	"canny": EdgeDetect,
	"edge":  EdgeDetect,
	"edges": EdgeDetect,
}

// Kinds returns all filters in display order.
func Kinds() []Kind {
	return []Kind{Grayscale, EdgeDetect, Blur, Sepia, Invert, Sketch}
}

// AcceptedNames lists every spelling ParseKind resolves exactly: machine
// names in display order, then display labels, then aliases sorted.
func AcceptedNames() []string {
	names := make([]string, 0, 2*len(kinds)+len(aliases))
	for _, info := range kinds {
		names = append(names, info.name)
	}
	for _, info := range kinds {
		if !strings.EqualFold(info.label, info.name) {
			names = append(names, info.label)
		}
	}
	extra := make([]string, 0, len(aliases))
	for alias := range aliases {
		extra = append(extra, alias)
	}
	sort.Strings(extra)
	return append(names, extra...)
}

func (k Kind) valid() bool {
	return k >= Grayscale && k <= Sketch
}

// String returns the machine name of the filter, e.g. "edge_detect".
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// Label returns the display name of the filter, e.g. "Canny Edge Detection".
func (k Kind) Label() string {
	if !k.valid() {
		return k.String()
	}
	return kinds[k].label
}

// OutputChannels reports how many channels Apply produces for an input
// with the given channel count.
func (k Kind) OutputChannels(inputChannels int) int {
	switch k {
	case Grayscale, EdgeDetect, Sketch:
		return 1
	case Sepia:
		return 3
	default:
		return inputChannels
	}
}

// RequiresColor reports whether the filter rejects 1-channel input.
func (k Kind) RequiresColor() bool {
	switch k {
	case Grayscale, EdgeDetect, Sepia, Sketch:
		return true
	}
	return false
}

// ParseKind resolves a filter by machine name, display label or alias.
// Matching is case-insensitive and ignores surrounding whitespace;
// hyphens and spaces are treated as underscores.
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	norm := strings.NewReplacer("-", "_", " ", "_").Replace(key)

	for i, info := range kinds {
		if norm == info.name || key == strings.ToLower(info.label) {
			return Kind(i), nil
		}
	}
	if k, ok := aliases[norm]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: unknown filter %q", ErrInvalidParams, s)
}
