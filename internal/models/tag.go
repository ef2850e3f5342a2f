package models

import (
	"errors"
	"strings"
)

// Tag is a muscle-group label such as "Chest". Build tags with ParseTag so
// that whitespace and common aliases never produce a silently empty pool.
type Tag string

// ErrEmptyTag is returned by ParseTag for blank input.
var ErrEmptyTag = errors.New("empty muscle group tag")

// Canonical muscle group names shown on the muscle diagram.
const (
	TagChest      Tag = "Chest"
	TagBack       Tag = "Back"
	TagShoulders  Tag = "Shoulders"
	TagBiceps     Tag = "Biceps"
	TagTriceps    Tag = "Triceps"
	TagForearms   Tag = "Forearms"
	TagCore       Tag = "Core"
	TagLegs       Tag = "Legs"
	TagQuads      Tag = "Quads"
	TagHamstrings Tag = "Hamstrings"
	TagGlutes     Tag = "Glutes"
	TagCalves     Tag = "Calves"
	TagCardio     Tag = "Cardio"
	TagFullBody   Tag = "Full Body"
)

// tagAliases maps lowercased spellings to canonical tags. Covers plurals,
// gym shorthand and the anatomical names found in exported libraries.
var tagAliases = map[string]Tag{
	"chest":      TagChest,
	"pecs":       TagChest,
	"pectorals":  TagChest,
	"back":       TagBack,
	"lats":       TagBack,
	"upper back": TagBack,
	"traps":      TagBack,
	"shoulders":  TagShoulders,
	"shoulder":   TagShoulders,
	"delts":      TagShoulders,
	"deltoids":   TagShoulders,
	"biceps":     TagBiceps,
	"bicep":      TagBiceps,
	"triceps":    TagTriceps,
	"tricep":     TagTriceps,
	"forearms":   TagForearms,
	"forearm":    TagForearms,
	"core":       TagCore,
	"abs":        TagCore,
	"abdominals": TagCore,
	"obliques":   TagCore,
	"legs":       TagLegs,
	"leg":        TagLegs,
	"quads":      TagQuads,
	"quadriceps": TagQuads,
	"hamstrings": TagHamstrings,
	"hamstring":  TagHamstrings,
	"hams":       TagHamstrings,
	"glutes":     TagGlutes,
	"glute":      TagGlutes,
	"calves":     TagCalves,
	"calf":       TagCalves,
	"cardio":     TagCardio,
	"full body":  TagFullBody,
	"full-body":  TagFullBody,
	"fullbody":   TagFullBody,
}

// ParseTag trims s and maps known aliases to their canonical tag. Unknown
// labels are kept verbatim (trimmed) so custom libraries still work.
func ParseTag(s string) (Tag, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", ErrEmptyTag
	}
	tag, _ := NormalizeTag(trimmed)
	return tag, nil
}

// NormalizeTag maps a possibly-aliased label to its canonical tag. Returns
// the canonical tag and true if recognized, or the trimmed input and false.
func NormalizeTag(raw string) (Tag, bool) {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := tagAliases[strings.ToLower(trimmed)]; ok {
		return canonical, true
	}
	return Tag(trimmed), false
}

// String implements fmt.Stringer.
func (t Tag) String() string {
	return string(t)
}
