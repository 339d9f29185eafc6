package alertpanel

import (
	"strings"
	"unicode/utf16"
)

// Tag badge palettes. Both tables have the same length and are indexed together.
var (
	tagFillColors = [...]string{
		"#D32D20", "#1E72B8", "#B240A2", "#705DA0", "#466803",
		"#497A3C", "#3D71AA", "#B15415", "#890F02", "#6E6E6E",
		"#0A437C", "#6D1F62", "#584477", "#4C7A3F", "#2F4F4F",
		"#BF1B00", "#7662B1", "#8A2EB8", "#517A00", "#000000",
		"#3F6833", "#2F575E", "#99440A", "#AE561A", "#0E4AB4",
		"#58140C", "#052B51", "#511749", "#3F2B5B",
	}

	tagBorderColors = [...]string{
		"#FF7368", "#459EE7", "#E069CF", "#9683C6", "#6C8E29",
		"#76AC68", "#6AA4E2", "#E7823D", "#AF3528", "#9B9B9B",
		"#3069A2", "#934588", "#7E6A9D", "#88C477", "#557575",
		"#E54126", "#A694DD", "#B054DE", "#8FC426", "#262626",
		"#658E59", "#557D84", "#BF6A30", "#FF9B53", "#3470DA",
		"#7E3A32", "#2B5177", "#773D6F", "#655181",
	}
)

// TagColor is the fill/border pair of a tag badge.
type TagColor struct {
	Fill   string `json:"fill" yaml:"fill"`
	Border string `json:"border" yaml:"border"`
}

// djb2 hashes the UTF-16 code units of s with 32-bit wrapping arithmetic.
func djb2(s string) int32 {
	hash := int32(5381)
	for _, unit := range utf16.Encode([]rune(s)) {
		hash = hash<<5 + hash + int32(unit)
	}
	return hash
}

// ColorFor maps tag text onto a palette entry. Matching is case-insensitive
// and the result is stable across processes.
func ColorFor(tag string) TagColor {
	idx := djb2(strings.ToLower(tag)) % int32(len(tagFillColors))
	if idx < 0 {
		idx = -idx
	}
	return TagColor{Fill: tagFillColors[idx], Border: tagBorderColors[idx]}
}
