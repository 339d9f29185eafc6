package alertpanel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPalettesAreParallel(t *testing.T) {
	assert.Equal(t, len(tagFillColors), len(tagBorderColors))
	assert.Len(t, tagFillColors, 29)
}

func TestDJB2_Wraps32Bit(t *testing.T) {
	assert.Equal(t, int32(5381), djb2(""))
	assert.Equal(t, int32(177670), djb2("a"))
	assert.Equal(t, int32(-590608579), djb2("env:prod"))
	assert.Equal(t, int32(1213941859), djb2("region:us-east-1"))
}

func TestColorFor(t *testing.T) {
	cases := []struct {
		tag  string
		want TagColor
	}{
		{"", TagColor{Fill: "#7662B1", Border: "#A694DD"}},
		{"b", TagColor{Fill: "#8A2EB8", Border: "#B054DE"}},
		{"env:prod", TagColor{Fill: "#B240A2", Border: "#E069CF"}},
		{"region:us-east-1", TagColor{Fill: "#705DA0", Border: "#9683C6"}},
		{"team:sre", TagColor{Fill: "#AE561A", Border: "#FF9B53"}},
	}
	for _, tc := range cases {
		t.Run(tc.tag, func(t *testing.T) {
			assert.Equal(t, tc.want, ColorFor(tc.tag))
		})
	}
}

func TestColorFor_IsCaseInsensitiveAndStable(t *testing.T) {
	first := ColorFor("ENV:PROD")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ColorFor("env:prod"))
	}
}

func TestColorFor_Collisions(t *testing.T) {
	// "a" and "" land on the same palette slot; collisions must be consistent.
	assert.Equal(t, ColorFor(""), ColorFor("a"))
}

func TestColorFor_NonASCII(t *testing.T) {
	c := ColorFor("région:€u")
	assert.Contains(t, tagFillColors[:], c.Fill)
	assert.Contains(t, tagBorderColors[:], c.Border)
	assert.Equal(t, c, ColorFor("RÉGION:€U"))
}
