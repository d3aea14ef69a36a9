package book

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Chapter One", "chapter-one"},
		{"  Karma -- Yoga!  ", "karma-yoga"},
		{"Adhyaya 2: Sankhya", "adhyaya-2-sankhya"},
		{"कर्म योग", "कर्म-योग"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestIDRegistry_Issue(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	suffix := strconv.FormatInt(fixed.UnixMilli(), 36)

	r := NewIDRegistry([]*Chapter{ch("intro-" + suffix)}).WithClock(func() time.Time { return fixed })

	assert.Equal(t, "intro-"+suffix+"-2", r.Issue("Intro"), "seeded id is not reissued")
	assert.Equal(t, "intro-"+suffix+"-3", r.Issue("Intro"))
	assert.Equal(t, "karma-"+suffix, r.Issue("Karma"))
	assert.True(t, strings.HasPrefix(r.Issue("???"), "chapter-"))
}
