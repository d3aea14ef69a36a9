package book

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// IDRegistry issues chapter ids of the form slug(name)-<base36 time suffix>.
// It is seeded with every id already in the tree and appends a counter when a
// candidate is taken, so two chapters created in the same millisecond never collide.
type IDRegistry struct {
	used map[string]struct{}
	now  func() time.Time
}

// NewIDRegistry creates a registry seeded with the ids used in chapters
func NewIDRegistry(chapters []*Chapter) *IDRegistry {
	r := &IDRegistry{used: make(map[string]struct{}), now: time.Now}
	WalkChapters(chapters, func(ch, _ *Chapter, _ int) bool {
		r.Reserve(ch.ID)
		return true
	})
	return r
}

// WithClock replaces the time source used for suffixes
func (r *IDRegistry) WithClock(now func() time.Time) *IDRegistry {
	r.now = now
	return r
}

// Reserve marks an id as taken
func (r *IDRegistry) Reserve(id string) {
	if id != "" {
		r.used[id] = struct{}{}
	}
}

// Issue returns a fresh id for a chapter called name
func (r *IDRegistry) Issue(name string) string {
	slug := Slugify(name)
	if slug == "" {
		slug = "chapter"
	}
	base := slug + "-" + strconv.FormatInt(r.now().UnixMilli(), 36)

	id := base
	for n := 2; ; n++ {
		if _, taken := r.used[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
	r.used[id] = struct{}{}
	return id
}

// Slugify lowercases name and joins its letter and digit runs with hyphens.
// Letters of any script are kept, along with their combining marks.
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
