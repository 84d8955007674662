package storage

import (
	"math"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// NameGenerator produces payload file names of the form <epochMillis>-<random><ext>.
// Two payloads named in the same millisecond with the same draw collide; this is not defended against.
type NameGenerator struct {
	Now  func() time.Time
	Rand func() float64 // uniform in [0, 1)
}

// DefaultNameGenerator uses the wall clock and the global random source.
var DefaultNameGenerator = NameGenerator{Now: time.Now, Rand: rand.Float64}

// Name returns a new file name that keeps the extension of originalName.
func (g NameGenerator) Name(originalName string) string {
	millis := g.Now().UnixMilli()
	suffix := int64(math.Round(g.Rand() * 1e9))
	return strconv.FormatInt(millis, 10) + "-" + strconv.FormatInt(suffix, 10) + extension(originalName)
}

// extension is filepath.Ext except that a dot leading the base name does not
// start an extension: ".mp3" and ".." have none, "..mp3" has ".mp3".
func extension(name string) string {
	base := filepath.Base(name)
	if base == ".." || strings.LastIndex(base, ".") <= 0 {
		return ""
	}
	return filepath.Ext(base)
}
