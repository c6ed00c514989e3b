package cleaning

import (
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/lehigh-university-libraries/movieetl/internal/frame"
)

// DedupKeys form the business key of a movie.
var DedupKeys = []string{"id", "title"}

// DeDup keeps the first occurrence of every key in input order. Missing key
// values compare equal to each other.
type DeDup struct {
	Keys []string
}

func (DeDup) Name() string { return "dedup" }

func (d DeDup) Apply(in *frame.Frame) (*frame.Frame, error) {
	keys := d.Keys
	if len(keys) == 0 {
		keys = DedupKeys
	}

	seen := make(map[xxh3.Uint128]struct{}, in.Len())
	return in.Filter(func(row frame.Row) bool {
		h := xxh3.HashString128(dedupKey(row, keys))
		if _, dup := seen[h]; dup {
			return false
		}
		seen[h] = struct{}{}
		return true
	}), nil
}

func dedupKey(row frame.Row, keys []string) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		v := row.Get(k)
		b.WriteByte(byte(v.Kind()))
		b.WriteString(v.String())
	}
	return b.String()
}
