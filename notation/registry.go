package notation

import (
	"sort"

	"github.com/vdust/beepy/config"
)

type dialect struct {
	desc  string
	build func() *Parser
}

// The dialect table is fixed at init time. There is a single notation
// dialect today; the table keeps selection explicit and leaves room for
// more.
var dialects = map[string]dialect{
	"qb": {"QuickBasic PLAY macro language.", NewParser},
}

// NewDialect builds a parser for the named notation dialect.
func NewDialect(name string) (*Parser, error) {
	d, ok := dialects[name]
	if !ok {
		return nil, config.Errorf("unknown notation %q", name)
	}
	return d.build(), nil
}

// Dialects returns the registered dialect names, sorted.
func Dialects() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DescribeDialect returns the one-line description of a dialect, or "" if
// the name is unknown.
func DescribeDialect(name string) string {
	return dialects[name].desc
}
