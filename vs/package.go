package vs

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// pkg is a named group of variables. Regular and transactional variables
// live in separate registries; the package itself carries a version chain so
// that removal and re-creation follow the transaction.
type pkg struct {
	name    string
	regular *orderedmap.OrderedMap[string, *variable]
	trans   *orderedmap.OrderedMap[string, *variable]
	chain[struct{}]
}

func newPkg(name string) *pkg {
	return &pkg{
		name:    name,
		regular: orderedmap.New[string, *variable](),
		trans:   orderedmap.New[string, *variable](),
	}
}

// savepoint pushes a copy of the current version tagged with level.
func (p *pkg) savepoint(level int) {
	p.push(level, p.head.valid, struct{}{})
}

func (p *pkg) registry(transactional bool) *orderedmap.OrderedMap[string, *variable] {
	if transactional {
		return p.trans
	}
	return p.regular
}

// lookup finds a variable in either registry.
func (p *pkg) lookup(name string) (*variable, bool) {
	if v, ok := p.regular.Get(name); ok {
		return v, true
	}
	if v, ok := p.trans.Get(name); ok {
		return v, true
	}
	return nil, false
}

// resetRegular replaces the regular registry with a fresh empty one. Regular
// variables do not follow the transaction; once the package is removed they
// are gone for good.
func (p *pkg) resetRegular() {
	p.regular = orderedmap.New[string, *variable]()
}
