package gvas

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// internCap bounds the intern table. Property names and type tags repeat
// heavily across a save; the long tail of unique strings (object paths)
// must not pin memory forever.
const internCap = 4096

// internTable collapses repeated hot strings to one retained copy.
type internTable struct {
	cache *lru.Cache[string, string]
}

func newInternTable() *internTable {
	cache, err := lru.New[string, string](internCap)
	if err != nil {
		panic(err) // internCap is a positive constant
	}
	return &internTable{cache: cache}
}

// get returns the canonical copy of s, remembering it when new.
func (t *internTable) get(s string) string {
	if s == "" {
		return ""
	}
	if hit, ok := t.cache.Get(s); ok {
		return hit
	}
	t.cache.Add(s, s)
	return s
}
