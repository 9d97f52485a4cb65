package script

import (
	_ "embed"
	"fmt"
)

//go:embed builtin.yml
var builtinYAML []byte

// Builtin returns a new catalog holding the shipped scripts init, do, learn
// and debug, and the command reference.
func Builtin() *Catalog {
	f, err := Unmarshal(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("builtin scripts are invalid: %v", err))
	}
	c := NewCatalog()
	c.Merge(f)
	return c
}
