package dbg

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
)

// This converts arbitrary keys (piece ids, pointers) into random readable
// names. It leaks memory but generates the names lazily, so it's not a problem
// unless something is actually being logged. Piece ids repeat across
// decompositions, so a name only identifies a piece within one log.

var (
	mu   sync.Mutex
	memo = make(map[interface{}]string)
)

func init() {
	// Since the names are generated in order of demand, we make them
	// nondeterministic to remind the user that the same name doesn't refer to
	// the same thing between runs.
	petname.NonDeterministicMode()
}

func Name(key interface{}) string {
	if key == nil {
		return "Ø"
	}
	switch v := reflect.ValueOf(key); v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return "Ø"
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if r, ok := memo[key]; ok {
		return r
	}
	r := fmt.Sprintf("%s%s", strings.Title(petname.Adjective()), strings.Title(petname.Name()))
	memo[key] = r
	return r
}
