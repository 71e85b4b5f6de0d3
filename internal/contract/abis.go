package contract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// BuiltinKind describes a contract interface whose ABI is embedded in the
// binary. Each built-in registers itself via init() in its own file.
type BuiltinKind struct {
	ID          string // machine key, e.g. "erc20"
	Name        string // human label
	Description string
	ABI         abi.ABI
}

var builtinRegistry = map[string]BuiltinKind{}

// RegisterBuiltin parses abiJSON and adds it to the registry. It panics on a
// malformed ABI, so call it only from init() with embedded definitions.
func RegisterBuiltin(id, name, description, abiJSON string) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		panic(fmt.Sprintf("contract: builtin %q: %v", id, err))
	}
	builtinRegistry[id] = BuiltinKind{ID: id, Name: name, Description: description, ABI: parsed}
}

// GetBuiltin returns a built-in by ID. ok is false if not found.
func GetBuiltin(id string) (BuiltinKind, bool) {
	b, ok := builtinRegistry[id]
	return b, ok
}

// MustBuiltinABI returns the ABI of a registered built-in.
func MustBuiltinABI(id string) abi.ABI {
	b, ok := builtinRegistry[id]
	if !ok {
		panic("contract: unknown builtin " + id)
	}
	return b.ABI
}

// AllBuiltins returns all registered built-ins sorted by ID.
func AllBuiltins() []BuiltinKind {
	out := make([]BuiltinKind, 0, len(builtinRegistry))
	for _, b := range builtinRegistry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Methods returns the method signatures of b sorted by name, e.g.
// "approve(address,uint256)".
func (b BuiltinKind) Methods() []string {
	out := make([]string, 0, len(b.ABI.Methods))
	for _, m := range b.ABI.Methods {
		out = append(out, m.Sig)
	}
	sort.Strings(out)
	return out
}
