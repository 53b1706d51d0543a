package contract

import (
	"strings"
	"unicode"
)

// ResolveRoute derives the default wire route for a method: "s/{stem}/{method}"
// fully lowercased, where stem is the interface name with a single leading "I"
// stripped iff the name is longer than two characters and its second character
// is uppercase. The rule is deliberately this exact heuristic: its edge
// behavior ("IO" stays "io", "Ix" stays "ix") is an observable contract.
//
// The function is pure; the server-side route is "/" + ResolveRoute(...).
func ResolveRoute(ifaceName, methodName string) string {
	return "s/" + strings.ToLower(Stem(ifaceName)) + "/" + strings.ToLower(methodName)
}

// toLowerRoute normalizes an explicit route override.
func toLowerRoute(route string) string {
	return strings.ToLower(route)
}

// Stem returns the interface name with its leading "I" stripped when the
// stripping rule applies. Generated client type names use it in original
// casing ("IHelloService" becomes "HelloServiceClient").
func Stem(name string) string {
	r := []rune(name)
	if len(r) > 2 && r[0] == 'I' && unicode.IsUpper(r[1]) {
		return string(r[1:])
	}
	return name
}
