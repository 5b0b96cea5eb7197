package console

import "strings"

// Tokenize splits a command's argument string on single spaces. Runs of
// spaces yield empty tokens, so positional arguments after a double space
// shift right. Quotes are not interpreted here; see ParseValue.
func Tokenize(arg string) []string {
	return strings.Split(arg, " ")
}
