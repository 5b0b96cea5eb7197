package console

import (
	"math/big"
	"strconv"
	"strings"
)

// ParseValue converts the raw value token of an update command into a
// string, an integer (int64, or *big.Int beyond the int64 range) or float64.
//
// A token starting with a double quote is replaced by the text between the
// first two double quotes of the whole argument string arg, which restores
// the spaces Tokenize split on. Without a closing quote the rest of arg is
// used. The resulting text becomes an integer when it is all ASCII digits, a
// float64 when it is all digits once every '.' is removed and parses as a
// float, and is returned unchanged otherwise. Negative numbers therefore
// stay strings.
func ParseValue(token, arg string) any {
	text := token
	if strings.HasPrefix(token, `"`) {
		text = quoted(arg)
	}

	if isDigits(text) {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n
		}
		if n, ok := new(big.Int).SetString(text, 10); ok {
			return n
		}
	}
	if isDigits(strings.ReplaceAll(text, ".", "")) {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
	}
	return text
}

// quoted returns the text after the first double quote of s, up to the next
// double quote or the end of s.
func quoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	rest := s[start+1:]
	if end := strings.IndexByte(rest, '"'); end >= 0 {
		return rest[:end]
	}
	return rest
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
