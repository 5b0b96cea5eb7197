package console

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		token string
		arg   string
		want  any
	}{
		{"integer", "30", "User 1 age 30", int64(30)},
		{"leading zeros", "007", "User 1 code 007", int64(7)},
		{"float", "3.5", "User 1 score 3.5", 3.5},
		{"leading dot", ".5", "User 1 score .5", 0.5},
		{"trailing dot", "5.", "User 1 score 5.", 5.0},
		{"plain string", "Betty", "User 1 first_name Betty", "Betty"},
		{"negative stays string", "-5", "User 1 balance -5", "-5"},
		{"negative float stays string", "-1.5", "User 1 balance -1.5", "-1.5"},
		{"exponent stays string", "1e5", "User 1 n 1e5", "1e5"},
		{"multi-dot stays string", "3.4.5", "Place 1 version 3.4.5", "3.4.5"},
		{"lone dot stays string", ".", "Place 1 mark .", "."},
		{"quoted with spaces", `"John`, `User 1 name "John Smith"`, "John Smith"},
		{"quoted empty", `""`, `User 1 name ""`, ""},
		{"quoted number is coerced", `"42"`, `User 1 age "42"`, int64(42)},
		{"quoted float is coerced", `"2.25"`, `User 1 ratio "2.25"`, 2.25},
		{"unterminated quote takes the rest", `"John`, `User 1 name "John Smith`, "John Smith"},
		{"text after closing quote is dropped", `"a`, `User 1 name "a b" c`, "a b"},
		{"integer beyond int64 stays integer", "99999999999999999999", "User 1 n 99999999999999999999", bigInt("99999999999999999999")},
		{"unicode digits stay string", "٣", "User 1 n ٣", "٣"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.token, tt.arg))
		})
	}
}

func bigInt(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}
