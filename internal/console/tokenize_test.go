package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want []string
	}{
		{"single token", "User", []string{"User"}},
		{"two tokens", "User 1234", []string{"User", "1234"}},
		{"quoted value is not grouped", `User 1 name "John Smith"`, []string{"User", "1", "name", `"John`, `Smith"`}},
		{"double space yields empty token", "User  1234", []string{"User", "", "1234"}},
		{"trailing space yields empty token", "User ", []string{"User", ""}},
		{"tabs are not separators", "User\t1234", []string{"User\t1234"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.arg))
		})
	}
}
