package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain text unchanged", input: "Is the wheat ready?", want: "Is the wheat ready?"},
		{name: "keeps ampersand", input: "Rice & lentils", want: "Rice & lentils"},
		{name: "strips tags", input: "<b>Fresh</b> <i>mangoes</i>", want: "Fresh mangoes"},
		{name: "drops script body", input: "hello<script>alert('x')</script>", want: "hello"},
		{name: "drops handlers", input: `<img src=x onerror="alert(1)">price?`, want: "price?"},
		{name: "trims", input: "  ok  ", want: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Sanitize(tt.input))
		})
	}
}
