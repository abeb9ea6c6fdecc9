package notifylk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0771234567", "94771234567"},
		{"771234567", "94771234567"},
		{"94771234567", "94771234567"},
		{"+94771234567", "94771234567"},
		{"077 123 4567", "94771234567"},
		{"077-123-4567", "94771234567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "input %q", tt.in)
	}
}
