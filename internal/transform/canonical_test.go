package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pageview", "pageview"},
		{"page_view", "pageview"},
		{"Page View", "pageview"},
		{"page-view", "pageview"},
		{"  PAGE   VIEW  ", "pageview"},
		{"Purchase", "purchase"},
		{"SIGNUP", "signup"},
		{"logout", "logout"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalKind(tt.in))
		})
	}
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed("pageview"))
	assert.True(t, Allowed("signup"))
	assert.True(t, Allowed("purchase"))
	assert.False(t, Allowed("logout"))
	assert.False(t, Allowed(""))
}
