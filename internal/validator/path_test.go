package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasUUIDShape(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api/users/53afa42b-2c38-453a-a1b3-10c59766cef0", true},
		{"/api/users/notUUID", true},
		{"/api/users/", true},
		{"/prefix/api/users/abc", true},
		{"/api/users", false},
		{"/api/users/something/", false},
		{"/api/users/a/b", false},
		{"/api/people/abc", false},
		{"users/abc", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, HasUUIDShape(tt.path))
		})
	}
}

func TestExtractID(t *testing.T) {
	assert.Equal(t, "abc", ExtractID("/api/users/abc"))
	assert.Equal(t, "", ExtractID("/api/users/"))
	assert.Equal(t, "plain", ExtractID("plain"))
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"v4", "/api/users/53afa42b-2c38-453a-a1b3-10c59766cef0", true},
		{"v1", "/api/users/6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"upper case", "/api/users/53AFA42B-2C38-453A-A1B3-10C59766CEF0", true},
		{"not a uuid", "/api/users/notUUID", false},
		{"empty id", "/api/users/", false},
		{"no hyphens", "/api/users/53afa42b2c38453aa1b310c59766cef0", false},
		{"braced", "/api/users/{53afa42b-2c38-453a-a1b3-10c59766cef0}", false},
		{"wrong shape", "/api/people/53afa42b-2c38-453a-a1b3-10c59766cef0", false},
		{"bad hex", "/api/users/53afa42b-2c38-453a-a1b3-10c59766cefz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidUUID(tt.path))
		})
	}
}
