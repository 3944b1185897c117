package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCertificateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id, err := NewCertificateID()
		require.NoError(t, err)
		assert.Len(t, id, CertificateIDLength)
		assert.True(t, IsCertificateID(id), id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIsCertificateID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "empty", in: "", want: false},
		{name: "too short", in: "ABCD", want: false},
		{name: "lowercase", in: strings.ToLower("ABCDEFGHJKLMNPQR"), want: false},
		{name: "ambiguous zero", in: "0BCDEFGHJKLMNPQR", want: false},
		{name: "path traversal", in: "../../etc/passwd", want: false},
		{name: "valid", in: "ABCDEFGHJKLMNPQR", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCertificateID(tt.in))
		})
	}
}

func TestIncompleteError(t *testing.T) {
	err := error(&IncompleteError{Completed: 1, Total: 3})
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, 2, err.(*IncompleteError).Remaining())
	assert.Contains(t, err.Error(), "1 of 3")
}
