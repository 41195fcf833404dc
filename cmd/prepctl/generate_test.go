package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCount(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{1, false},
		{10, false},
		{50, false},
		{0, true},
		{-3, true},
		{51, true},
		{1000, true},
	}

	for _, tt := range tests {
		err := checkCount(tt.n)
		if tt.wantErr {
			assert.Error(t, err, "count %d", tt.n)
			assert.Contains(t, err.Error(), "between 1 and 50")
		} else {
			assert.NoError(t, err, "count %d", tt.n)
		}
	}
}
