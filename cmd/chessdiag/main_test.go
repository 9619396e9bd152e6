package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTolerance(t *testing.T) {
	for _, v := range []uint{0, 1, 255} {
		got, err := toTolerance(v)
		require.NoError(t, err)
		assert.Equal(t, uint8(v), got)
	}

	for _, v := range []uint{256, 1000} {
		_, err := toTolerance(v)
		assert.Error(t, err, v)
	}
}
