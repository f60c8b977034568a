package extset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRaw(t *testing.T) {
	assert.True(t, IsRaw("cr2"))
	assert.True(t, IsRaw("dng"))
	assert.False(t, IsRaw("jpg"))
}

func TestIsStandard(t *testing.T) {
	assert.True(t, IsStandard("jpg"))
	assert.True(t, IsStandard("heic"))
	assert.False(t, IsStandard("xmp"))
}

func TestIsSidecar(t *testing.T) {
	assert.True(t, IsSidecar("xmp"))
	assert.False(t, IsSidecar("jpg"))
}

func TestIsAccepted(t *testing.T) {
	assert.True(t, IsAccepted("cr2"))
	assert.True(t, IsAccepted("jpg"))
	assert.True(t, IsAccepted("xmp"))
	assert.False(t, IsAccepted("txt"))
	assert.False(t, IsAccepted(""))
}
