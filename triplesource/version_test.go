package triplesource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiateFactoryVersion_WithinRange(t *testing.T) {
	assert.NoError(t, NegotiateFactoryVersion(1, MinFactoryVersion, MaxFactoryVersion))
}

func TestNegotiateFactoryVersion_OutsideRange(t *testing.T) {
	err := NegotiateFactoryVersion(2, MinFactoryVersion, MaxFactoryVersion)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}
