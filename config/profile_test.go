package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultProfileValidates(t *testing.T) {
	for _, platform := range []Platform{ONT, HiFi, Ilmn} {
		p := DefaultProfile(platform)
		assert.NoError(t, p.Validate(), "platform %s", platform)
		assert.Equal(t, 2*p.F+1, p.NoOfPositions())
		assert.Equal(t, p.F+p.ExtendBP, p.ExtendDistance())
	}
}

func TestValidateRejectsBadBudget(t *testing.T) {
	p := DefaultProfile(ONT)
	p.F = 0
	assert.Error(t, p.Validate())

	p = DefaultProfile(ONT)
	p.TumorMatrixDepth = 0
	assert.Error(t, p.Validate())
}

func TestNormalizeBQClips(t *testing.T) {
	p := DefaultProfile(ONT)
	assert.Equal(t, 0, p.NormalizeBQ(-5))
	assert.Equal(t, 40, p.NormalizeBQ(100))
	assert.Equal(t, 30, p.NormalizeBQ(30))

	hifi := DefaultProfile(HiFi)
	assert.Equal(t, 50, hifi.NormalizeBQ(100)) // HiFi uses a higher BQ ceiling
	assert.Equal(t, 60, hifi.NormalizeMQ(200)) // MQ ceiling is fixed regardless of platform
}
