package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	hp := HashPassword("correct horse battery staple")

	ok, err := CheckPassword("correct horse battery staple", hp)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword("incorrect horse", hp)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordStringRoundTrip(t *testing.T) {
	hp := HashPassword("hunter2")
	parsed, err := ParsePasswordString(hp.String())
	require.NoError(t, err)
	assert.Equal(t, hp, parsed)

	ok, err := CheckPassword("hunter2", parsed)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParsePasswordString(t *testing.T) {
	_, err := ParsePasswordString("garbage")
	assert.Error(t, err)

	_, err = ParsePasswordString("argon2id$t=1,m=40960,p=1,l=64$c2FsdA$aGFzaA")
	assert.NoError(t, err)
}

func TestUnknownAlgorithm(t *testing.T) {
	hp := HashedPassword{Algorithm: "md5", AlgoConfig: "", Salt: "", Hash: ""}
	_, err := CheckPassword("whatever", hp)
	assert.Error(t, err)
}
