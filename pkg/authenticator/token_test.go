package authenticator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_tokenEngine(t *testing.T) {
	engine := NewTokenEngine("secret")

	token, err := engine.Generate("user1", time.Minute)
	require.NoError(t, err)

	sub, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user1", sub)

	// A token signed with another secret is rejected.
	otherEngine := NewTokenEngine("other-secret")
	otherToken, err := otherEngine.Generate("user1", time.Minute)
	require.NoError(t, err)

	_, err = engine.Verify(otherToken)
	require.Error(t, err)

	// An expired token is rejected.
	expired, err := engine.Generate("user1", -time.Minute)
	require.NoError(t, err)

	_, err = engine.Verify(expired)
	require.Error(t, err)
}
