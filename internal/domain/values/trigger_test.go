package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrigger(t *testing.T) {
	trig, err := ParseTrigger("upload")
	require.NoError(t, err)
	assert.Equal(t, TriggerUpload, trig)
	assert.False(t, trig.IsCommit())

	trig, err = ParseTrigger("commit")
	require.NoError(t, err)
	assert.True(t, trig.IsCommit())

	_, err = ParseTrigger("land")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trigger")
}
