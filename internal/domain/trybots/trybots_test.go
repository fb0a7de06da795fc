package trybots

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferredTryMasters_Shape(t *testing.T) {
	masters := PreferredTryMasters(nil)

	require.Len(t, masters, 1)
	require.Contains(t, masters, "tryserver.chromium")

	bots := masters["tryserver.chromium"]
	assert.Len(t, bots, 20)

	for _, tc := range []string{"glibc", "newlib", "pnacl_newlib", "bionic"} {
		for shard := 0; shard < 5; shard++ {
			name := BotName(tc, shard)
			sets, ok := bots[name]
			require.True(t, ok, "missing bot %s", name)
			assert.Equal(t, []string{"defaulttests"}, sets)
		}
	}
}

func TestPreferredTryMasters_IgnoresChange(t *testing.T) {
	a := PreferredTryMasters(nil)
	b := PreferredTryMasters(&Change{Issue: 12345, Patchset: 2, Files: []string{"ports/zlib/pkg_info"}})

	assert.Equal(t, a, b)
}

func TestPreferredTryMasters_ReturnsCopy(t *testing.T) {
	first := PreferredTryMasters(nil)
	delete(first[Master], BotName("glibc", 0))
	first[Master][BotName("newlib", 0)][0] = "mutated"

	second := PreferredTryMasters(nil)
	assert.Len(t, second[Master], 20)
	assert.Equal(t, []string{DefaultTestSet}, second[Master][BotName("newlib", 0)])
}

func TestBotName(t *testing.T) {
	assert.Equal(t, "naclports-linux-pnacl_newlib-3", BotName("pnacl_newlib", 3))
}

func TestBots(t *testing.T) {
	bots := Bots()
	require.Len(t, bots, 20)
	assert.Equal(t, "naclports-linux-glibc-0", bots[0])
	assert.Equal(t, "naclports-linux-bionic-4", bots[19])

	for _, b := range bots {
		assert.True(t, strings.HasPrefix(b, "naclports-linux-"), b)
	}
}

func TestTryMasters_Sorted(t *testing.T) {
	m := PreferredTryMasters(nil)

	assert.Equal(t, []string{Master}, m.Masters())

	bots := m.BotsFor(Master)
	require.Len(t, bots, 20)
	assert.Equal(t, "naclports-linux-bionic-0", bots[0])
	assert.Empty(t, m.BotsFor("tryserver.nacl"))
}
