// Package trybots holds the fixed try-server recommendation for changes
// to the ports tree.
package trybots

import (
	"fmt"
	"sort"
)

// Master is the try-server master every naclports bot lives on.
const Master = "tryserver.chromium"

// DefaultTestSet is the test-set marker attached to every bot.
const DefaultTestSet = "defaulttests"

const (
	platform = "linux"
	shards   = 5
)

// Toolchains are the bot toolchain variants, in table order.
var Toolchains = []string{"glibc", "newlib", "pnacl_newlib", "bionic"}

// TryMasters maps master name -> bot name -> set of test sets.
type TryMasters map[string]map[string][]string

// Change identifies a pending change. The recommendation does not depend
// on it; it exists so callers can pass what the CI trigger hands them.
type Change struct {
	Issue    int64
	Patchset int64
	Files    []string
}

var table = buildTable()

func buildTable() TryMasters {
	bots := make(map[string][]string, len(Toolchains)*shards)
	for _, name := range botNames() {
		bots[name] = []string{DefaultTestSet}
	}
	return TryMasters{Master: bots}
}

func botNames() []string {
	names := make([]string, 0, len(Toolchains)*shards)
	for _, tc := range Toolchains {
		for shard := 0; shard < shards; shard++ {
			names = append(names, BotName(tc, shard))
		}
	}
	return names
}

// BotName formats naclports-<platform>-<toolchain>-<shard>.
func BotName(toolchain string, shard int) string {
	return fmt.Sprintf("naclports-%s-%s-%d", platform, toolchain, shard)
}

// Bots returns every bot name in table order.
func Bots() []string {
	return botNames()
}

// PreferredTryMasters returns the bots to schedule for a change. The
// result is a copy; callers may modify it freely.
func PreferredTryMasters(_ *Change) TryMasters {
	out := make(TryMasters, len(table))
	for master, bots := range table {
		copied := make(map[string][]string, len(bots))
		for bot, sets := range bots {
			copied[bot] = append([]string(nil), sets...)
		}
		out[master] = copied
	}
	return out
}

// Masters returns the master names, sorted.
func (t TryMasters) Masters() []string {
	out := make([]string, 0, len(t))
	for m := range t {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// BotsFor returns the sorted bot names scheduled on master.
func (t TryMasters) BotsFor(master string) []string {
	bots := t[master]
	out := make([]string, 0, len(bots))
	for b := range bots {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
