package buildconfig

// Environment variable names read by the resolver.
const (
	EnvToolchain = "TOOLCHAIN"
	EnvArch      = "NACL_ARCH"
	EnvDebug     = "NACL_DEBUG"
)

// debugMarker is the only NACL_DEBUG value that enables a debug build.
const debugMarker = "1"

// Environment is an immutable snapshot of the environment variables that
// influence configuration resolution. Empty fields mean unset.
type Environment struct {
	Toolchain string
	Arch      string
	Debug     string
}

// LookupFunc has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvironmentFromLookup captures the relevant variables once.
func EnvironmentFromLookup(lookup LookupFunc) Environment {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	return Environment{
		Toolchain: get(EnvToolchain),
		Arch:      get(EnvArch),
		Debug:     get(EnvDebug),
	}
}

// DebugEnabled reports whether NACL_DEBUG requests a debug build.
func (e Environment) DebugEnabled() bool {
	return e.Debug == debugMarker
}
