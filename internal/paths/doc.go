// Package paths resolves the directories rustplug works against.
//
// Two groups of paths live here. The rust homes (rustup home, cargo home and
// the toolchains directory inside the rustup home) are modeled by [Env], a
// value built once per invocation and passed explicitly to every lifecycle
// operation. Tests construct an Env pointing into t.TempDir() instead of
// relying on environment sniffing.
//
//	env, err := paths.EnvFromOS(os.LookupEnv)
//	root := env.ToolchainsDir() // ~/.rustup/toolchains
//
// rustplug's own files follow the XDG Base Directory Specification through
// github.com/adrg/xdg: the config file in <ConfigHome>/rustplug and the
// bootstrap cache in <CacheHome>/rustplug/temp.
package paths
