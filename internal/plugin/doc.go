// Package plugin is the outward face of rustplug: one method per lifecycle
// event a version manager sends to a Rust toolchain plugin.
//
//	register              Register
//	load_versions         LoadVersions
//	resolve_version       ResolveVersion
//	detect_version_files  DetectVersionFiles
//	parse_version_file    ParseVersionFile
//	native_install        NativeInstall
//	native_uninstall      NativeUninstall
//	locate_executables    LocateExecutables
//	install_global        InstallGlobal
//	uninstall_global      UninstallGlobal
//	sync_manifest         SyncManifest
//
// A Plugin is built per invocation from explicit [Options]; the rustup
// home in Options.Env is the installation root every operation works
// against.
package plugin
