// Package config provides configuration management for the rustplug CLI.
//
// # Configuration File
//
// The default configuration file location is ~/.config/rustplug/config.yaml.
// RUSTPLUG_CONFIG_DIR points the search at another directory. Every key can
// also be set from the environment with the RUSTPLUG_ prefix.
//
//	version: 1
//	rustup_home: ~/.rustup        # optional, overrides RUSTUP_HOME
//	cargo_home: ~/.cargo          # optional, overrides CARGO_HOME
//	temp_dir: ~/.cache/rustplug/temp
//	installer:
//	  unix_url: https://sh.rustup.rs
//	  windows_url: https://win.rustup.rs
//	remote:
//	  repository: https://github.com/rust-lang/rust
//	default_version: stable
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	env, err := cfg.Env(os.LookupEnv)
//
// Load validates what it reads; validation failures are marked with
// errors.ErrInvalidConfig so the CLI can suggest running doctor.
package config
