// Package manifest reconstructs which Rust releases are installed by
// reading the rustup toolchains directory.
//
// Nothing is persisted: every call to [Reconciler.Reconcile] re-derives the
// set from directory names of the form <version>-<triple>. Channel
// toolchains are left out because they cannot be ordered against releases.
package manifest
