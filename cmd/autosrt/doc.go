// Package main hosts the autosrt CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into pipeline runs,
// readiness checks, history queries, offline payload rendering and
// configuration scaffolding. Configuration resolution and logger setup live
// in commandContext so subcommands only describe their flags and output.
//
// Keep this package lean: new behaviour belongs in the internal packages
// first and is surfaced here through commands or flags.
package main
