// Package cli defines the Cobra command tree for the sendit-app CLI. Each file
// in this package registers one top-level command (init, deployment, doctor,
// config, version) with the root command. Command implementations delegate to
// internal packages for the scaffolding work and only handle flag parsing,
// I/O formatting, and user interaction.
package cli
