// Package platform wraps the operating-system facing pieces of scaffolding:
// running external commands (git, npm, yarn) and adjusting file modes.
// Both are reached through small seams so callers can be tested with
// platformtest.FakeRunner and an in-memory afero filesystem.
package platform
