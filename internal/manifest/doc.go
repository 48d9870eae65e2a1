// Package manifest reads, edits and writes an app's package.json.
//
// Package keeps top-level keys in their original order, the same way a
// JavaScript object would, so rewriting a manifest only moves the keys that
// were actually changed. The package also validates manifests against an
// embedded JSON Schema, checks npm package names, and reads the optional
// .template.dependencies.json shipped inside a template.
package manifest
