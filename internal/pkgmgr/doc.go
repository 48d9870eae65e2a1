// Package pkgmgr drives the Node package managers (npm and yarn) that install
// a scaffolded app's dependencies. Dispatch selects the implementation by
// name and Detect picks a name for an app directory.
package pkgmgr
