// Package scaffold turns an app directory into a ready-to-run React project.
// Init rewrites package.json, copies a template tree, normalizes .gitignore,
// installs react and react-dom through npm or yarn, creates the first git
// commit and prints the next steps before handing off to the extras flow.
package scaffold
