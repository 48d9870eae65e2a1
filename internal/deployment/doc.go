// Package deployment installs the GitLab CI and Helm deployment template into
// a scaffolded app. The template repository is cloned next to the app
// sources, its pipeline file and deployment directory are moved into place,
// and the `<%= key %>` placeholders in them are filled with values derived
// from the app name.
package deployment
