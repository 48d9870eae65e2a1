// Package config manages user-level settings stored at ~/.sendit/config.yaml.
// Values can be overridden with SENDIT_* environment variables; dotted keys
// map to underscores (extras.dependencies → SENDIT_EXTRAS_DEPENDENCIES).
package config
