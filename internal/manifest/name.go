package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

const maxNameLength = 214

var (
	urlSafeName     = regexp.MustCompile(`^(?:@[a-z0-9-*~][a-z0-9-*._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)
	specialNameChar = regexp.MustCompile(`[~'!()*]`)

	blacklistedNames = map[string]bool{
		"node_modules": true,
		"favicon.ico":  true,
	}

	coreModules = map[string]bool{
		"assert": true, "buffer": true, "child_process": true, "cluster": true,
		"console": true, "constants": true, "crypto": true, "dgram": true,
		"dns": true, "domain": true, "events": true, "fs": true, "http": true,
		"https": true, "module": true, "net": true, "os": true, "path": true,
		"process": true, "punycode": true, "querystring": true, "readline": true,
		"repl": true, "stream": true, "string_decoder": true, "sys": true,
		"timers": true, "tls": true, "tty": true, "url": true, "util": true,
		"v8": true, "vm": true, "zlib": true,
	}

	// Names that would make npm refuse to install the app's own toolchain.
	toolchainNames = []string{"react", "react-dom", "react-scripts", "sendit-react-scripts"}
)

// NameError lists every rule an app name breaks.
type NameError struct {
	Name     string
	Problems []string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid app name %q: %s", e.Name, strings.Join(e.Problems, "; "))
}

// ValidateName checks name against npm's package naming rules and rejects
// names that collide with the toolchain dependencies.
func ValidateName(name string) error {
	var problems []string

	switch {
	case name == "":
		problems = append(problems, "name length must be greater than zero")
	default:
		if strings.HasPrefix(name, ".") {
			problems = append(problems, "name cannot start with a period")
		}
		if strings.HasPrefix(name, "_") {
			problems = append(problems, "name cannot start with an underscore")
		}
		if strings.TrimSpace(name) != name {
			problems = append(problems, "name cannot contain leading or trailing spaces")
		}
		if blacklistedNames[strings.ToLower(name)] {
			problems = append(problems, name+" is a blacklisted name")
		}
		if coreModules[strings.ToLower(name)] {
			problems = append(problems, name+" is a core module name")
		}
		if len(name) > maxNameLength {
			problems = append(problems, fmt.Sprintf("name can no longer contain more than %d characters", maxNameLength))
		}
		if strings.ToLower(name) != name {
			problems = append(problems, "name can no longer contain capital letters")
		}
		if specialNameChar.MatchString(lastSegment(name)) {
			problems = append(problems, `name can no longer contain special characters ("~'!()*")`)
		}
		if !urlSafeName.MatchString(strings.ToLower(name)) {
			problems = append(problems, "name can only contain URL-friendly characters")
		}
		for _, dep := range toolchainNames {
			if name == dep {
				problems = append(problems, fmt.Sprintf("name conflicts with the %q dependency", dep))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &NameError{Name: name, Problems: problems}
}

// lastSegment strips an npm scope ("@scope/name" → "name").
func lastSegment(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
