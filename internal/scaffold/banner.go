package scaffold

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sendit-th/sendit-app/internal/pkgmgr"
)

// printSuccess prints the commands available in the new app and how to get
// started.
func printSuccess(w io.Writer, r *Result, pm pkgmgr.Manager) {
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Success! Created %s at %s\n", r.AppName, r.AppPath)
	fmt.Fprintln(w, "Inside that directory, you can run several commands:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, cyan("  "+pm.ScriptCommand("start")))
	fmt.Fprintln(w, "    Starts the development server.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, cyan("  "+pm.ScriptCommand("build")))
	fmt.Fprintln(w, "    Bundles the app into static files for production.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, cyan("  "+pm.ScriptCommand("test")))
	fmt.Fprintln(w, "    Starts the test runner.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, cyan("  "+pm.ScriptCommand("eject")))
	fmt.Fprintln(w, "    Removes this tool and copies build dependencies, configuration files")
	fmt.Fprintln(w, "    and scripts into the app directory. If you do this, you can’t go back!")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "We suggest that you begin by typing:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, cyan("  cd"), r.CdPath)
	fmt.Fprintf(w, "  %s\n", cyan(pm.ScriptCommand("start")))
	if r.ReadmeRenamed {
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.YellowString("You had a `README.md` file, we renamed it to `README.old.md`"))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
}
