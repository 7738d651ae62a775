// Package hints builds remediation hints appended to CLI error messages.
// Every hint renders as "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-reportpdf/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker.
// Replaced in tests.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a known CI environment variable is set.
func InCI() bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests environment variables for a failed Chrome launch.
func ForBrowserConnect() string {
	var hints []string

	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	hints = append(hints, "run 'reportpdf doctor' to diagnose")

	return formatHints(hints)
}

func ForTimeout() string {
	return format("rendering is slow on first run while Chromium downloads, raise --timeout")
}

// ForConfigNotFound points at the user config directory among the searched paths.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "go-reportpdf/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

func ForOutputDirectory() string {
	return format("check the output directory exists and is writable")
}

func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnknownReport lists the built-in report names.
func ForUnknownReport(available []string) string {
	if len(available) == 0 {
		return format("pass a report definition file ending in .yaml")
	}
	return format("available: " + strings.Join(available, ", ") + ", or a .yaml definition file")
}

// ForMissingFigures reminds the user which notebook produces the skipped figures.
func ForMissingFigures(notebook, imageDir string) string {
	var hints []string
	if notebook != "" {
		hints = append(hints, "run the notebook '"+notebook+"' first to produce the figures")
	}
	if imageDir != "" {
		hints = append(hints, "figures are read from "+imageDir+" (change with --images)")
	}
	return formatHints(hints)
}

// ForGenerateFailure is the catch-all remediation printed when a report
// cannot be produced.
func ForGenerateFailure(notebook string) string {
	lines := []string{
		"make sure Chrome or Chromium is available (see 'reportpdf doctor')",
	}
	if notebook != "" {
		lines = append(lines, "run the notebook '"+notebook+"' to generate the images")
	}
	lines = append(lines, "keep the image files in the directory given by --images")

	var buf strings.Builder
	for _, l := range lines {
		buf.WriteString(format(l))
	}
	return buf.String()
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
