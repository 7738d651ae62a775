package hints

// Notes:
// - Browser hint tests are not parallel: they use t.Setenv and swap the
//   package-level IsInContainer.

import (
	"strings"
	"testing"
)

func stubContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		t.Setenv(k, "")
	}
}

// ---------------------------------------------------------------------------
// ForBrowserConnect
// ---------------------------------------------------------------------------

func TestForBrowserConnect_InCI(t *testing.T) {
	stubContainer(t, false)
	clearCIEnv(t)
	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	hint := ForBrowserConnect()

	for _, want := range []string{"hint:", "ROD_NO_SANDBOX", "ROD_BROWSER_BIN", "doctor"} {
		if !strings.Contains(hint, want) {
			t.Errorf("hint %q missing %q", hint, want)
		}
	}
}

func TestForBrowserConnect_InContainer(t *testing.T) {
	stubContainer(t, true)
	clearCIEnv(t)
	t.Setenv("ROD_NO_SANDBOX", "")

	if hint := ForBrowserConnect(); !strings.Contains(hint, "ROD_NO_SANDBOX") {
		t.Errorf("hint %q should suggest ROD_NO_SANDBOX inside a container", hint)
	}
}

func TestForBrowserConnect_Configured(t *testing.T) {
	stubContainer(t, true)
	clearCIEnv(t)
	t.Setenv("ROD_NO_SANDBOX", "1")
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chromium")

	hint := ForBrowserConnect()

	if strings.Contains(hint, "ROD_NO_SANDBOX") || strings.Contains(hint, "ROD_BROWSER_BIN") {
		t.Errorf("hint %q should not repeat variables already set", hint)
	}
	if !strings.Contains(hint, "doctor") {
		t.Errorf("hint %q should always point at doctor", hint)
	}
}

func TestInCI(t *testing.T) {
	clearCIEnv(t)
	if InCI() {
		t.Fatal("InCI() = true with no CI variables")
	}
	t.Setenv("GITHUB_ACTIONS", "true")
	if !InCI() {
		t.Error("InCI() = false with GITHUB_ACTIONS set")
	}
}

// ---------------------------------------------------------------------------
// Static hints
// ---------------------------------------------------------------------------

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
		excludes string
	}{
		{
			name:     "suggests user config path",
			paths:    []string{"report.yaml", "/home/u/.config/go-reportpdf/report.yaml"},
			contains: "or create /home/u/.config/go-reportpdf/report.yaml",
		},
		{
			name:     "no user path",
			paths:    []string{"report.yaml"},
			contains: "--config",
			excludes: "or create",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ForConfigNotFound(tt.paths)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("ForConfigNotFound() = %q, want containing %q", got, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("ForConfigNotFound() = %q, should not contain %q", got, tt.excludes)
			}
		})
	}
}

func TestForUnknownReport(t *testing.T) {
	t.Parallel()

	got := ForUnknownReport([]string{"credit", "phishing"})
	if !strings.Contains(got, "credit, phishing") {
		t.Errorf("ForUnknownReport() = %q, want the names listed", got)
	}
	if got := ForUnknownReport(nil); !strings.Contains(got, ".yaml") {
		t.Errorf("ForUnknownReport(nil) = %q, want a definition file suggestion", got)
	}
}

func TestForMissingFigures(t *testing.T) {
	t.Parallel()

	got := ForMissingFigures("arbol_decision_credito.ipynb", "/data")
	if !strings.Contains(got, "arbol_decision_credito.ipynb") || !strings.Contains(got, "/data") {
		t.Errorf("ForMissingFigures() = %q", got)
	}
	if ForMissingFigures("", "") != "" {
		t.Error("ForMissingFigures with no inputs should be empty")
	}
}

func TestForGenerateFailure(t *testing.T) {
	t.Parallel()

	got := ForGenerateFailure("arbol_decision_phishing.ipynb")
	if n := strings.Count(got, "\n  hint: "); n != 3 {
		t.Errorf("ForGenerateFailure() has %d hint lines, want 3:\n%s", n, got)
	}
	if !strings.Contains(got, "arbol_decision_phishing.ipynb") {
		t.Errorf("ForGenerateFailure() should name the notebook:\n%s", got)
	}
	if n := strings.Count(ForGenerateFailure(""), "hint:"); n != 2 {
		t.Errorf("ForGenerateFailure(\"\") has %d hint lines, want 2", n)
	}
}

func TestFormatHelpers(t *testing.T) {
	t.Parallel()

	if format("") != "" {
		t.Error("format(\"\") should be empty")
	}
	if formatHints(nil) != "" {
		t.Error("formatHints(nil) should be empty")
	}
	if got := formatHints([]string{"a", "b"}); got != "\n  hint: a; b" {
		t.Errorf("formatHints() = %q", got)
	}
	if ForStyleNotFound(nil) != "" {
		t.Error("ForStyleNotFound(nil) should be empty")
	}
	if !strings.Contains(ForTimeout(), "--timeout") {
		t.Error("ForTimeout() should mention --timeout")
	}
	if !strings.Contains(ForOutputDirectory(), "writable") {
		t.Error("ForOutputDirectory() should mention writability")
	}
}
