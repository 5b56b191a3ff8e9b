package platform

import (
	"strings"
	"testing"
)

func TestSanitizeNameReplacesInvalidChars(t *testing.T) {
	got := SanitizeName(`a<b>c:d"e/f\g|h?i*j`)
	if got != "a_b_c_d_e_f_g_h_i_j" {
		t.Fatalf("unexpected result: %q", got)
	}
	got = SanitizeName("tab\tand\x00nul")
	if strings.ContainsAny(got, "\t\x00") {
		t.Fatalf("control characters survived: %q", got)
	}
}

func TestSanitizeNameEmptyInputs(t *testing.T) {
	if got := SanitizeName(""); got != "untitled" {
		t.Fatalf("empty input: got %q want untitled", got)
	}
	if got := SanitizeName("   "); got != "untitled" {
		t.Fatalf("blank input: got %q want untitled", got)
	}
	if got := SanitizeName("... "); got != "untitled" {
		t.Fatalf("all-trailing input: got %q want untitled", got)
	}
}

func TestSanitizeNameTrailingRun(t *testing.T) {
	if got := SanitizeName("My Mix. . ."); got != "My Mix" {
		t.Fatalf("trailing run not stripped: %q", got)
	}
}

func TestSanitizeNameReservedDeviceNames(t *testing.T) {
	cases := map[string]string{
		"CON":  "CON_",
		"con.": "con_",
		"NUL":  "NUL_",
		"com7": "com7_",
		"LpT9": "LpT9_",
		"COM0": "COM0", // only COM1-COM9 are reserved
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Fatalf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeNameNeverProducesInvalidOutput(t *testing.T) {
	inputs := []string{
		"", " ", "normal name", "a/b/c", "x:y", "CON", "prn ", "trailing.", "trailing ",
		"<<<>>>", "????", "\x01\x02\x03", "mix: best of 2024?", "末尾の点.",
	}
	for _, in := range inputs {
		got := SanitizeName(in)
		if got == "" {
			t.Fatalf("SanitizeName(%q) returned empty", in)
		}
		if strings.ContainsAny(got, `<>:"/\|?*`) {
			t.Fatalf("SanitizeName(%q) = %q contains reserved characters", in, got)
		}
		for _, r := range got {
			if r < 0x20 {
				t.Fatalf("SanitizeName(%q) = %q contains control character", in, got)
			}
		}
		if strings.HasSuffix(got, ".") || strings.HasSuffix(got, " ") {
			t.Fatalf("SanitizeName(%q) = %q has trailing dot/space", in, got)
		}
	}
}
