package logger

import "testing"

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"jane.doe@example.com": "ja***@example.com",
		"ab@example.com":       "***@example.com",
		"a@example.com":        "***@example.com",
		"not-an-email":         "***@***",
		"a@b@c":                "***@***",
		"@example.com":         "***@***",
		"":                     "***@***",
	}
	for in, want := range cases {
		if got := MaskEmail(in); got != want {
			t.Errorf("MaskEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DEBUG,
		" WARN ":  WARN,
		"warning": WARN,
		"ERROR":   ERROR,
		"info":    INFO,
		"bogus":   INFO,
		"":        INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRedactValueMasksEmailFields(t *testing.T) {
	got := redactValue("email", "jane.doe@example.com")
	if got != "ja***@example.com" {
		t.Errorf("redactValue(email) = %q", got)
	}

	got = redactValue("contact_email", "bob.smith@example.com")
	if got != "bo***@example.com" {
		t.Errorf("redactValue(contact_email) = %q", got)
	}
}

func TestRedactValueCatchesEmbeddedEmails(t *testing.T) {
	got := redactValue("err", "upsert failed for alice.w@example.com: timeout")
	want := "upsert failed for al***@example.com: timeout"
	if got != want {
		t.Errorf("redactValue(err) = %q, want %q", got, want)
	}
}

func TestRedactValueLeavesPlainValuesAlone(t *testing.T) {
	if got := redactValue("brand", "TR"); got != "TR" {
		t.Errorf("redactValue(brand) = %q", got)
	}
}
