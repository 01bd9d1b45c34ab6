package inflector

import "testing"

func TestDefaultRule(t *testing.T) {
	cases := map[string]string{
		"user":         "User",
		"user_service": "UserService",
		"http_server":  "HttpServer",
		"a":            "A",
	}
	for input, expected := range cases {
		if got := DefaultRule(input); got != expected {
			t.Errorf("DefaultRule(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestIdentityRule(t *testing.T) {
	if got := IdentityRule("user_service"); got != "user_service" {
		t.Errorf("IdentityRule should not transform input, got %q", got)
	}
}

func TestOverrideShortCircuitsDefaultRule(t *testing.T) {
	i := New()
	i.Override("html_parser", "HTMLParser")

	if got := i.Segment("html_parser"); got != "HTMLParser" {
		t.Errorf("expected override to apply, got %q", got)
	}
	if got := i.Segment("user_service"); got != "UserService" {
		t.Errorf("expected default rule for non-overridden input, got %q", got)
	}
}

func TestOverrideAll(t *testing.T) {
	i := New()
	i.OverrideAll(map[string]string{
		"html_parser": "HTMLParser",
		"json_api":    "JSONAPI",
	})
	if got := i.Segment("json_api"); got != "JSONAPI" {
		t.Errorf("expected batch override to apply, got %q", got)
	}
}
