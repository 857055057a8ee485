package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "usage/cli.mdx", File("usage/cli.mdx")},
		{"Slug", KeySlug, "usage/cli", Slug("usage/cli")},
		{"URL", KeyURL, "/docs", URL("/docs")},
		{"Hash", KeyHash, "abc", Hash("abc")},
		{"Revision", KeyRevision, "deadbeef", Revision("deadbeef")},
		{"Trigger", KeyTrigger, "watch", Trigger("watch")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"RequestID", KeyRequestID, "rid", RequestID("rid")},
		{"RemoteAddr", KeyRemoteAddr, "1.2.3.4", RemoteAddr("1.2.3.4")},
		{"Address", KeyAddress, ":8080", Address(":8080")},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Errorf("%s: key = %q, want %q", c.name, c.attr.Key, c.attrKey)
		}
		if got := c.attr.Value.String(); got != c.attrVal {
			t.Errorf("%s: value = %q, want %q", c.name, got, c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if got := Count(3).Value.Int64(); got != 3 {
		t.Errorf("Count value = %d", got)
	}
	if got := Status(404).Value.Int64(); got != 404 {
		t.Errorf("Status value = %d", got)
	}
	if got := DurationMS(1.5).Value.Float64(); got != 1.5 {
		t.Errorf("DurationMS value = %f", got)
	}
	if got := Elapsed(2500 * time.Microsecond).Value.Float64(); got != 2.5 {
		t.Errorf("Elapsed value = %f", got)
	}
}
