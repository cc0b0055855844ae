package buildinfo

import (
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "cftools-go/"+Version) {
		t.Fatalf("unexpected user agent %q", ua)
	}
	if !strings.Contains(ua, CommitHash) {
		t.Fatalf("user agent %q does not contain commit hash", ua)
	}
}
