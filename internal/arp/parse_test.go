package arp

import "testing"

func TestParseArpTable_Match(t *testing.T) {
	out := "? (192.168.1.23) at aa:bb:cc:dd:ee:ff on en0 ifscope [ethernet]\n" +
		"? (192.168.1.1) at 11:22:33:44:55:66 on en0 ifscope [ethernet]\n"

	mac, ok := parseArpTable(out, "192.168.1.23")
	if !ok {
		t.Fatal("expected a match")
	}
	if mac != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("got %q", mac)
	}
}

func TestParseArpTable_Incomplete(t *testing.T) {
	out := "? (192.168.1.23) at (incomplete) on en0 ifscope [ethernet]\n"
	if _, ok := parseArpTable(out, "192.168.1.23"); ok {
		t.Error("incomplete entry should not match")
	}
}

func TestParseArpTable_NoMatch(t *testing.T) {
	out := "? (192.168.1.1) at 11:22:33:44:55:66 on en0 ifscope [ethernet]\n"
	if _, ok := parseArpTable(out, "192.168.1.23"); ok {
		t.Error("expected no match for absent ip")
	}
}
