package arp

import (
	"bufio"
	"strings"
)

// parseArpTable extracts the hardware address for ip from the output of
// "arp -an" (Darwin/BSD) — lines shaped like:
//
//	? (192.168.1.23) at aa:bb:cc:dd:ee:ff on en0 ifscope [ethernet]
func parseArpTable(output, ip string) (string, bool) {
	target := "(" + ip + ")"
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		for i, f := range fields {
			if f != target {
				continue
			}
			if i+2 < len(fields) && fields[i+1] == "at" && fields[i+2] != "(incomplete)" {
				return strings.ToUpper(fields[i+2]), true
			}
		}
	}
	return "", false
}
