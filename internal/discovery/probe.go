package discovery

import (
	"encoding/xml"
	"fmt"
)

const (
	// MulticastAddr is the WS-Discovery multicast group and port.
	MulticastAddr = "239.255.255.250:3702"
	// MaxPacketSize bounds a single UDP read; ONVIF probe matches are small.
	MaxPacketSize = 4096
	// probeTTL lets a probe reach cameras one router hop away.
	probeTTL = 2
)

const probeTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<e:Envelope xmlns:e="http://www.w3.org/2003/05/soap-envelope"
            xmlns:w="http://schemas.xmlsoap.org/ws/2004/08/addressing"
            xmlns:d="http://schemas.xmlsoap.org/ws/2005/04/discovery"
            xmlns:dn="http://www.onvif.org/ver10/network/wsdl">
  <e:Header>
    <w:MessageID>uuid:%s</w:MessageID>
    <w:To e:mustUnderstand="true">urn:schemas-xmlsoap-org:ws:2005:04:discovery</w:To>
    <w:Action e:mustUnderstand="true">http://schemas.xmlsoap.org/ws/2005/04/discovery/Probe</w:Action>
  </e:Header>
  <e:Body>
    <d:Probe>
      <d:Types>dn:NetworkVideoTransmitter</d:Types>
    </d:Probe>
  </e:Body>
</e:Envelope>`

func buildProbeMessage(messageID string) string {
	return fmt.Sprintf(probeTemplate, messageID)
}

// probeEnvelope is deliberately loose: it ignores namespace prefixes (Go's
// xml package matches on local name when a struct tag carries none) so it
// accepts replies from any ONVIF stack regardless of how it prefixes
// soap/discovery/addressing namespaces.
type probeEnvelope struct {
	XMLName xml.Name  `xml:"Envelope"`
	Body    probeBody `xml:"Body"`
}

type probeBody struct {
	ProbeMatches probeMatches `xml:"ProbeMatches"`
}

type probeMatches struct {
	ProbeMatch []probeMatch `xml:"ProbeMatch"`
}

type probeMatch struct {
	Scopes string `xml:"Scopes"`
	XAddrs string `xml:"XAddrs"`
	Types  string `xml:"Types"`
}

// parseProbeResponse unmarshals a raw UDP datagram into a mac/name pair.
// ok is false only when the datagram isn't a well-formed ProbeMatch
// envelope; a well-formed envelope with no Scopes still returns ok=true
// with empty mac/name, per parseScopes.
func parseProbeResponse(data []byte) (mac, name string, ok bool) {
	var env probeEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return "", "", false
	}
	if len(env.Body.ProbeMatches.ProbeMatch) == 0 {
		return "", "", false
	}

	for _, m := range env.Body.ProbeMatches.ProbeMatch {
		if mac == "" || name == "" {
			gotMAC, gotName := parseScopes(m.Scopes)
			if mac == "" {
				mac = gotMAC
			}
			if name == "" {
				name = gotName
			}
		}
	}
	return mac, name, true
}
