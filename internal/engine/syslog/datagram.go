package syslog

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ExtractPayload uses gopacket to decode a captured frame and pull out the
// syslog line carried in a UDP datagram. Non-UDP traffic and empty payloads
// are rejected so the probe can skip them.
func ExtractPayload(data []byte) (string, error) {
	packet := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default)

	l := packet.Layer(layers.LayerTypeUDP)
	if l == nil {
		return "", fmt.Errorf("not a UDP packet")
	}
	udp := l.(*layers.UDP)

	if len(udp.Payload) == 0 {
		return "", fmt.Errorf("empty UDP payload")
	}

	// Strip a trailing newline so the payload matches file-sourced lines.
	payload := udp.Payload
	if payload[len(payload)-1] == '\n' {
		payload = payload[:len(payload)-1]
	}

	return string(payload), nil
}
