package mist

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// splitCIDR splits "203.0.113.5/24" into the host address and prefix length.
func splitCIDR(s string) (ip string, prefix int, ok bool) {
	host, suffix, found := strings.Cut(s, "/")
	if !found || host == "" {
		return "", 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 || n > 32 {
		return "", 0, false
	}
	return host, n, true
}

// netmaskFromPrefix renders a prefix length as a dotted-decimal netmask:
// a 32-bit mask with the high bits set, each byte in decimal.
func netmaskFromPrefix(prefix int) string {
	if prefix < 0 {
		prefix = 0
	}
	if prefix > 32 {
		prefix = 32
	}
	var mask uint32
	if prefix > 0 {
		mask = ^uint32(0) << (32 - prefix)
	}
	return fmt.Sprintf("%d.%d.%d.%d", mask>>24&0xff, mask>>16&0xff, mask>>8&0xff, mask&0xff)
}

// prefixFromNetmask converts a dotted-decimal netmask back to a CIDR prefix
// length by counting set bits, returned as a decimal string. Anything that is
// not a dotted quad passes through unchanged, since static configs may
// already hold a bare prefix.
func prefixFromNetmask(netmask string) string {
	if !strings.Contains(netmask, ".") {
		return netmask
	}
	parts := strings.Split(netmask, ".")
	if len(parts) != 4 {
		return netmask
	}
	count := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return netmask
		}
		count += bits.OnesCount8(uint8(n))
	}
	return strconv.Itoa(count)
}
