package discovery

import (
	"strings"
	"time"

	"github.com/lip-protocol/lip-go/pkg/version"
)

// mDNS service constants.
const (
	// ServiceType is the DNS-SD service bridges advertise.
	ServiceType = "_lutron._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// BrowseTimeout is the default timeout for browse operations.
	BrowseTimeout = 10 * time.Second
)

// Bridge describes one discovered Lutron bridge.
type Bridge struct {
	// InstanceName is the advertised service instance, typically
	// "Lutron-<serial>".
	InstanceName string

	// Host is the mDNS hostname.
	Host string

	// Port is the advertised service port. The LIP telnet server
	// listens on its own fixed port regardless of this value.
	Port uint16

	// Addresses are the resolved IPv4/IPv6 addresses, aggregated
	// across interfaces.
	Addresses []string

	// MACAddress from the TXT record, empty if not advertised.
	MACAddress string

	// DeviceClass from the TXT record, empty if not advertised.
	DeviceClass string

	// SystemType from the TXT record, empty if not advertised.
	SystemType string

	// CodeVersion is the advertised firmware version, empty if not
	// advertised.
	CodeVersion string
}

// FirmwareVersion parses the advertised CODEVER record.
func (b *Bridge) FirmwareVersion() (version.Firmware, error) {
	return version.Parse(b.CodeVersion)
}

// parseTXT splits key=value TXT records into a map. Records without a
// separator are stored with an empty value. Keys are matched
// case-insensitively.
func parseTXT(records []string) map[string]string {
	m := make(map[string]string, len(records))
	for _, rec := range records {
		key, value, _ := strings.Cut(rec, "=")
		m[strings.ToUpper(key)] = value
	}
	return m
}

// bridgeFromTXT fills the identity fields from a parsed TXT record.
func bridgeFromTXT(b *Bridge, txt map[string]string) {
	b.MACAddress = txt["MACADDR"]
	b.DeviceClass = txt["DEVCLASS"]
	b.SystemType = txt["SYSTYPE"]
	b.CodeVersion = txt["CODEVER"]
}
