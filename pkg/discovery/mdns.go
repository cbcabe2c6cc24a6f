package discovery

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// ErrNoBridgeFound is returned by FindFirst when no bridge answered
// within the browse timeout.
var ErrNoBridgeFound = errors.New("no bridge found")

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// BrowseTimeout bounds FindFirst. Default: 10 seconds.
	BrowseTimeout time.Duration

	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		BrowseTimeout: BrowseTimeout,
	}
}

// Browser discovers Lutron bridges via mDNS.
type Browser struct {
	config BrowserConfig
}

// NewBrowser creates an mDNS browser.
func NewBrowser(config BrowserConfig) (*Browser, error) {
	if config.BrowseTimeout == 0 {
		config.BrowseTimeout = BrowseTimeout
	}
	return &Browser{config: config}, nil
}

// Browse searches for bridges until the context is cancelled. Bridges
// are aggregated by instance name: addresses from multiple interfaces
// are combined into a single entry, and each instance is emitted once.
// The returned channel is closed when browsing completes.
func (b *Browser) Browse(ctx context.Context) (<-chan *Bridge, error) {
	out := make(chan *Bridge)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := b.browserOptions()

	go func() {
		defer close(out)

		bridges := make(map[string]*Bridge)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				bridge := entryToBridge(entry)

				existing, found := bridges[bridge.InstanceName]
				if found {
					existing.Addresses = mergeAddresses(existing.Addresses, bridge.Addresses)
					continue
				}
				bridges[bridge.InstanceName] = bridge
				select {
				case out <- bridge:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				if existing, found := bridges[entry.Instance]; found {
					existing.Addresses = removeAddresses(existing.Addresses, entryAddrs(entry))
					if len(existing.Addresses) == 0 {
						delete(bridges, entry.Instance)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// FindFirst returns the first bridge that answers, or ErrNoBridgeFound
// after the browse timeout.
func (b *Browser) FindFirst(ctx context.Context) (*Bridge, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.BrowseTimeout)
	defer cancel()

	results, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	for bridge := range results {
		return bridge, nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		return nil, ErrNoBridgeFound
	}
	return nil, ctx.Err()
}

func (b *Browser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// ServiceEntry holds the raw fields of one mDNS answer. It decouples
// Bridge conversion from the zeroconf types.
type ServiceEntry struct {
	Instance string
	Host     string
	Port     uint16
	Text     []string
	Addrs    []string
}

// ToBridge converts a raw service entry to a Bridge.
func (e *ServiceEntry) ToBridge() *Bridge {
	bridge := &Bridge{
		InstanceName: e.Instance,
		Host:         e.Host,
		Port:         e.Port,
		Addresses:    e.Addrs,
	}
	bridgeFromTXT(bridge, parseTXT(e.Text))
	return bridge
}

// entryToBridge converts a zeroconf entry to a Bridge.
func entryToBridge(entry *zeroconf.ServiceEntry) *Bridge {
	raw := ServiceEntry{
		Instance: entry.Instance,
		Host:     entry.HostName,
		Port:     uint16(entry.Port),
		Text:     entry.Text,
		Addrs:    entryAddrs(entry),
	}
	return raw.ToBridge()
}

// entryAddrs collects the IPv4 and IPv6 addresses of an entry.
func entryAddrs(entry *zeroconf.ServiceEntry) []string {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

// mergeAddresses combines address lists without duplicates, preserving
// order.
func mergeAddresses(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		seen[a] = struct{}{}
	}
	for _, a := range extra {
		if _, ok := seen[a]; !ok {
			existing = append(existing, a)
			seen[a] = struct{}{}
		}
	}
	return existing
}

// removeAddresses drops the addresses carried by a removal entry.
func removeAddresses(addresses, gone []string) []string {
	drop := make(map[string]struct{}, len(gone))
	for _, a := range gone {
		drop[a] = struct{}{}
	}

	kept := addresses[:0]
	for _, a := range addresses {
		if _, ok := drop[a]; !ok {
			kept = append(kept, a)
		}
	}
	return kept
}
