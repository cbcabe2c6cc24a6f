// Package discovery locates Lutron bridges on the local network via
// mDNS/DNS-SD. Bridges advertise the _lutron._tcp service; the browser
// resolves each advertisement into a Bridge with its addresses and the
// identity fields from the TXT record.
//
//	browser, _ := discovery.NewBrowser(discovery.DefaultBrowserConfig())
//	bridge, err := browser.FindFirst(ctx)
//	if err == nil {
//	    client := lip.NewClient(lip.DefaultConfig(bridge.Addresses[0]))
//	    ...
//	}
package discovery
