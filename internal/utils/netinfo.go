package utils

import (
	"fmt"
	"net"
	"strings"
)

// LocalIPs returns the non-loopback IPv4 addresses of this host.
// Link-local (169.254.x.x) addresses are dropped when a routable one exists.
func LocalIPs() []string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	var ips []string
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			ips = append(ips, ipnet.IP.String())
		}
	}
	return filterLinkLocal(ips)
}

func filterLinkLocal(ips []string) []string {
	routable := false
	for _, ip := range ips {
		if !strings.HasPrefix(ip, "169.254.") {
			routable = true
			break
		}
	}
	if !routable {
		return ips
	}
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		if !strings.HasPrefix(ip, "169.254.") {
			out = append(out, ip)
		}
	}
	return out
}

// StationURLs lists the addresses scanner pages can reach this station on
func StationURLs(port string) []string {
	ips := LocalIPs()
	urls := make([]string, 0, len(ips))
	for _, ip := range ips {
		urls = append(urls, fmt.Sprintf("http://%s:%s/", ip, port))
	}
	return urls
}
