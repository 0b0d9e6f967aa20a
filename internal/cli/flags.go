package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/vvka-141/netres/internal/checks"
	"github.com/vvka-141/netres/pkg/netres"
)

// adhocFlagValues holds checks passed on the command line.
type adhocFlagValues struct {
	urls  []string
	https []string
	tcps  []string
}

func (f adhocFlagValues) targets() ([]checks.Target, error) {
	var targets []checks.Target

	for _, u := range f.urls {
		targets = append(targets, checks.Target{Kind: checks.KindDatabase, URL: u})
	}
	for _, u := range f.https {
		targets = append(targets, checks.Target{Kind: checks.KindHTTP, URL: u})
	}
	for _, addr := range f.tcps {
		host, port, err := parseHostPort(addr)
		if err != nil {
			return nil, err
		}
		targets = append(targets, checks.Target{Kind: checks.KindTCP, Host: host, Port: port})
	}
	return targets, nil
}

func parseHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --tcp %q (want host:port): %w", addr, netres.ErrInvalidConfig)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port in --tcp %q: %w", addr, netres.ErrInvalidConfig)
	}
	if host == "" {
		host = "localhost"
	}
	return host, port, nil
}
