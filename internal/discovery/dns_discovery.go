package discovery

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"

	"github.com/platformbuilds/mirador-alert-panel/internal/config"
	"github.com/platformbuilds/mirador-alert-panel/pkg/logger"
)

// Resolver is the subset of *net.Resolver used for discovery.
type Resolver interface {
	LookupSRV(ctx context.Context, service, proto, name string) (string, []*net.SRV, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// ResolveValkeyNodes resolves the discovery target into host:port Valkey
// nodes. With use_srv the _redis._tcp record supplies targets and ports;
// otherwise every A/AAAA record of the service (one per pod of a headless
// service) is paired with the configured port. The result is de-duplicated
// and sorted.
func ResolveValkeyNodes(ctx context.Context, cfg config.CacheDiscoveryConfig, r Resolver, log logger.Logger) ([]string, error) {
	log = logger.OrNop(log)
	if r == nil {
		r = net.DefaultResolver
	}

	var nodes []string
	if cfg.UseSRV {
		name := cfg.Service
		if !strings.HasPrefix(name, "_") {
			name = "_redis._tcp." + name
		}
		_, addrs, err := r.LookupSRV(ctx, "", "", name)
		if err != nil {
			return nil, fmt.Errorf("resolve SRV %s: %w", name, err)
		}
		for _, a := range addrs {
			host := strings.TrimSuffix(a.Target, ".")
			nodes = append(nodes, net.JoinHostPort(host, strconv.Itoa(int(a.Port))))
		}
	} else {
		ips, err := r.LookupIPAddr(ctx, cfg.Service)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", cfg.Service, err)
		}
		for _, ip := range ips {
			nodes = append(nodes, net.JoinHostPort(ip.IP.String(), strconv.Itoa(cfg.Port)))
		}
	}

	nodes = dedupeSorted(nodes)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no Valkey nodes found for %s", cfg.Service)
	}
	log.Info("Valkey nodes discovered", "service", cfg.Service, "srv", cfg.UseSRV, "nodes", nodes)
	return nodes, nil
}

func dedupeSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, e := range in {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
