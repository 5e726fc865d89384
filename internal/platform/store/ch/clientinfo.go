package ch

import (
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type product = struct{ Name, Version string }

// clientInfo names this process in system.query_log
// name carries the build revision; role and the go version follow when known
func clientInfo(name, role string) clickhouse.ClientInfo {
	products := []product{{Name: strings.TrimSpace(name), Version: revision()}}
	if role = strings.TrimSpace(role); role != "" {
		products = append(products, product{Name: role})
	}
	products = append(products, product{Name: "go", Version: strings.TrimPrefix(runtime.Version(), "go")})
	return clickhouse.ClientInfo{Products: products}
}

// revision is the short vcs revision go build stamped, "dev" without one
func revision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return "dev"
}
