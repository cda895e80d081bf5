// Copyright 2025, the WhizLite contributors
// SPDX-License-Identifier: AGPL-3.0-only

package telegraph

import (
	"crypto/tls"
	"net/http"
)

const (
	// clientSessionCacheSize defines the size of the TLS session cache.
	clientSessionCacheSize = 20

	// maxIdleConnsPerHost defines maximum idle connections to keep per host.
	maxIdleConnsPerHost = 20

	// bufferSize defines the read and write buffer size in bytes (32KB).
	bufferSize = 32 * 1024
)

// transport is a pre-configured http.Transport shared by all clients.
var transport = &http.Transport{
	TLSClientConfig: &tls.Config{
		ClientSessionCache: tls.NewLRUClientSessionCache(clientSessionCacheSize),
		MinVersion:         tls.VersionTLS12,
	},
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        0,
	MaxIdleConnsPerHost: maxIdleConnsPerHost,
	WriteBufferSize:     bufferSize,
	ReadBufferSize:      bufferSize,
}
