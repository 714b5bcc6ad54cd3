package executor

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// CategorizeError turns a transport error into a short, actionable message
// about the connection to the rendering service
func CategorizeError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timeout - the rendering service took too long, raise the profile timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled"
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return "TLS certificate signed by unknown authority - add caFile to the profile or set insecureSkipVerify"
	}
	var invalidCert x509.CertificateInvalidError
	if errors.As(err, &invalidCert) {
		return "TLS certificate is invalid: " + invalidCert.Error()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if msg := categorizeNetError(opErr); msg != "" {
			return msg
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "Request timeout - the rendering service took too long, raise the profile timeout"
	}

	return categorizeMessage(err.Error())
}

func categorizeNetError(e *net.OpError) string {
	if e.Timeout() {
		return "Connection timeout - the rendering service did not answer in time"
	}

	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED:
			return "Connection refused - is the rendering service running on that port?"
		case syscall.ECONNRESET:
			return "Connection reset - the rendering service dropped the connection"
		case syscall.ENETUNREACH:
			return "Network unreachable - check the network connection"
		case syscall.EHOSTUNREACH:
			return "Host unreachable - check that the rendering service host is online"
		}
	}
	return ""
}

// categorizeMessage falls back to matching on the error text
func categorizeMessage(msg string) string {
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "deadline exceeded"):
		return "Request timeout - the rendering service took too long, raise the profile timeout"
	case strings.Contains(lower, "proxy"):
		return "Proxy connection failed - check HTTP_PROXY/HTTPS_PROXY"
	case strings.Contains(lower, "no such host"), strings.Contains(lower, "dial tcp: lookup"):
		return "DNS resolution failed - check the profile baseUrl host name"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused - is the rendering service running on that port?"
	case strings.Contains(lower, "connection reset"):
		return "Connection reset - the rendering service dropped the connection"
	case strings.Contains(lower, "network is unreachable"), strings.Contains(lower, "no route to host"):
		return "Network unreachable - check the network connection"
	case strings.Contains(lower, "x509"), strings.Contains(lower, "tls"), strings.Contains(lower, "certificate"):
		return categorizeTLSMessage(lower, msg)
	case strings.Contains(lower, "unsupported protocol"):
		return "Invalid base URL - use http:// or https://"
	case strings.Contains(lower, "eof"):
		return "Connection closed unexpectedly by the rendering service"
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "timed out"):
		return "Connection timeout - the rendering service did not answer in time"
	}

	return "Request failed: " + msg
}

func categorizeTLSMessage(lower, msg string) string {
	switch {
	case strings.Contains(lower, "unknown authority"):
		return "TLS certificate signed by unknown authority - add caFile to the profile or set insecureSkipVerify"
	case strings.Contains(lower, "expired"):
		return "TLS certificate has expired"
	case strings.Contains(lower, "certificate is valid for"):
		return "TLS hostname mismatch - the certificate does not cover the profile host"
	case strings.Contains(lower, "certificate required"):
		return "TLS client certificate required - set certFile and keyFile in the profile"
	case strings.Contains(lower, "handshake"):
		return "TLS handshake failed - check TLS versions and cipher suites"
	}
	return "TLS error: " + msg
}
