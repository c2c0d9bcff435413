package fetch

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// DesktopUserAgent is required by the BiliBili web API, which rejects the Go
// default and mobile agents.
const DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// NewHttpClient builds the shared HTTP client used across all extractors.
// The cookie jar is needed for BiliBili short-link redirect handling; the
// pooled transport is shared across requests.
func NewHttpClient(proxyUrl string, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: timeout,
	}
	if proxyUrl != "" {
		proxyURL, err := url.Parse(proxyUrl)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{
		Transport: transport,
		Jar:       jar,
		Timeout:   timeout,
	}

	return client, nil
}
