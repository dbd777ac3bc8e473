package s3store

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spogiri123/iceberg"
)

// HealthCheck attempts a best-effort HTTP ping against a custom store
// endpoint. This is intentionally lightweight and non-authoritative: it only
// succeeds for endpoints that accept anonymous HEAD requests (e.g., some
// MinIO setups). For AWS S3 this will often return 403 but is still useful
// to validate DNS resolution and TLS.
func HealthCheck(ctx context.Context, cfg iceberg.StoreConfig, timeout time.Duration) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("store endpoint not configured")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{
		Timeout: timeout,
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, cfg.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("store health request build failed: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("store health request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return nil
	}
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("store endpoint reachable but returned auth error: %d", resp.StatusCode)
	}
	return fmt.Errorf("store endpoint returned unexpected status: %d", resp.StatusCode)
}
