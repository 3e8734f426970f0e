// Package keepalive periodically pings the public URL of the service so the
// hosting platform does not put it to sleep.
package keepalive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.vocdoni.io/dvote/log"
)

// PingPath is the path requested on every ping.
const PingPath = "/ping"

// Pinger requests baseURL + PingPath every interval.
type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
}

// New returns a pinger for the service reachable at baseURL.
func New(baseURL string, interval time.Duration) (*Pinger, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("keep-alive URL is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid keep-alive interval %s", interval)
	}
	return &Pinger{
		url:      strings.TrimRight(baseURL, "/") + PingPath,
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Start pings the service every interval until ctx is cancelled. It does not
// block. Failed pings are logged and otherwise ignored.
func (p *Pinger) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		log.Infow("keep-alive pinger started", "url", p.url, "interval", p.interval.String())
		for {
			select {
			case <-ctx.Done():
				log.Debugw("keep-alive pinger stopped")
				return
			case <-ticker.C:
				if err := p.ping(ctx); err != nil {
					log.Warnw("keep-alive ping failed", "url", p.url, "error", err)
				}
			}
		}
	}()
}

func (p *Pinger) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	log.Debugw("keep-alive ping", "url", p.url)
	return nil
}
