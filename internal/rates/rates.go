package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Glayre/Proyecto-Final-Cavenet/pkg/logger"
)

const fetchTimeout = 10 * time.Second

// rateResponse mirrors the public exchange-rate API payload.
type rateResponse struct {
	Current struct {
		USD float64 `json:"usd"`
	} `json:"current"`
}

// Provider fetches the VED-per-USD rate from an external HTTP API and caches
// the last good value. The billing ledger only ever sees the cache: a failed
// or slow fetch degrades to the last-known-good rate instead of propagating.
type Provider struct {
	logger *logger.Logger

	url    string
	client *http.Client

	mu          sync.RWMutex
	lastRate    float64
	lastFetched time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProvider creates a rate provider against the given API URL.
func NewProvider(url string, logger *logger.Logger) *Provider {
	ctx, cancel := context.WithCancel(context.Background())
	return &Provider{
		logger: logger,
		url:    url,
		client: &http.Client{Timeout: fetchTimeout},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start fetches once and then refreshes the cache on every interval until
// Stop is called.
func (p *Provider) Start(interval time.Duration) {
	if err := p.refresh(); err != nil {
		p.logger.Warn("Initial exchange rate fetch failed ", "error ", err)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-p.ctx.Done():
				return
			case <-ticker.C:
				if err := p.refresh(); err != nil {
					p.logger.Warn("Exchange rate refresh failed, keeping cached rate ", "error ", err)
				}
			}
		}
	}()
}

// Stop cancels the background refresh and waits for it to exit.
func (p *Provider) Stop() {
	p.cancel()
	p.wg.Wait()
}

// CurrentRate returns the cached VED-per-USD rate, refreshing first if the
// cache is still empty. Fails only when no rate was ever fetched.
func (p *Provider) CurrentRate() (float64, error) {
	p.mu.RLock()
	rate := p.lastRate
	p.mu.RUnlock()
	if rate > 0 {
		return rate, nil
	}

	if err := p.refresh(); err != nil {
		return 0, fmt.Errorf("no exchange rate available: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRate, nil
}

func (p *Provider) refresh() error {
	req, err := http.NewRequestWithContext(p.ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch exchange rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read rate response: %w", err)
	}

	var parsed rateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to decode rate response: %w", err)
	}
	if parsed.Current.USD <= 0 {
		return fmt.Errorf("exchange rate API returned non-positive rate %f", parsed.Current.USD)
	}

	p.mu.Lock()
	p.lastRate = parsed.Current.USD
	p.lastFetched = time.Now()
	p.mu.Unlock()

	p.logger.Debug("Exchange rate updated ", "rate ", parsed.Current.USD)
	return nil
}
