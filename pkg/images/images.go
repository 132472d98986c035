package images

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/kherington/reportcrew/internal/models"
)

const (
	defaultUnsplashBaseURL = "https://api.unsplash.com"
	defaultPexelsBaseURL   = "https://api.pexels.com"
	placeholderBaseURL     = "https://picsum.photos"
)

type ClientConfig struct {
	UnsplashAccessKey string
	PexelsAPIKey      string
	RateLimit         float64 // requests per second against the image APIs
	Timeout           time.Duration
	UnsplashBaseURL   string
	PexelsBaseURL     string
}

// Client looks up topic-related images. Lookups never fail: on a missing
// key, non-2xx response or timeout the result degrades to deterministic
// placeholders. Results are cached by query for the duration of one run.
type Client struct {
	config  ClientConfig
	client  *http.Client
	limiter *rate.Limiter

	mu    sync.Mutex
	cache map[string][]models.ImageRef
}

func NewWithConfig(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}
	if config.UnsplashBaseURL == "" {
		config.UnsplashBaseURL = defaultUnsplashBaseURL
	}
	if config.PexelsBaseURL == "" {
		config.PexelsBaseURL = defaultPexelsBaseURL
	}

	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		cache:   make(map[string][]models.ImageRef),
	}
}

// Search returns count images for the query. Unsplash is tried first, then
// Pexels, then placeholders fill whatever is missing.
func (c *Client) Search(ctx context.Context, query string, count int) ([]models.ImageRef, error) {
	if count <= 0 {
		count = 3
	}

	c.mu.Lock()
	if cached, ok := c.cache[query]; ok {
		// A larger request than the one that filled the cache is topped up
		// with placeholders, continuing the deterministic sequence.
		if len(cached) < count {
			cached = append(cached, placeholdersFrom(query, len(cached), count-len(cached))...)
			c.cache[query] = cached
		}
		c.mu.Unlock()
		return trim(cached, count), nil
	}
	c.mu.Unlock()

	var images []models.ImageRef
	images = append(images, c.searchUnsplash(ctx, query, count)...)
	if len(images) < count {
		images = append(images, c.searchPexels(ctx, query, count-len(images))...)
	}
	if len(images) < count {
		images = append(images, Placeholders(query, count-len(images))...)
	}
	images = trim(images, count)

	c.mu.Lock()
	c.cache[query] = images
	c.mu.Unlock()

	return images, nil
}

func trim(images []models.ImageRef, count int) []models.ImageRef {
	if len(images) > count {
		return images[:count]
	}
	return images
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type unsplashResponse struct {
	Results []struct {
		AltDescription string `json:"alt_description"`
		URLs           struct {
			Regular string `json:"regular"`
		} `json:"urls"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

func (c *Client) searchUnsplash(ctx context.Context, query string, count int) []models.ImageRef {
	if c.config.UnsplashAccessKey == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=%d",
		c.config.UnsplashBaseURL, url.QueryEscape(query), count)

	var resp unsplashResponse
	err := c.getJSON(ctx, endpoint, "Client-ID "+c.config.UnsplashAccessKey, &resp)
	if err != nil {
		logrus.Warnf("unsplash lookup for %q failed: %v", query, err)
		return nil
	}

	var images []models.ImageRef
	for _, img := range resp.Results {
		alt := img.AltDescription
		if alt == "" {
			alt = query
		}
		images = append(images, models.ImageRef{
			URL:     img.URLs.Regular,
			Alt:     alt,
			Caption: fmt.Sprintf("Photo by %s on Unsplash", img.User.Name),
			Source:  "unsplash",
		})
	}
	return images
}

type pexelsResponse struct {
	Photos []struct {
		Photographer string `json:"photographer"`
		Src          struct {
			Large string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

func (c *Client) searchPexels(ctx context.Context, query string, count int) []models.ImageRef {
	if c.config.PexelsAPIKey == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/v1/search?query=%s&per_page=%d",
		c.config.PexelsBaseURL, url.QueryEscape(query), count)

	var resp pexelsResponse
	err := c.getJSON(ctx, endpoint, c.config.PexelsAPIKey, &resp)
	if err != nil {
		logrus.Warnf("pexels lookup for %q failed: %v", query, err)
		return nil
	}

	var images []models.ImageRef
	for _, img := range resp.Photos {
		images = append(images, models.ImageRef{
			URL:     img.Src.Large,
			Alt:     fmt.Sprintf("%s image", query),
			Caption: fmt.Sprintf("Photo by %s on Pexels", img.Photographer),
			Source:  "pexels",
		})
	}
	return images
}

func (c *Client) getJSON(ctx context.Context, endpoint, auth string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", auth)

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("image api error (status %d)", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}

// Placeholders returns deterministic picsum.photos references for a query.
// The same query always maps to the same URLs.
func Placeholders(query string, count int) []models.ImageRef {
	return placeholdersFrom(query, 0, count)
}

// placeholdersFrom continues the sequence at offset so cache top-ups never
// repeat earlier URLs for the same query.
func placeholdersFrom(query string, offset, count int) []models.ImageRef {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(query)))
	seed := h.Sum32()

	images := make([]models.ImageRef, 0, count)
	for i := 0; i < count; i++ {
		id := (seed + uint32(offset+i)) % 1000
		images = append(images, models.ImageRef{
			URL:     fmt.Sprintf("%s/id/%d/800/600", placeholderBaseURL, id),
			Alt:     fmt.Sprintf("%s illustration", query),
			Caption: fmt.Sprintf("Illustration related to %s", capitalize(query)),
			Source:  "placeholder",
		})
	}
	return images
}
