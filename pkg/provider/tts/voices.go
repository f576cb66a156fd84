package tts

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Accent group names in display order. Only English voices are grouped; the
// drill course is English-only.
var accentOrder = []string{"British", "American", "Australian", "Other"}

// VoiceGroup is one accent bucket of the voice picker.
type VoiceGroup struct {
	Accent string
	Voices []Voice
}

// GroupByAccent buckets English voices by accent for the voice picker:
// British (en-GB), American (en-US), Australian (en-AU), and Other for any
// remaining en-* tags. Non-English voices are dropped. Empty groups are
// omitted; group order is fixed.
func GroupByAccent(voices []Voice) []VoiceGroup {
	buckets := make(map[string][]Voice)
	for _, v := range voices {
		lang := v.Language
		switch {
		case strings.HasPrefix(lang, "en-GB"):
			buckets["British"] = append(buckets["British"], v)
		case strings.HasPrefix(lang, "en-US"):
			buckets["American"] = append(buckets["American"], v)
		case strings.HasPrefix(lang, "en-AU"):
			buckets["Australian"] = append(buckets["Australian"], v)
		case strings.HasPrefix(lang, "en-"):
			buckets["Other"] = append(buckets["Other"], v)
		}
	}

	groups := make([]VoiceGroup, 0, len(accentOrder))
	for _, accent := range accentOrder {
		if vs := buckets[accent]; len(vs) > 0 {
			groups = append(groups, VoiceGroup{Accent: accent, Voices: vs})
		}
	}
	return groups
}

// VoiceCache memoises a Synthesizer's voice catalogue. Provider voice lists
// change rarely but the picker requests them on every page load, so a short
// TTL avoids hammering the backend.
type VoiceCache struct {
	s   Synthesizer
	ttl time.Duration

	mu      sync.Mutex
	voices  []Voice
	fetched time.Time
}

// NewVoiceCache wraps s with a voice-list cache. A ttl of 0 defaults to
// 5 minutes.
func NewVoiceCache(s Synthesizer, ttl time.Duration) *VoiceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &VoiceCache{s: s, ttl: ttl}
}

// Voices returns the cached catalogue, refreshing it from the backend when
// the TTL has expired. A refresh failure returns the stale list if one
// exists, so a transient backend outage does not empty the picker.
func (c *VoiceCache) Voices(ctx context.Context) ([]Voice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.voices != nil && time.Since(c.fetched) < c.ttl {
		return c.voices, nil
	}

	voices, err := c.s.Voices(ctx)
	if err != nil {
		if c.voices != nil {
			return c.voices, nil
		}
		return nil, err
	}
	c.voices = voices
	c.fetched = time.Now()
	return voices, nil
}

// Invalidate drops the cached list so the next Voices call refreshes.
func (c *VoiceCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voices = nil
}
