// Package timingapi fetches word timings of full-surah reciters. Every reader
// folder serves a segments.json with the word intervals of each ayah and a
// surah.json with the track URL of each surah.
package timingapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/escalopa/quran-mushaf/internal/domain"
)

type segmentEntry struct {
	Segments      [][]float64 `json:"segments"`
	DurationMS    float64     `json:"duration_ms"`
	TimestampFrom float64     `json:"timestamp_from"`
	TimestampTo   float64     `json:"timestamp_to"`
}

type surahEntry struct {
	AudioURL string `json:"audio_url"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.Mutex
	segments map[string]map[string]segmentEntry // reader folder -> "S:A"
	surahs   map[string]map[string]surahEntry   // reader folder -> "S"
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		segments: make(map[string]map[string]segmentEntry),
		surahs:   make(map[string]map[string]surahEntry),
	}
}

// getJSON decodes the file at path into v. It reports false when the server
// has no such file.
func (c *Client) getJSON(ctx context.Context, path string, v any) (bool, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

// segmentsFor loads the segments file of a reader folder once. A missing
// file is cached as empty.
func (c *Client) segmentsFor(ctx context.Context, folder string) (map[string]segmentEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.segments[folder]; ok {
		return data, nil
	}

	data := map[string]segmentEntry{}
	if _, err := c.getJSON(ctx, folder+"/segments.json", &data); err != nil {
		return nil, fmt.Errorf("get segments of %s: %w", folder, err)
	}
	c.segments[folder] = data
	return data, nil
}

func (c *Client) surahsFor(ctx context.Context, folder string) (map[string]surahEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if data, ok := c.surahs[folder]; ok {
		return data, nil
	}

	data := map[string]surahEntry{}
	if _, err := c.getJSON(ctx, folder+"/surah.json", &data); err != nil {
		return nil, fmt.Errorf("get surahs of %s: %w", folder, err)
	}
	c.surahs[folder] = data
	return data, nil
}

// AyahTimings returns the timings of an ayah, or nil when the reader has none.
// Times are offsets inside the full-surah track.
func (c *Client) AyahTimings(ctx context.Context, reciter domain.Reciter, surahNumber, ayahNumber int) (*domain.AyahTiming, error) {
	if !reciter.UsesSegments() {
		return nil, nil
	}

	data, err := c.segmentsFor(ctx, reciter.ReaderFolder)
	if err != nil {
		return nil, err
	}

	entry, ok := data[domain.AyahKey(surahNumber, ayahNumber)]
	if !ok || entry.Segments == nil {
		return nil, nil
	}
	return mapEntry(reciter.ID, surahNumber, ayahNumber, entry), nil
}

// SurahTimings returns the timings of every ayah of a surah the reader has,
// ordered by ayah.
func (c *Client) SurahTimings(ctx context.Context, reciter domain.Reciter, surahNumber int) ([]domain.AyahTiming, error) {
	if !reciter.UsesSegments() {
		return []domain.AyahTiming{}, nil
	}

	data, err := c.segmentsFor(ctx, reciter.ReaderFolder)
	if err != nil {
		return nil, err
	}

	prefix := strconv.Itoa(surahNumber) + ":"
	timings := []domain.AyahTiming{}
	for key, entry := range data {
		if !strings.HasPrefix(key, prefix) || entry.Segments == nil {
			continue
		}
		ayahNumber, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
		if err != nil {
			continue
		}
		timings = append(timings, *mapEntry(reciter.ID, surahNumber, ayahNumber, entry))
	}

	sort.Slice(timings, func(i, j int) bool { return timings[i].AyahNumber < timings[j].AyahNumber })
	return timings, nil
}

// SurahAudioURL returns the full-surah track, or "" when the reader has none
func (c *Client) SurahAudioURL(ctx context.Context, reciter domain.Reciter, surahNumber int) (string, error) {
	if !reciter.UsesSegments() {
		return "", nil
	}

	data, err := c.surahsFor(ctx, reciter.ReaderFolder)
	if err != nil {
		return "", err
	}
	return data[strconv.Itoa(surahNumber)].AudioURL, nil
}

func mapEntry(reciterID, surahNumber, ayahNumber int, entry segmentEntry) *domain.AyahTiming {
	timing := &domain.AyahTiming{
		Reciter:       reciterID,
		SurahNumber:   surahNumber,
		AyahNumber:    ayahNumber,
		Timings:       make([]domain.WordTiming, 0, len(entry.Segments)),
		TimestampFrom: millis(entry.TimestampFrom),
	}

	for _, seg := range entry.Segments {
		// empty or partial segments show up in some readers
		if len(seg) < 3 || seg[0] <= 0 {
			continue
		}
		timing.Timings = append(timing.Timings, domain.WordTiming{
			WordNumber: int(seg[0]),
			Start:      millis(seg[1]),
			End:        millis(seg[2]),
		})
	}
	return timing
}

func millis(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}
