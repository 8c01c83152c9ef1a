// Package history remembers streams that played so they can be suggested again.
package history

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/filesystem"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/stream"
	"github.com/streamplay-cli/streamplay/where"
)

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var (
	suggestionMu    sync.Mutex
	suggestionCache = make(map[string][]*Entry)
)

// now is replaced in tests.
var now = time.Now

// Get returns every remembered stream keyed by protocol and URL.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// List returns remembered streams, most recently played first.
func List() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastPlayed.After(entries[j].LastPlayed)
	})
	return entries, nil
}

// Remember records a validated stream, raising its rank when it is already known.
func Remember(result stream.Result) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	entry := &Entry{
		URL:         result.Request.URL,
		Protocol:    result.Request.Protocol,
		ContentType: result.ContentType,
		Rank:        1,
		LastPlayed:  now(),
	}

	if existing, ok := saved[entry.encode()]; ok {
		entry.Rank = existing.Rank + 1
	}
	saved[entry.encode()] = entry

	return set(saved)
}

// Remove forgets a single entry.
func Remove(entry *Entry) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, entry.encode())
	return set(saved)
}

// Clear forgets every entry.
func Clear() error {
	return set(make(map[string]*Entry))
}

func set(saved map[string]*Entry) error {
	suggestionMu.Lock()
	suggestionCache = make(map[string][]*Entry)
	suggestionMu.Unlock()

	return cacher.Set(saved)
}

// Suggest returns the best remembered URL matching partial input.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns remembered URLs that fuzzy-match q, highest rank first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.HistoryShowSuggestions) {
		return []string{}
	}

	q = sanitize(q)

	suggestionMu.Lock()
	defer suggestionMu.Unlock()

	records, ok := suggestionCache[q]
	if !ok {
		saved, err := Get()
		if err != nil {
			return []string{}
		}

		for _, entry := range saved {
			if fuzzy.MatchFold(q, entry.URL) {
				records = append(records, entry)
			}
		}

		sort.Slice(records, func(i, j int) bool {
			if records[i].Rank != records[j].Rank {
				return records[i].Rank > records[j].Rank
			}
			return records[i].LastPlayed.After(records[j].LastPlayed)
		})

		suggestionCache[q] = records
	}

	return lo.Uniq(lo.Map(records, func(e *Entry, _ int) string {
		return e.URL
	}))
}

func sanitize(q string) string {
	return strings.TrimSpace(q)
}
