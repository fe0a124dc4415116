package linkframe

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// DefaultRecentLimit is the number of recent links a LinkBook lists.
const DefaultRecentLimit = 5

var (
	// ErrInvalidLink is returned for links that fail validation.
	ErrInvalidLink = errors.New("linkframe: invalid link")
	// ErrLinkNotFound is returned when a link URL is unknown.
	ErrLinkNotFound = errors.New("linkframe: link not found")
)

// Link is a visited or pinned URL. Links are keyed by URL.
type Link struct {
	URL       string `json:"url" yaml:"url"`
	Title     string `json:"title" yaml:"title"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	Pinned    bool   `json:"pinned,omitempty" yaml:"pinned,omitempty"`
}

// Validate checks that the URL is absolute, the title is not blank and the
// timestamp is positive.
func (l Link) Validate() error {
	u, err := url.Parse(l.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: url %q is not absolute", ErrInvalidLink, l.URL)
	}
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidLink)
	}
	if l.Timestamp <= 0 {
		return fmt.Errorf("%w: timestamp must be positive", ErrInvalidLink)
	}
	return nil
}

// LinkStore persists links.
type LinkStore interface {
	PutLink(l Link) error
	GetLink(rawURL string) (Link, bool, error)
	DeleteLink(rawURL string) error
	// RecentLinks returns at most limit links, newest first.
	RecentLinks(limit int) ([]Link, error)
	// PinnedLinks returns all pinned links, newest first.
	PinnedLinks() ([]Link, error)
}

// MemoryLinkStore keeps links in a map.
type MemoryLinkStore struct {
	links map[string]Link
}

// NewMemoryLinkStore returns an empty store.
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{links: make(map[string]Link)}
}

func (s *MemoryLinkStore) PutLink(l Link) error {
	s.links[l.URL] = l
	return nil
}

func (s *MemoryLinkStore) GetLink(rawURL string) (Link, bool, error) {
	l, ok := s.links[rawURL]
	return l, ok, nil
}

func (s *MemoryLinkStore) DeleteLink(rawURL string) error {
	delete(s.links, rawURL)
	return nil
}

func (s *MemoryLinkStore) RecentLinks(limit int) ([]Link, error) {
	out := s.sorted(func(Link) bool { return true })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryLinkStore) PinnedLinks() ([]Link, error) {
	return s.sorted(func(l Link) bool { return l.Pinned }), nil
}

func (s *MemoryLinkStore) sorted(keep func(Link) bool) []Link {
	out := make([]Link, 0, len(s.links))
	for _, l := range s.links {
		if keep(l) {
			out = append(out, l)
		}
	}
	sortNewestFirst(out)
	return out
}

// sortNewestFirst orders by timestamp descending, then URL for stability.
func sortNewestFirst(links []Link) {
	sort.Slice(links, func(i, j int) bool {
		if links[i].Timestamp != links[j].Timestamp {
			return links[i].Timestamp > links[j].Timestamp
		}
		return links[i].URL < links[j].URL
	})
}

// LinkLists is what the main and recent views display.
type LinkLists struct {
	Pinned []Link
	Recent []Link
}

// LinkBook applies the pin and visit rules on top of a LinkStore.
type LinkBook struct {
	store LinkStore
	limit int
}

// NewLinkBook wraps store. A non-positive limit uses DefaultRecentLimit.
func NewLinkBook(store LinkStore, limit int) *LinkBook {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &LinkBook{store: store, limit: limit}
}

// Visit records a visit at t, keeping the link's pinned flag.
func (b *LinkBook) Visit(rawURL, title string, t int64) (Link, error) {
	existing, ok, err := b.store.GetLink(rawURL)
	if err != nil {
		return Link{}, fmt.Errorf("visit %s: %w", rawURL, err)
	}
	l := Link{
		URL:       rawURL,
		Title:     strings.TrimSpace(title),
		Timestamp: t,
		Pinned:    ok && existing.Pinned,
	}
	if l.Title == "" && ok {
		l.Title = existing.Title
	}
	if err := l.Validate(); err != nil {
		return Link{}, err
	}
	if err := b.store.PutLink(l); err != nil {
		return Link{}, fmt.Errorf("visit %s: %w", rawURL, err)
	}
	return l, nil
}

// Add validates and stores l as given.
func (b *LinkBook) Add(l Link) error {
	l.Title = strings.TrimSpace(l.Title)
	if err := l.Validate(); err != nil {
		return err
	}
	if err := b.store.PutLink(l); err != nil {
		return fmt.Errorf("add %s: %w", l.URL, err)
	}
	return nil
}

// SetPinned sets the pinned flag of a known link.
func (b *LinkBook) SetPinned(rawURL string, pinned bool) (Link, error) {
	l, ok, err := b.store.GetLink(rawURL)
	if err != nil {
		return Link{}, fmt.Errorf("pin %s: %w", rawURL, err)
	}
	if !ok {
		return Link{}, fmt.Errorf("%w: %s", ErrLinkNotFound, rawURL)
	}
	l.Pinned = pinned
	if err := b.store.PutLink(l); err != nil {
		return Link{}, fmt.Errorf("pin %s: %w", rawURL, err)
	}
	return l, nil
}

// Pin marks a link as pinned.
func (b *LinkBook) Pin(rawURL string) (Link, error) { return b.SetPinned(rawURL, true) }

// Unpin clears a link's pinned flag.
func (b *LinkBook) Unpin(rawURL string) (Link, error) { return b.SetPinned(rawURL, false) }

// TogglePin flips a link's pinned flag.
func (b *LinkBook) TogglePin(rawURL string) (Link, error) {
	l, ok, err := b.store.GetLink(rawURL)
	if err != nil {
		return Link{}, fmt.Errorf("toggle pin %s: %w", rawURL, err)
	}
	if !ok {
		return Link{}, fmt.Errorf("%w: %s", ErrLinkNotFound, rawURL)
	}
	return b.SetPinned(rawURL, !l.Pinned)
}

// Remove deletes a link.
func (b *LinkBook) Remove(rawURL string) error {
	if err := b.store.DeleteLink(rawURL); err != nil {
		return fmt.Errorf("remove %s: %w", rawURL, err)
	}
	return nil
}

// Lists returns the pinned links and the most recent links.
func (b *LinkBook) Lists() (LinkLists, error) {
	pinned, err := b.store.PinnedLinks()
	if err != nil {
		return LinkLists{}, fmt.Errorf("list pinned links: %w", err)
	}
	recent, err := b.store.RecentLinks(b.limit)
	if err != nil {
		return LinkLists{}, fmt.Errorf("list recent links: %w", err)
	}
	return LinkLists{Pinned: pinned, Recent: recent}, nil
}
