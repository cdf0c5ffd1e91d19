// This module hosts named lists for the ports. Lists are distributed uniformly across shards by hashing their key;
// each shard has a mutex that serializes every access to its lists, since the lists themselves aren't thread-safe.
// Goroutines working on keys of different shards don't block each other.
//
// Every list is paired with a bloom filter of the values inserted into it, which lets Find answer "not present"
// without walking the list. Removing a value can't unset its bits, so removals only add false positives; once there
// have been more removals than remaining elements, the filter is rebuilt from the list.

package store

import (
	"errors"
	"flag"
	"fmt"
	"slices"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
	"github.com/nobletooth/dlist/pkg/list"
	"github.com/nobletooth/dlist/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	shardCount    = flag.Int("shard_count", 16, "Number of lock shards the named lists are distributed over.")
	maxListLength = flag.Int("max_list_length", 0, "Maximum number of elements in a single list; 0 is unlimited.")
)

var (
	ErrKeyNotFound = errors.New("key was not found")
	ErrListFull    = errors.New("list reached its maximum length")
)

const (
	minFilterCapacity       = 64   // Smallest number of elements a bloom filter is sized for.
	filterFalsePositiveRate = 0.01 // Target false positive rate of a freshly built filter.
)

var findsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dlist",
	Name:      "store_finds_total",
	Help:      "The total number of Find calls on the list store, by how they were answered.",
}, []string{
	"result", // One of "filtered" (rejected by the bloom filter), "scanned_hit" or "scanned_miss".
})

// listEntry is a named list together with the bloom filter over its values.
type listEntry struct {
	items    *list.DoublyLinkedList[string]
	filter   *bloom.BloomFilter
	capacity uint // Number of elements the filter was sized for.
	removals int  // Number of removed values whose bits are still set in the filter.
}

func newListEntry() *listEntry {
	entry := &listEntry{items: list.New[string]()}
	entry.rebuildFilter()
	return entry
}

// rebuildFilter sizes a new filter for twice the current list size and fills it with the current values.
func (e *listEntry) rebuildFilter() {
	e.capacity = max(2*uint(e.items.Size()), minFilterCapacity)
	e.filter = bloom.NewWithEstimates(e.capacity, filterFalsePositiveRate)
	for _, item := range e.items.All() {
		e.filter.AddString(item)
	}
	e.removals = 0
}

func (e *listEntry) insert(item string, pos int) error {
	if err := e.items.Insert(item, pos); err != nil {
		return err
	}
	e.filter.AddString(item)
	if uint(e.items.Size()) > e.capacity { // The filter would degrade past its target rate.
		e.rebuildFilter()
	}
	return nil
}

func (e *listEntry) remove(pos int) error {
	if err := e.items.Remove(pos); err != nil {
		return err
	}
	e.removals++
	if e.removals > e.items.Size() {
		e.rebuildFilter()
	}
	return nil
}

func (e *listEntry) find(item string) int {
	if !e.filter.TestString(item) {
		findsMetric.WithLabelValues("filtered").Inc()
		return -1
	}
	pos := e.items.Find(item)
	if pos < 0 {
		findsMetric.WithLabelValues("scanned_miss").Inc()
	} else {
		findsMetric.WithLabelValues("scanned_hit").Inc()
	}
	return pos
}

// shard owns a subset of the named lists; its mutex guards the map and every list in it.
type shard struct {
	mux   sync.Mutex
	lists map[string]*listEntry
}

// ListStore is a thread-safe collection of named string lists. A key exists as long as its list is non-empty.
type ListStore struct {
	shards        []*shard
	maxListLength int // Non-positive means unlimited.
}

// NewListStore creates a store with `shardCount` shards whose lists can hold up to `maxListLength` elements.
func NewListStore(shardCount, maxListLength int) *ListStore {
	// Ensure there is at least one shard.
	if shardCount <= 0 {
		utils.RaiseInvariant("store", "non_positive_shard_count",
			"Invalid shard count has been given to the list store.", "shardCount", shardCount)
		shardCount = 1
	}
	store := &ListStore{shards: make([]*shard, shardCount), maxListLength: maxListLength}
	for i := range shardCount {
		store.shards[i] = &shard{lists: make(map[string]*listEntry)}
	}
	return store
}

// NewListStoreFromFlags creates a store configured by the --shard_count and --max_list_length flags.
func NewListStoreFromFlags() *ListStore {
	return NewListStore(*shardCount, *maxListLength)
}

// getShard hashes the key to pick the shard it belongs to.
func (s *ListStore) getShard(key string) *shard {
	return s.shards[xxhash.Sum64String(key)%uint64(len(s.shards))]
}

// withList runs `fn` on the list of `key` while holding its shard lock, or returns ErrKeyNotFound.
func (s *ListStore) withList(key string, fn func(entry *listEntry) error) error {
	sh := s.getShard(key)
	sh.mux.Lock()
	defer sh.mux.Unlock()

	entry, exists := sh.lists[key]
	if !exists {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return fn(entry)
}

// Size returns the number of elements in the list of `key`; missing keys have size zero.
func (s *ListStore) Size(key string) int {
	size := 0
	_ = s.withList(key, func(entry *listEntry) error {
		size = entry.items.Size()
		return nil
	})
	return size
}

// Get returns the element at `pos` in the list of `key`.
func (s *ListStore) Get(key string, pos int) (string, error) {
	var value string
	err := s.withList(key, func(entry *listEntry) error {
		var getErr error
		value, getErr = entry.items.Get(pos)
		return getErr
	})
	return value, err
}

// Find returns the position of the first `item` in the list of `key`, or -1 if the item or the key is missing.
func (s *ListStore) Find(key, item string) int {
	pos := -1
	_ = s.withList(key, func(entry *listEntry) error {
		pos = entry.find(item)
		return nil
	})
	return pos
}

// Insert puts `item` at `pos` in the list of `key`, creating the list if needed, and returns the new list size.
func (s *ListStore) Insert(key, item string, pos int) (int, error) {
	sh := s.getShard(key)
	sh.mux.Lock()
	defer sh.mux.Unlock()

	entry, exists := sh.lists[key]
	if !exists {
		entry = newListEntry()
	}
	if pos < 0 || pos > entry.items.Size() {
		return entry.items.Size(), entry.insert(item, pos) // Fails with list.ErrOutOfRange, leaving the list as is.
	}
	if s.maxListLength > 0 && entry.items.Size() >= s.maxListLength {
		return entry.items.Size(), fmt.Errorf("%w: %s has %d elements", ErrListFull, key, entry.items.Size())
	}
	if err := entry.insert(item, pos); err != nil {
		return entry.items.Size(), err
	}
	sh.lists[key] = entry
	return entry.items.Size(), nil
}

// Remove deletes the element at `pos` in the list of `key` and returns the new list size.
// The key is dropped once its list becomes empty.
func (s *ListStore) Remove(key string, pos int) (int, error) {
	sh := s.getShard(key)
	sh.mux.Lock()
	defer sh.mux.Unlock()

	entry, exists := sh.lists[key]
	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err := entry.remove(pos); err != nil {
		return entry.items.Size(), err
	}
	if entry.items.Size() == 0 {
		delete(sh.lists, key)
	}
	return entry.items.Size(), nil
}

// Dump renders the list of `key` for debugging.
func (s *ListStore) Dump(key string) (string, error) {
	var dump string
	err := s.withList(key, func(entry *listEntry) error {
		dump = entry.items.String()
		return nil
	})
	return dump, err
}

// Validate checks the structural invariants of the list of `key`.
func (s *ListStore) Validate(key string) error {
	return s.withList(key, func(entry *listEntry) error {
		return entry.items.Validate()
	})
}

// Delete drops the given keys and returns how many of them existed.
func (s *ListStore) Delete(keys ...string) int {
	deleted := 0
	for _, key := range keys {
		sh := s.getShard(key)
		sh.mux.Lock()
		if entry, exists := sh.lists[key]; exists {
			entry.items.Clear()
			delete(sh.lists, key)
			deleted++
		}
		sh.mux.Unlock()
	}
	return deleted
}

// Keys returns the sorted keys of all lists. It locks every shard in turn, so it is relatively expensive.
func (s *ListStore) Keys() []string {
	keys := make([]string, 0)
	for _, sh := range s.shards {
		sh.mux.Lock()
		for key := range sh.lists {
			keys = append(keys, key)
		}
		sh.mux.Unlock()
	}
	slices.Sort(keys)
	return keys
}
