package leaderboard

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"

	"habitquest/core"
)

// A simple skip list keyed by (xp desc, profile asc) to achieve O(log n) updates.

const maxLevel = 16
const pFactor = 0.25

type node struct {
	e    Entry
	next [maxLevel]*node
}

type SkipList struct {
	mu        sync.RWMutex
	head      *node
	lvl       int
	byProfile map[core.ProfileID]*node
	rng       *rand.Rand
}

func NewSkipList() *SkipList {
	// Use crypto/rand to generate a secure seed
	var seed [16]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		// Fallback to zero seed if crypto/rand fails (extremely unlikely)
		seed = [16]byte{}
	}
	seed1 := binary.BigEndian.Uint64(seed[:8])
	seed2 := binary.BigEndian.Uint64(seed[8:])

	return &SkipList{
		head:      &node{},
		lvl:       1,
		byProfile: map[core.ProfileID]*node{},
		rng:       rand.New(rand.NewSource(int64(seed1 ^ seed2))),
	}
}

func (s *SkipList) randomLevel() int {
	lvl := 1
	for lvl < maxLevel && s.rng.Float64() < pFactor {
		lvl++
	}
	return lvl
}

func less(a, b Entry) bool {
	if a.TotalXP == b.TotalXP {
		return a.Profile < b.Profile
	}
	return a.TotalXP > b.TotalXP // higher XP first
}

// Update inserts or moves a profile to its new XP total.
func (s *SkipList) Update(profile core.ProfileID, totalXP int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byProfile[profile]; ok {
		// remove old node
		s.removeLocked(profile, old.e)
	}
	e := Entry{Profile: profile, TotalXP: totalXP}
	update := [maxLevel]*node{}
	cur := s.head
	for i := s.lvl - 1; i >= 0; i-- {
		for cur.next[i] != nil && less(cur.next[i].e, e) {
			cur = cur.next[i]
		}
		update[i] = cur
	}
	lvl := s.randomLevel()
	if lvl > s.lvl {
		for i := s.lvl; i < lvl; i++ {
			update[i] = s.head
		}
		s.lvl = lvl
	}
	n := &node{e: e}
	for i := 0; i < lvl; i++ {
		n.next[i] = update[i].next[i]
		update[i].next[i] = n
	}
	s.byProfile[profile] = n
}

func (s *SkipList) removeLocked(profile core.ProfileID, e Entry) {
	update := [maxLevel]*node{}
	cur := s.head
	for i := s.lvl - 1; i >= 0; i-- {
		for cur.next[i] != nil && less(cur.next[i].e, e) {
			cur = cur.next[i]
		}
		update[i] = cur
	}
	target := update[0].next[0]
	if target == nil || target.e.Profile != profile {
		return
	}
	for i := 0; i < s.lvl; i++ {
		if update[i].next[i] == target {
			update[i].next[i] = target.next[i]
		}
	}
	delete(s.byProfile, profile)
	for s.lvl > 1 && s.head.next[s.lvl-1] == nil {
		s.lvl--
	}
}

func (s *SkipList) Remove(profile core.ProfileID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.byProfile[profile]; ok {
		s.removeLocked(profile, n.e)
	}
}

func (s *SkipList) TopN(n int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	out := make([]Entry, 0, n)
	cur := s.head.next[0]
	for cur != nil && len(out) < n {
		out = append(out, cur.e)
		cur = cur.next[0]
	}
	return out
}

func (s *SkipList) Get(profile core.ProfileID) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.byProfile[profile]; ok {
		return n.e, true
	}
	return Entry{}, false
}

var _ Board = (*SkipList)(nil)
