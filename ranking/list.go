// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ranking

import (
	"math"

	"github.com/vechain/stake-tracker/staking"
)

type node[S Score] struct {
	addr  staking.Address
	score S
	next  *node[S]
	prev  *node[S]
}

// List is an in-memory Set implementation backed by a doubly linked list kept
// in descending score order, with a map index for constant-time lookups.
// Accounts with equal scores keep their insertion order: a new entry is
// placed behind existing peers.
type List[S Score] struct {
	head  *node[S]
	tail  *node[S]
	index map[staking.Address]*node[S]
}

var _ Set[uint64] = (*List[uint64])(nil)

// New creates an empty list.
func New[S Score]() *List[S] {
	return &List[S]{
		index: make(map[staking.Address]*node[S]),
	}
}

// Insert ranks a new account at its ordered position.
func (l *List[S]) Insert(addr staking.Address, score S) error {
	if _, ok := l.index[addr]; ok {
		return ErrAlreadyPresent
	}
	n := &node[S]{addr: addr, score: score}
	l.index[addr] = n
	l.link(n)
	return nil
}

// Remove unranks an account.
func (l *List[S]) Remove(addr staking.Address) error {
	n, ok := l.index[addr]
	if !ok {
		return ErrNotPresent
	}
	l.unlink(n)
	delete(l.index, addr)
	return nil
}

// Update replaces an account's score and moves it to its new ordered
// position.
func (l *List[S]) Update(addr staking.Address, score S) error {
	n, ok := l.index[addr]
	if !ok {
		return ErrNotPresent
	}
	if n.score == score {
		return nil
	}
	l.unlink(n)
	n.score = score
	l.link(n)
	return nil
}

// Increase adds delta to an account's score, saturating at the maximum
// representable value, and moves it to its new ordered position.
func (l *List[S]) Increase(addr staking.Address, delta S) error {
	n, ok := l.index[addr]
	if !ok {
		return ErrNotPresent
	}
	if delta == 0 {
		return nil
	}
	score := n.score + delta
	if score < n.score { // overflowed
		score = S(uint64(math.MaxUint64))
	}
	l.unlink(n)
	n.score = score
	l.link(n)
	return nil
}

// Contains reports whether the account is ranked.
func (l *List[S]) Contains(addr staking.Address) bool {
	_, ok := l.index[addr]
	return ok
}

// Score returns an account's current score.
func (l *List[S]) Score(addr staking.Address) (S, error) {
	n, ok := l.index[addr]
	if !ok {
		return 0, ErrNotPresent
	}
	return n.score, nil
}

// Iterate walks the list from the highest score down, calling fn for each
// entry until completion or error.
func (l *List[S]) Iterate(fn func(addr staking.Address, score S) error) error {
	for n := l.head; n != nil; n = n.next {
		if err := fn(n.addr, n.score); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of ranked accounts.
func (l *List[S]) Count() int {
	return len(l.index)
}

// Head returns the highest-ranked account, if any.
func (l *List[S]) Head() (staking.Address, S, bool) {
	if l.head == nil {
		return staking.Address{}, 0, false
	}
	return l.head.addr, l.head.score, true
}

// link walks from the head and inserts n before the first entry with a
// strictly smaller score, appending at the tail otherwise.
func (l *List[S]) link(n *node[S]) {
	if l.head == nil {
		// the list is currently empty, set this entry to head & tail
		l.head = n
		l.tail = n
		return
	}

	// strictly higher score than the head makes n the new head
	if n.score > l.head.score {
		n.next = l.head
		l.head.prev = n
		l.head = n
		return
	}

	current := l.head
	for current.next != nil {
		if n.score > current.next.score {
			n.prev = current
			n.next = current.next
			current.next.prev = n
			current.next = n
			return
		}
		current = current.next
	}

	// reached the end of the list, append at the tail
	current.next = n
	n.prev = current
	l.tail = n
}

// unlink extracts n from the list, reconnecting adjacent nodes and clearing
// the removed node's pointers.
func (l *List[S]) unlink(n *node[S]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.next = nil
	n.prev = nil
}
