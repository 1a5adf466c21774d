package ledger

import "sync"

// pairLocks hands out one mutex per (shop, product) pair so mutations on the
// same pair serialize while different pairs proceed in parallel. Locks are
// retained for the process lifetime; the pair cardinality bounds the map.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *pairLocks) get(shopID, productID string) *sync.Mutex {
	key := shopID + "\x00" + productID
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[key]
	if !ok {
		l = &sync.Mutex{}
		p.locks[key] = l
	}
	return l
}
