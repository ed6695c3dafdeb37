package platform

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var errTxDone = errors.New("transaction has already been committed or rolled back")

type memoryRepo struct {
	mu     sync.RWMutex
	nextID int
	rows   map[int]Platform
}

// NewMemoryRepository creates an in-process repository. Ids start at 1 and
// are never reused.
func NewMemoryRepository() Repository {
	return &memoryRepo{rows: make(map[int]Platform)}
}

func (r *memoryRepo) Begin(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memoryTx{repo: r}, nil
}

func (r *memoryRepo) assignID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID
}

func (r *memoryRepo) GetPlatformByID(ctx context.Context, id int) (*Platform, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepo) ListPlatforms(ctx context.Context) ([]*Platform, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]*Platform, 0, len(r.rows))
	for _, p := range r.rows {
		p := p // per-iteration copy; go directive is 1.21 (pre-loopvar semantics)
		out = append(out, &p)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memoryTx struct {
	repo   *memoryRepo
	staged []Platform
	done   bool
}

func (tx *memoryTx) CreatePlatform(ctx context.Context, p *Platform) error {
	if p == nil {
		return &ValidationError{Reason: "platform is required"}
	}
	if tx.done {
		return errTxDone
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.ID = tx.repo.assignID()
	tx.staged = append(tx.staged, *p)
	return nil
}

func (tx *memoryTx) Commit() error {
	if tx.done {
		return errTxDone
	}
	tx.done = true
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()
	for _, p := range tx.staged {
		tx.repo.rows[p.ID] = p
	}
	tx.staged = nil
	return nil
}

func (tx *memoryTx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true
	tx.staged = nil
	return nil
}
