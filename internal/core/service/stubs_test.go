package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
)

// In-memory fakes shared by the service tests.

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User // keyed by ID
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	clone := *user
	clone.ID = "u" + strconv.Itoa(r.seq)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	out := clone
	return &out, nil
}

type stubListRepo struct {
	mu    sync.Mutex
	seq   int
	lists map[string]*domain.KanbanList
}

func newStubListRepo() *stubListRepo {
	return &stubListRepo{lists: make(map[string]*domain.KanbanList)}
}

func (r *stubListRepo) Create(_ context.Context, list *domain.KanbanList) (*domain.KanbanList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *list
	clone.ID = "l" + strconv.Itoa(r.seq)
	r.lists[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubListRepo) FindByID(_ context.Context, id string) (*domain.KanbanList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lists[id]; ok {
		out := *l
		return &out, nil
	}
	return nil, domain.ErrListNotFound
}

func (r *stubListRepo) FindByOwner(_ context.Context, ownerID string) ([]domain.KanbanList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.KanbanList
	for _, l := range r.lists {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubListRepo) Update(_ context.Context, list *domain.KanbanList) (*domain.KanbanList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lists[list.ID]; !ok {
		return nil, domain.ErrListNotFound
	}
	clone := *list
	r.lists[list.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubListRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lists[id]; !ok {
		return domain.ErrListNotFound
	}
	delete(r.lists, id)
	return nil
}

type stubCardRepo struct {
	mu    sync.Mutex
	seq   int
	cards map[string]*domain.Card
}

func newStubCardRepo() *stubCardRepo {
	return &stubCardRepo{cards: make(map[string]*domain.Card)}
}

func (r *stubCardRepo) Create(_ context.Context, card *domain.Card) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *card
	clone.ID = "c" + strconv.Itoa(r.seq)
	r.cards[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCardRepo) FindByID(_ context.Context, id string) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.cards[id]; ok {
		out := *c
		return &out, nil
	}
	return nil, domain.ErrCardNotFound
}

func (r *stubCardRepo) FindByList(_ context.Context, listID string) ([]domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Card
	for _, c := range r.cards {
		if c.ListID == listID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCardRepo) Update(_ context.Context, card *domain.Card) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[card.ID]; !ok {
		return nil, domain.ErrCardNotFound
	}
	clone := *card
	r.cards[card.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCardRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[id]; !ok {
		return domain.ErrCardNotFound
	}
	delete(r.cards, id)
	return nil
}

func (r *stubCardRepo) DeleteByList(_ context.Context, listID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.cards {
		if c.ListID == listID {
			delete(r.cards, id)
		}
	}
	return nil
}

// recordingPublisher captures published events for assertions.
type publishedEvent struct {
	EventType string
	Data      map[string]any
	Metadata  map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, data, metadata map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{EventType: eventType, Data: data, Metadata: metadata})
}

func (p *recordingPublisher) last() *publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	e := p.events[len(p.events)-1]
	return &e
}

// stubBroadcaster is a fake pub/sub transport.
type stubBroadcaster struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
	count    int64
	err      error
}

func (b *stubBroadcaster) Send(_ context.Context, channel string, payload []byte) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return 0, b.err
	}
	b.channels = append(b.channels, channel)
	b.payloads = append(b.payloads, payload)
	return b.count, nil
}
