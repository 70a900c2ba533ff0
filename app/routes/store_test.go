package routes

import (
	"context"
	"sync"

	"todo-lists/app/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store. Lists are kept in insertion order.
type memStore struct {
	mu      sync.Mutex
	lists   []models.List
	err     error
	panicOn string
}

func newMemStore() *memStore {
	return &memStore{}
}

func copyList(l models.List) *models.List {
	cp := l
	cp.Items = append([]models.Item{}, l.Items...)
	return &cp
}

func applyUpdate(u models.ItemUpdate, item *models.Item) {
	if u.Text != nil {
		item.Text = *u.Text
	}
	if u.DueDate != nil {
		d := *u.DueDate
		item.DueDate = &d
	}
	if u.FinishedStatus != nil {
		item.FinishedStatus = *u.FinishedStatus
	}
}

func (s *memStore) check(op string) error {
	if s.panicOn == op {
		panic("store exploded during " + op)
	}
	return s.err
}

func (s *memStore) index(id primitive.ObjectID) int {
	for i := range s.lists {
		if s.lists[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *memStore) itemIndex(id primitive.ObjectID) (int, int) {
	for i := range s.lists {
		for j := range s.lists[i].Items {
			if s.lists[i].Items[j].ID == id {
				return i, j
			}
		}
	}
	return -1, -1
}

func (s *memStore) FindLists(_ context.Context, offset, limit int64) ([]models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("FindLists"); err != nil {
		return nil, err
	}

	out := []models.List{}
	for i := offset; i < int64(len(s.lists)); i++ {
		if limit > 0 && int64(len(out)) == limit {
			break
		}
		out = append(out, *copyList(s.lists[i]))
	}
	return out, nil
}

func (s *memStore) CreateList(_ context.Context, title string) (*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("CreateList"); err != nil {
		return nil, err
	}

	list := models.NewList(title)
	s.lists = append(s.lists, list)
	return copyList(list), nil
}

func (s *memStore) FindList(_ context.Context, id primitive.ObjectID) (*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("FindList"); err != nil {
		return nil, err
	}

	if i := s.index(id); i >= 0 {
		return copyList(s.lists[i]), nil
	}
	return nil, nil
}

func (s *memStore) UpdateListTitle(_ context.Context, id primitive.ObjectID, title string) (*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("UpdateListTitle"); err != nil {
		return nil, err
	}

	i := s.index(id)
	if i < 0 {
		return nil, nil
	}
	s.lists[i].Title = title
	return copyList(s.lists[i]), nil
}

func (s *memStore) DeleteList(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("DeleteList"); err != nil {
		return 0, err
	}

	i := s.index(id)
	if i < 0 {
		return 0, nil
	}
	s.lists = append(s.lists[:i], s.lists[i+1:]...)
	return 1, nil
}

func (s *memStore) PushItem(_ context.Context, parentID primitive.ObjectID, item models.Item) (*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("PushItem"); err != nil {
		return nil, err
	}

	i := s.index(parentID)
	if i < 0 {
		return nil, nil
	}
	s.lists[i].Items = append(s.lists[i].Items, item)
	return copyList(s.lists[i]), nil
}

func (s *memStore) UpdateItem(_ context.Context, itemID primitive.ObjectID, update models.ItemUpdate) (*models.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("UpdateItem"); err != nil {
		return nil, err
	}

	i, j := s.itemIndex(itemID)
	if i < 0 {
		return nil, nil
	}
	applyUpdate(update, &s.lists[i].Items[j])
	return copyList(s.lists[i]), nil
}

func (s *memStore) PullItem(_ context.Context, itemID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("PullItem"); err != nil {
		return 0, err
	}

	i, j := s.itemIndex(itemID)
	if i < 0 {
		return 0, nil
	}
	items := s.lists[i].Items
	s.lists[i].Items = append(items[:j:j], items[j+1:]...)
	return 1, nil
}

func (s *memStore) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *memStore) Close(context.Context) error { return nil }

func (s *memStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *memStore) setPanicOn(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panicOn = op
}

// vanishingStore loses every list it creates before it can be read back.
type vanishingStore struct {
	*memStore
}

func (s vanishingStore) CreateList(ctx context.Context, title string) (*models.List, error) {
	if _, err := s.memStore.CreateList(ctx, title); err != nil {
		return nil, err
	}
	return nil, nil
}
