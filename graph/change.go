package graph

// ChangeKind identifies what a Change announces.
type ChangeKind uint8

const (
	NodeAdded ChangeKind = iota + 1
	NodeRemoved
	EffectUpdated
	EdgeAdded
	EdgeRemoved
	OutputCommitted
)

// String returns the name of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case NodeAdded:
		return "NodeAdded"
	case NodeRemoved:
		return "NodeRemoved"
	case EffectUpdated:
		return "EffectUpdated"
	case EdgeAdded:
		return "EdgeAdded"
	case EdgeRemoved:
		return "EdgeRemoved"
	case OutputCommitted:
		return "OutputCommitted"
	default:
		return "Unknown"
	}
}

// Change describes one accepted mutation.
//
// For node changes NodeID is the node; for edge changes Edge is the edge and
// NodeID its target.
type Change struct {
	Kind   ChangeKind
	NodeID string
	Edge   Edge
}

// Listener receives changes. It is called without the store lock held and
// may call back into the store.
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers fn for every subsequent change and returns a function
// that unregisters it.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// notify delivers changes to the current subscribers. Caller must not hold s.mu.
func (s *Store) notify(changes []Change) {
	if len(changes) == 0 {
		return
	}
	s.mu.RLock()
	subs := s.subs
	s.mu.RUnlock()

	for _, c := range changes {
		for _, sub := range subs {
			sub.fn(c)
		}
	}
}
