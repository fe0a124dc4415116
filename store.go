package linkframe

// Store is a session-scoped key-value service. Load after Save with no
// intervening Clear returns the saved bytes.
type Store interface {
	Save(key string, value []byte) error
	Load(key string) (value []byte, ok bool, err error)
	Clear(key string) error
}

// MemoryStore is a Store that lives for the lifetime of the process.
type MemoryStore struct {
	data map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Save stores a copy of value.
func (s *MemoryStore) Save(key string, value []byte) error {
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Load returns a copy of the stored value.
func (s *MemoryStore) Load(key string) ([]byte, bool, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Clear removes key.
func (s *MemoryStore) Clear(key string) error {
	delete(s.data, key)
	return nil
}
