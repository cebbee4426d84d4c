package ecs

// sparseSet tracks a dense list of live slot indexes so stores iterate in
// O(live) instead of O(capacity).
type sparseSet struct {
	dense  []int
	sparse []int
}

func (s *sparseSet) has(idx int) bool {
	if s == nil || idx < 0 || idx >= len(s.sparse) {
		return false
	}
	d := s.sparse[idx]
	return d >= 0 && d < len(s.dense) && s.dense[d] == idx
}

func (s *sparseSet) add(idx int) {
	if s == nil || idx < 0 || s.has(idx) {
		return
	}
	for len(s.sparse) <= idx {
		s.sparse = append(s.sparse, -1)
	}
	s.dense = append(s.dense, idx)
	s.sparse[idx] = len(s.dense) - 1
}

func (s *sparseSet) remove(idx int) {
	if s == nil || !s.has(idx) {
		return
	}
	d := s.sparse[idx]
	last := len(s.dense) - 1
	lastIdx := s.dense[last]

	s.dense[d] = lastIdx
	s.sparse[lastIdx] = d

	s.dense = s.dense[:last]
	s.sparse[idx] = -1
}

// snapshot copies the dense list so callers can mutate the set while walking it.
func (s *sparseSet) snapshot() []int {
	if s == nil || len(s.dense) == 0 {
		return nil
	}
	return append([]int(nil), s.dense...)
}

func (s *sparseSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}
