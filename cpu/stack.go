package cpu

const (
	STACK_LIMIT = 64 // Maximum shadow call stack depth
)

// Stack is a shadow of the return addresses pushed by calls, kept for
// backtraces. The architectural stack lives in data memory; programs
// that manipulate it directly desynchronise the shadow, which is only
// used for diagnostics. When full, the oldest entry is dropped.
type Stack struct {
	Data []uint16
}

func (s *Stack) Push(value uint16) {
	if s.Full() {
		s.Data = append(s.Data[:0], s.Data[1:]...)
	}
	s.Data = append(s.Data, value)
}

func (s *Stack) Pop() (value uint16, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) == STACK_LIMIT
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
