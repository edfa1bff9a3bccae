package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.False(s.Full())

	s.Push(0x1234)
	assert.False(s.Empty())
	assert.Equal(1, len(s.Data))
	assert.Equal(uint16(0x1234), s.Data[0])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x1234)
	s.Push(0xabcd)

	val, ok := s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0xabcd), val)
	assert.Equal(1, len(s.Data))

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0x1234), val)
	assert.Equal(0, len(s.Data))
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, ok := s.Pop()
	assert.False(ok)
	assert.Equal(uint16(0), val)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x1234)
	s.Push(0xabcd)

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0xabcd), val)
	assert.Equal(2, len(s.Data))
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x1234)
	s.Push(0xabcd)
	assert.Equal(2, len(s.Data))

	s.Reset()
	assert.True(s.Empty())
	assert.Equal(0, len(s.Data))

	s.Reset()
	assert.True(s.Empty())
}

func TestStack_DropOldest(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}

	for i := range STACK_LIMIT {
		assert.False(s.Full())
		s.Push(uint16(i))
	}

	assert.True(s.Full())
	assert.Equal(STACK_LIMIT, len(s.Data))

	s.Push(0xffff)
	assert.True(s.Full())
	assert.Equal(STACK_LIMIT, len(s.Data))
	assert.Equal(uint16(1), s.Data[0])

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0xffff), val)
}
