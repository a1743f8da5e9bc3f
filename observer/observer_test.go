package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thing struct {
	Notifier
}

func TestNotifyInRegistrationOrder(t *testing.T) {
	s := &thing{}
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		s.Attach(ObserverFunc(func(Subject) { order = append(order, i) }))
	}
	s.NotifyChange(s)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestNotifyPassesSubject(t *testing.T) {
	s := &thing{}
	var got Subject
	s.Attach(ObserverFunc(func(sub Subject) { got = sub }))
	s.NotifyChange(s)
	require.NotNil(t, got)
	assert.Same(t, s, got.(*thing))
}

func TestDetach(t *testing.T) {
	s := &thing{}
	a, b := 0, 0
	detachA := s.Attach(ObserverFunc(func(Subject) { a++ }))
	s.Attach(ObserverFunc(func(Subject) { b++ }))
	s.NotifyChange(s)
	detachA()
	detachA()
	s.NotifyChange(s)
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 1, s.Observers())
}

func TestNoObservers(t *testing.T) {
	s := &thing{}
	assert.NotPanics(t, func() { s.NotifyChange(s) })
}
