// Package observer is the change notification used by every stateful part
// of the board model. Notification is synchronous and not reentrant: an
// observer must not mutate the subject that is notifying it.
package observer

// Subject is anything observers can be attached to.
type Subject interface {
	Attach(o Observer) (detach func())
}

type Observer interface {
	Update(subject Subject)
}

// ObserverFunc lets a plain function be attached as an Observer.
type ObserverFunc func(subject Subject)

func (f ObserverFunc) Update(subject Subject) {
	f(subject)
}

type registration struct {
	id       int
	observer Observer
}

// Notifier keeps the registration list of one subject. The zero value is
// ready to use and is meant to be embedded.
type Notifier struct {
	nextId    int
	observers []registration
}

// Attach registers o and returns a func that removes exactly this
// registration. Attaching the same observer twice notifies it twice.
func (n *Notifier) Attach(o Observer) (detach func()) {
	n.nextId++
	id := n.nextId
	n.observers = append(n.observers, registration{id: id, observer: o})
	return func() {
		for i, r := range n.observers {
			if r.id == id {
				n.observers = append(n.observers[:i:i], n.observers[i+1:]...)
				return
			}
		}
	}
}

func (n *Notifier) Observers() int {
	return len(n.observers)
}

// NotifyChange calls every observer in registration order. A panicking
// observer stops the broadcast; nothing is recovered here.
func (n *Notifier) NotifyChange(subject Subject) {
	for _, r := range n.observers {
		r.observer.Update(subject)
	}
}
