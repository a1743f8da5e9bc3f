package model

import (
	"reflect"

	"github.com/zucenko/robogrid/observer"
)

func (f *CardField) Attach(o observer.Observer) (detach func()) {
	return f.notifier.Attach(o)
}

func (f *CardField) Player() *Player {
	return f.player
}

// Card is nil for an empty slot.
func (f *CardField) Card() interface{} {
	return f.card
}

// SetCard accepts any card value; setting an equal card is a no-op.
func (f *CardField) SetCard(card interface{}) {
	if !reflect.DeepEqual(card, f.card) {
		f.card = card
		f.notifier.NotifyChange(f)
	}
}

func (f *CardField) Visible() bool {
	return f.visible
}

func (f *CardField) SetVisible(visible bool) {
	if visible != f.visible {
		f.visible = visible
		f.notifier.NotifyChange(f)
	}
}
