package bench

import (
	"time"

	"github.com/fosdem/glconvert/lib/encdec"
)

type EventListener func(bench *Bench, data interface{})

const EventConverted = "converted"

// EventDataConverted is only valid during the listener call; frame data may
// point into a mapping that is released right after.
type EventDataConverted struct {
	Clip   string
	Index  int
	Input  *encdec.Frame
	Output *encdec.Frame
	Took   time.Duration
}

func (b *Bench) AddEventListener(event string, callback EventListener) {
	b.listener[event] = append(b.listener[event], callback)
}

func (b *Bench) invoke(event string, data interface{}) {
	for _, listener := range b.listener[event] {
		listener(b, data)
	}
}
