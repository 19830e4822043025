package sig_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AnatoleLucet/sigtime"
	"github.com/AnatoleLucet/sigtime/sig"
)

func TestOwner(t *testing.T) {
	t.Run("dispose stops every clock created under it", func(t *testing.T) {
		c, fake, l := newClock(t)

		o := sig.NewOwner()

		var ticks *[]time.Duration
		var stamps *[]time.Time
		var delayed *[]int

		o.Run(func() error {
			clicks := sig.NewSignal(0)

			ticks = record(c.FPS(10))
			stamps = record(c.Every(time.Second))
			delayed = record(sigtime.Delay(c, 50*ms, clicks))

			clicks.Write(1)
			return nil
		})
		assert.Equal(t, 3, l.Pending())

		o.Dispose()
		assert.Equal(t, 0, l.Pending())

		fake.Advance(time.Minute)
		assertIdle(t, l)

		assert.Len(t, *ticks, 1)
		assert.Len(t, *stamps, 1)
		assert.Equal(t, []int{0}, *delayed)
	})

	t.Run("nested owners stop their own clocks only", func(t *testing.T) {
		c, fake, l := newClock(t)

		log := []string{}

		o := sig.NewOwner()
		o.OnDispose(func() { log = append(log, "parent disposed") })

		var child *sig.Owner
		o.Run(func() error {
			ticks := c.FPS(10)
			sig.NewEffect(func() {
				log = append(log, fmt.Sprintf("tick %v", ticks.Read()))
			})

			child = sig.NewOwner()
			child.OnDispose(func() { log = append(log, "child disposed") })
			child.Run(func() error {
				c.Every(time.Second)
				return nil
			})

			return nil
		})
		assert.Equal(t, 2, l.Pending())

		child.Dispose()
		assert.Equal(t, 1, l.Pending())

		advance(t, fake, l, 100*ms, 1)

		o.Dispose()
		assert.Equal(t, 0, l.Pending())

		assert.Equal(t, []string{
			"tick 0s",
			"child disposed",
			"tick 100ms",
			"parent disposed",
		}, log)
	})

	t.Run("catches panics raised by a tick", func(t *testing.T) {
		c, fake, l := newClock(t)

		log := []string{}

		o := sig.NewOwner()
		o.OnError(func(err any) {
			log = append(log, fmt.Sprintf("caught %v", err))
		})

		o.Run(func() error {
			// no listener here, the panic goes up to o
			sig.NewOwner().Run(func() error {
				ticks := c.FPS(10)

				sig.NewEffect(func() {
					if d := ticks.Read(); d > 50*ms {
						panic(fmt.Sprintf("frame took %v", d))
					}
				})

				return nil
			})

			return nil
		})

		advance(t, fake, l, 100*ms, 1)

		assert.Equal(t, []string{"caught frame took 100ms"}, log)
		assert.Equal(t, 1, l.Pending())
	})

	t.Run("disposal prevents clock driven re-runs", func(t *testing.T) {
		c, fake, l := newClock(t)

		ticks := c.FPS(10)
		log := []time.Duration{}

		o := sig.NewOwner()
		o.Run(func() error {
			sig.NewEffect(func() {
				log = append(log, ticks.Read())
			})

			return nil
		})

		advance(t, fake, l, 100*ms, 1)
		o.Dispose()
		advance(t, fake, l, 100*ms, 1)

		assert.Equal(t, []time.Duration{0, 100 * ms}, log)
		assert.Equal(t, 1, l.Pending())
	})

	t.Run("disposal from a tick", func(t *testing.T) {
		c, fake, l := newClock(t)

		o := sig.NewOwner()
		stamps := 0
		o.Run(func() error {
			every := c.Every(time.Second)
			sig.NewEffect(func() {
				every.Read()
				stamps++
			})

			return nil
		})

		ticks := c.FPS(10)
		sig.NewEffect(func() {
			if ticks.Read() > 0 {
				o.Dispose()
			}
		})
		assert.Equal(t, 2, l.Pending())

		advance(t, fake, l, 100*ms, 1)

		// only the ticker re-armed itself
		assert.Equal(t, 1, l.Pending())
		assert.Equal(t, 1, stamps)
	})
}
