package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/AnatoleLucet/sigtime"
	"github.com/AnatoleLucet/sigtime/sig"
)

var fpsCmd = &cli.Command{
	Name:  "fps",
	Usage: "print frame deltas",
	Flags: []cli.Flag{
		&cli.Float64Flag{
			Name:  "rate",
			Usage: "target frames per second",
			Value: 10,
		},
		&cli.DurationFlag{
			Name:  "gate-period",
			Usage: "toggle the ticker on and off at this period, 0 keeps it on",
		},
	},
	Action: func(cctx *cli.Context) error {
		rate := cctx.Float64("rate")
		if rate <= 0 {
			return errors.New("--rate must be positive")
		}

		return runLoop(cctx, func(c *sigtime.Clock) error {
			var gate sig.Value[bool] = sig.Constant(true)
			if p := cctx.Duration("gate-period"); p > 0 {
				gate = sig.Foldp(func(_ time.Time, on bool) bool { return !on }, true, c.Every(p))
			}

			ticks := c.FPSWhen(rate, gate)
			sig.NewEffect(func() {
				fmt.Fprintf(cctx.App.Writer, "tick %v\n", ticks.Read())
			})

			return nil
		})
	},
}

var everyCmd = &cli.Command{
	Name:  "every",
	Usage: "print the time periodically",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:  "period",
			Usage: "time between two timestamps",
			Value: time.Second,
		},
	},
	Action: func(cctx *cli.Context) error {
		period := cctx.Duration("period")
		if period <= 0 {
			return errors.New("--period must be positive")
		}

		return runLoop(cctx, func(c *sigtime.Clock) error {
			now := c.Every(period)
			sig.NewEffect(func() {
				fmt.Fprintln(cctx.App.Writer, sigtime.ToLocalTime(now.Read()).Format(time.RFC3339Nano))
			})

			return nil
		})
	},
}

var sinceCmd = &cli.Command{
	Name:  "since",
	Usage: "print when a window after periodic events opens and closes",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:  "window",
			Usage: "how long the window stays open after an event",
			Value: 500 * time.Millisecond,
		},
		&cli.DurationFlag{
			Name:  "event-period",
			Usage: "time between two events",
			Value: 2 * time.Second,
		},
	},
	Action: func(cctx *cli.Context) error {
		window, period := cctx.Duration("window"), cctx.Duration("event-period")
		if window <= 0 || period <= 0 {
			return errors.New("--window and --event-period must be positive")
		}

		return runLoop(cctx, func(c *sigtime.Clock) error {
			start := c.Now()
			open := sig.DropRepeats(sigtime.Since(c, window, c.Every(period)))

			sig.NewEffect(func() {
				fmt.Fprintf(cctx.App.Writer, "%v open=%t\n", c.Now().Sub(start).Round(time.Millisecond), open.Read())
			})

			return nil
		})
	},
}

var parseCmd = &cli.Command{
	Name:      "parse",
	Usage:     "parse timestamps",
	ArgsUsage: "TEXT...",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() == 0 {
			return errors.New("nothing to parse")
		}

		for _, text := range cctx.Args().Slice() {
			t, ok := sigtime.ParseTimestamp(text)
			if !ok {
				fmt.Fprintf(cctx.App.Writer, "%q: absent\n", text)
				continue
			}

			fmt.Fprintf(cctx.App.Writer, "%q: %s\n", text, sigtime.ToLocalTime(t).Format(time.RFC3339Nano))
		}

		return nil
	},
}
