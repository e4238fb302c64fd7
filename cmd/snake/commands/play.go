package commands

import (
	"context"

	"github.com/battlesnakeio/snake/engine"
	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const playHelp = "arrows: steer  r: reset  esc: quit"

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "plays a game in the terminal",
	RunE: func(*cobra.Command, []string) error {
		return playGame()
	},
}

func playGame() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := engine.NewSession("local", nil)
	go func() {
		if err := session.Run(ctx); err != nil && err != context.Canceled {
			log.WithError(err).Error("session failed")
		}
	}()

	frames, unsubscribe, err := session.Subscribe()
	if err != nil {
		return errors.Wrap(err, "unable to subscribe to game")
	}
	defer unsubscribe()

	if err = termbox.Init(); err != nil {
		return errors.Wrap(err, "unable to start terminal")
	}
	defer termbox.Close()

	events := setupEventQueue()
	for {
		select {
		case st, ok := <-frames:
			if !ok {
				return nil
			}
			if err := render(st, "Snake", playHelp); err != nil {
				return err
			}
		case ev := <-events:
			if ev.Type != termbox.EventKey {
				continue
			}
			switch {
			case isQuit(ev):
				return nil
			case isReset(ev):
				err = session.Reset()
			default:
				if d, ok := keyDirection(ev); ok {
					err = session.Steer(d)
				}
			}
			if err != nil {
				return err
			}
		}
	}
}
