package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/battlesnakeio/snake/engine"
	"github.com/battlesnakeio/snake/rules"
	termbox "github.com/nsf/termbox-go"
	"github.com/spf13/cobra"
)

const replayHelp = "space: pause  left/right: step  esc: quit"

var replayLimit int

func init() {
	replayCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to replay")
	replayCmd.Flags().IntVar(&replayLimit, "limit", 1000, "the most recent frames to replay")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "replays the recorded frames of a game on the snake server",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	RunE: func(*cobra.Command, []string) error {
		url := fmt.Sprintf("%s/games/%s/frames?limit=%d&offset=%d", apiAddr, gameID, replayLimit, -replayLimit)
		data, err := getJSON(url)
		if err != nil {
			return err
		}

		var frames []rules.State
		if err = json.Unmarshal(data, &frames); err != nil {
			return err
		}
		if len(frames) == 0 {
			return errors.New("game has no frames")
		}

		fh := &frameHolder{}
		fh.Append(frames...)
		return replay(fh)
	},
}

func replay(fh *frameHolder) error {
	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()

	draw := func() error {
		st, _ := fh.Current()
		return render(st, "Replay "+gameID, replayHelp)
	}
	if err := draw(); err != nil {
		return err
	}

	ticker := time.NewTicker(engine.TickInterval)
	defer ticker.Stop()

	paused := false
	events := setupEventQueue()
	for {
		select {
		case <-ticker.C:
			if paused || !fh.Forward() {
				continue
			}
		case ev := <-events:
			if ev.Type != termbox.EventKey {
				continue
			}
			switch {
			case isQuit(ev):
				return nil
			case ev.Key == termbox.KeySpace:
				paused = !paused
			case ev.Key == termbox.KeyArrowRight:
				paused = true
				fh.Forward()
			case ev.Key == termbox.KeyArrowLeft:
				paused = true
				fh.Backward()
			}
		}
		if err := draw(); err != nil {
			return err
		}
	}
}
