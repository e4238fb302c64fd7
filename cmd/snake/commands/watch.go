package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/battlesnakeio/snake/api"
	"github.com/battlesnakeio/snake/rules"
	"github.com/gorilla/websocket"
	termbox "github.com/nsf/termbox-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const watchHelp = "arrows: steer  r: reset  esc: quit"

func init() {
	watchCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to watch")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "follows a game running on the server, steering it from the terminal",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	RunE: func(*cobra.Command, []string) error {
		return watchGame()
	},
}

func socketURL(addr, id string) string {
	u := url.URL{Scheme: "ws", Host: addr, Path: fmt.Sprintf("/socket/%s", id)}
	switch {
	case strings.HasPrefix(addr, "https://"):
		u.Scheme = "wss"
		u.Host = strings.TrimPrefix(addr, "https://")
	case strings.HasPrefix(addr, "http://"):
		u.Host = strings.TrimPrefix(addr, "http://")
	}
	return u.String()
}

// readFrames decodes frames from the socket until it closes or done is
// closed.
func readFrames(c *websocket.Conn, done <-chan struct{}) <-chan rules.State {
	frames := make(chan rules.State)
	go func() {
		defer close(frames)
		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.WithError(err).Debug("websocket read failed")
				}
				return
			}
			if mt != websocket.TextMessage {
				log.WithField("type", mt).Debug("unhandled message type")
				continue
			}

			st := rules.State{}
			if err = json.Unmarshal(message, &st); err != nil {
				log.WithError(err).Warn("unable to decode frame")
				return
			}
			select {
			case frames <- st:
			case <-done:
				return
			}
		}
	}()
	return frames
}

func watchGame() error {
	u := socketURL(apiAddr, gameID)
	log.WithField("url", u).Debug("connecting")

	c, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.WithError(err).Debug("failure to close websocket connection")
		}
	}()

	done := make(chan struct{})
	defer close(done)
	frames := readFrames(c, done)

	if err = termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()

	events := setupEventQueue()
	for {
		select {
		case st, ok := <-frames:
			if !ok {
				return nil
			}
			if err := render(st, "Snake "+gameID, watchHelp); err != nil {
				return err
			}
		case ev := <-events:
			if ev.Type != termbox.EventKey {
				continue
			}
			var msg *api.InputMessage
			switch {
			case isQuit(ev):
				return c.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			case isReset(ev):
				msg = &api.InputMessage{Type: api.MessageReset}
			default:
				if d, ok := keyDirection(ev); ok {
					msg = &api.InputMessage{Type: api.MessageDirection, Direction: d.String()}
				}
			}
			if msg != nil {
				if err := c.WriteJSON(msg); err != nil {
					return err
				}
			}
		}
	}
}
