package api

import (
	"net/http"
	"time"

	"github.com/battlesnakeio/snake/config"
	"github.com/battlesnakeio/snake/engine"
	"github.com/battlesnakeio/snake/rules"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const writeWait = 2 * time.Second

// handleSocket streams every frame of a game to the client and applies the
// direction and reset messages it sends back.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, err := s.manager.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("game", sess.ID).Warn("websocket upgrade failed")
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.WithError(err).Debug("failure to close websocket connection")
		}
	}()

	frames, unsubscribe, err := sess.Subscribe()
	if err != nil {
		closeSocket(conn, websocket.CloseGoingAway, err.Error())
		return
	}
	defer unsubscribe()

	inputDone := make(chan struct{})
	go readInputs(conn, sess, rate.NewLimiter(config.InputRate, config.InputBurst), inputDone)

	log.WithField("game", sess.ID).Info("websocket connected")
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				closeSocket(conn, websocket.CloseNormalClosure, "game closed")
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(frame); err != nil {
				log.WithError(err).WithField("game", sess.ID).Debug("websocket write failed")
				return
			}
		case <-inputDone:
			log.WithField("game", sess.ID).Info("websocket disconnected")
			return
		}
	}
}

// readInputs reads client messages until the connection fails. Direction
// messages over the rate limit are dropped.
func readInputs(conn *websocket.Conn, sess *engine.Session, limiter *rate.Limiter, done chan<- struct{}) {
	defer close(done)
	for {
		var msg InputMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).WithField("game", sess.ID).Debug("websocket read failed")
			}
			return
		}

		switch msg.Type {
		case MessageDirection:
			if !limiter.Allow() {
				log.WithField("game", sess.ID).Debug("dropping direction, rate limited")
				continue
			}
			d, err := rules.ParseDirection(msg.Direction)
			if err != nil {
				log.WithField("direction", msg.Direction).Debug("invalid direction")
				continue
			}
			err = sess.Steer(d)
			if err != nil {
				return
			}
		case MessageReset:
			if err := sess.Reset(); err != nil {
				return
			}
		default:
			log.WithField("type", msg.Type).Debug("unhandled message type")
		}
	}
}

func closeSocket(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		log.WithError(err).Debug("unable to send close message")
	}
}
