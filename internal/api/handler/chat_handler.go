package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = feedPongWait * 9 / 10
)

// ChatFeed delivers messages appended to a child's log as they happen.
type ChatFeed interface {
	Subscribe(childID string) (<-chan domain.ChatMessage, func())
}

// ChatHandler serves the child workspace conversation.
type ChatHandler struct {
	service  ports.ChatService
	feed     ChatFeed
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewChatHandler(service ports.ChatService, feed ChatFeed, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		feed:    feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// List handles GET /v1/children/:id/messages.
//
// @Summary      Chat history of a child
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Child id"
// @Success      200  {array}   messageResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/children/{id}/messages [get]
func (h *ChatHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	msgs, err := h.service.List(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return err
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, out)
}

// Summaries handles GET /v1/chats: the conversations of the caller's
// caseload that have at least one message.
//
// @Summary      Chat history overview
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   chatSummaryResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/chats [get]
func (h *ChatHandler) Summaries(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	summaries, err := h.service.Summaries(c.Request().Context(), sess)
	if err != nil {
		return err
	}

	out := make([]chatSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toChatSummaryResponse(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Post handles POST /v1/children/:id/messages. The assistant's answer is
// appended shortly after and arrives on the feed.
//
// @Summary      Ask the assistant about a child
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Child id"
// @Param        body  body      postMessageRequest  true  "Message"
// @Success      202   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/children/{id}/messages [post]
func (h *ChatHandler) Post(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req postMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.service.Ask(c.Request().Context(), sess, c.Param("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, toMessageResponse(*msg))
}

// Feed handles GET /v1/children/:id/feed. It upgrades to a websocket, sends
// the current history and then every new message as JSON frames.
//
// @Summary      Live chat feed (websocket)
// @Tags         chat
// @Security     BearerAuth
// @Param        id     path   string  true   "Child id"
// @Param        token  query  string  false  "JWT when the Authorization header cannot be set"
// @Success      101
// @Router       /v1/children/{id}/feed [get]
func (h *ChatHandler) Feed(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	childID := c.Param("id")

	// Subscribe before reading history so nothing appended in between is lost.
	updates, cancel := h.feed.Subscribe(childID)
	defer cancel()

	history, err := h.service.List(c.Request().Context(), sess, childID)
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn().Err(err).Str("child_id", childID).Msg("websocket upgrade failed")
		return nil
	}
	defer conn.Close()

	seen := make(map[string]struct{}, len(history))
	for _, m := range history {
		seen[m.ID] = struct{}{}
		if err := writeFrame(conn, m); err != nil {
			return nil
		}
	}

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	ticker := time.NewTicker(feedPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return nil
		case <-c.Request().Context().Done():
			return nil
		case m, ok := <-updates:
			if !ok {
				return nil
			}
			if _, dup := seen[m.ID]; dup {
				continue
			}
			if err := writeFrame(conn, m); err != nil {
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, m domain.ChatMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
	return conn.WriteJSON(toMessageResponse(m))
}

// readUntilClosed drains client frames so pongs and close frames are
// processed, and signals when the peer goes away.
func readUntilClosed(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	_ = conn.SetReadDeadline(time.Now().Add(feedPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
