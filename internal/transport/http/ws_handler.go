package http

import (
	"encoding/json"
	"log"
	"net/http"

	"chapter-quiz-service/internal/app"
	"chapter-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.PlayService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PlayService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	AnswerID string `json:"answerId"`
}

type resetPayload struct {
	WrongOnly bool `json:"wrongOnly"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades HTTP requests to websockets and drives one play session per connection.
// The session is discarded when the connection closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	chapters, err := parseIntList(r.URL.Query().Get("chapters"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if userID == "" || len(chapters) == 0 {
		http.Error(w, "missing userId or chapters", http.StatusBadRequest)
		return
	}
	sel := domain.Selection{
		ChapterNumbers: chapters,
		CategoryIDs:    splitList(r.URL.Query().Get("categories")),
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	view, err := h.service.Start(r.Context(), userID, sel)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.End(r.Context(), view.SessionID)

	send := func(msgType string, payload any) bool {
		if err := conn.WriteJSON(outboundMessage[any]{Type: msgType, Payload: payload}); err != nil {
			log.Printf("ws write error: %v", err)
			return false
		}
		return true
	}
	sendError := func(message string) bool {
		return send("error", errorPayload{Message: message})
	}

	if !send("state", view) {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		ok := true
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				ok = sendError("invalid answer payload")
				break
			}
			outcome, next, err := h.service.SubmitAnswer(r.Context(), view.SessionID, payload.AnswerID)
			if err != nil {
				ok = sendError(err.Error())
				break
			}
			ok = send("answerResult", outcome) && send("state", next)
		case "advance":
			next, err := h.service.Advance(r.Context(), view.SessionID)
			if err != nil {
				ok = sendError(err.Error())
				break
			}
			ok = send("state", next)
		case "reset":
			var payload resetPayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					ok = sendError("invalid reset payload")
					break
				}
			}
			next, err := h.service.Reset(r.Context(), view.SessionID, payload.WrongOnly)
			if err != nil {
				ok = sendError(err.Error())
				break
			}
			ok = send("state", next)
		default:
			ok = sendError("unsupported message type")
		}
		if !ok {
			return
		}
	}
}
