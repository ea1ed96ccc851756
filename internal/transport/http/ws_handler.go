package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"trivia-client/internal/app"
	"trivia-client/internal/logger"
)

type WSHandler struct {
	service  *app.Service
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.Service, log *logger.Logger) *WSHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WSHandler{
		service: service,
		log:     log,
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
	Option string `json:"option"`
	Index  *int   `json:"index,omitempty"`
}

type reviewPayload struct {
	Pair    []int `json:"pair"`
	Explain bool  `json:"explain"`
}

type readyPayload struct {
	AttemptID string `json:"attemptId"`
	Category  string `json:"category,omitempty"`
	SubDomain string `json:"subDomain,omitempty"`
	Total     int    `json:"total"`
	Notice    string `json:"notice,omitempty"`
}

type questionPayload struct {
	Index   int      `json:"index"`
	Total   int      `json:"total"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type completePayload struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs one quiz attempt over the socket.
// Query: category and subDomain for a category quiz, or categories=a,b for a
// random quiz (empty means the user's preferences).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, subDomain := q.Get("category"), q.Get("subDomain")
	random := q.Has("categories") || q.Get("mode") == "random"
	if !random && (category == "" || subDomain == "") {
		http.Error(w, "missing category or subDomain", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// r.Context() is cancelled when the client goes away, which stops any
	// in-flight backend call for this attempt.
	ctx := r.Context()
	var flow *app.QuizFlow
	if random {
		flow, err = h.service.StartRandomQuiz(ctx, splitList(q.Get("categories")))
	} else {
		flow, err = h.service.SelectCategory(ctx, category, subDomain)
	}
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: app.AlertText(err)}})
		return
	}

	out := newOutbox(func(msg outboundMessage[any]) error { return conn.WriteJSON(msg) }, h.log)
	defer out.close()

	if !out.send(outboundMessage[any]{Type: "ready", Payload: readyPayload{
		AttemptID: flow.ID(),
		Category:  flow.Category(),
		SubDomain: flow.SubDomain(),
		Total:     flow.Total(),
		Notice:    flow.Notice(),
	}}) {
		return
	}
	if !out.send(currentQuestion(flow)) {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		if !out.send(h.handleInbound(ctx, flow, inbound)) {
			return
		}
	}
}

// handleInbound answers one client message with exactly one reply.
func (h *WSHandler) handleInbound(ctx context.Context, flow *app.QuizFlow, inbound inboundMessage) outboundMessage[any] {
	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid answer payload")
		}
		var (
			done bool
			err  error
		)
		if payload.Index != nil {
			done, err = flow.AnswerIndex(*payload.Index)
		} else {
			done, err = flow.Answer(payload.Option)
		}
		if err != nil {
			return errorMessage(app.AlertText(err))
		}
		if !done {
			return currentQuestion(flow)
		}
		result, err := flow.Result()
		if err != nil {
			return errorMessage(app.AlertText(err))
		}
		return outboundMessage[any]{Type: "complete", Payload: completePayload{
			Correct: app.CountCorrect(result),
			Total:   len(result.Questions),
		}}
	case "review":
		var payload reviewPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				return errorMessage("invalid review payload")
			}
		}
		review, err := h.service.Review(ctx, flow, app.ReviewOptions{Pair: payload.Pair, Explain: payload.Explain})
		if err != nil {
			return errorMessage(app.AlertText(err))
		}
		return outboundMessage[any]{Type: "review", Payload: review}
	default:
		return errorMessage("unsupported message type")
	}
}

func currentQuestion(flow *app.QuizFlow) outboundMessage[any] {
	q, i, err := flow.Current()
	if err != nil {
		return errorMessage(app.AlertText(err))
	}
	return outboundMessage[any]{Type: "question", Payload: questionPayload{
		Index:   i,
		Total:   flow.Total(),
		Text:    q.Question,
		Options: q.Options,
	}}
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
