package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/battle-royale/internal/model"
	"github.com/mcoot/battle-royale/internal/services/leaderboard"
	"github.com/mcoot/battle-royale/internal/web/templates/components"
)

// Live event names shared by the SSE and WebSocket streams
const (
	EventRound       = "round"
	EventLeaderboard = "leaderboard"
	EventState       = "state"
)

// StateData is the machine-readable form of a state update
type StateData struct {
	MatchID      model.MatchID    `json:"match_id"`
	Event        model.EventType  `json:"event"`
	State        model.MatchState `json:"state,omitempty"`
	Round        int              `json:"round"`
	Alive        int              `json:"alive"`
	Announcement string           `json:"announcement,omitempty"`
}

// Broadcaster turns match events into live messages for the match's hub
type Broadcaster struct {
	hubManager  *HubManager
	leaderboard leaderboard.ServiceInterface
	logger      *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, leaderboard leaderboard.ServiceInterface, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager:  hubManager,
		leaderboard: leaderboard,
		logger:      logger.With(slog.String("component", "live-broadcaster")),
	}
}

// Notify broadcasts an event to everyone following the match
func (b *Broadcaster) Notify(event model.Event) {
	hub := b.hubManager.GetHub(event.MatchID)
	if hub == nil {
		return
	}

	if event.Type == model.EventMatchDeleted {
		hub.Broadcast(Message{
			Event: EventState,
			HTML:  `<div id="` + components.StateID + `" class="state state-deleted">Match deleted</div>`,
			Data:  StateData{MatchID: event.MatchID, Event: event.Type},
		})
		b.hubManager.RemoveHub(event.MatchID)
		return
	}

	messages, err := b.Render(context.Background(), event)
	if err != nil {
		b.logger.Error("live failed to render event",
			slog.String("match_id", string(event.MatchID)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	for _, m := range messages {
		hub.Broadcast(m)
	}
}

// Render converts a match event to the messages sent to clients
func (b *Broadcaster) Render(ctx context.Context, event model.Event) ([]Message, error) {
	m := event.Match
	if m == nil {
		return nil, nil
	}

	var messages []Message

	if payload, ok := event.Payload.(model.RoundResolvedPayload); ok {
		html, err := components.RenderString(ctx, components.RoundEntry(payload.Round))
		if err != nil {
			return nil, err
		}
		messages = append(messages, Message{Event: EventRound, HTML: html, Data: payload.Round})
	}

	ranking := b.leaderboard.Rank(m.Players)
	html, err := components.RenderString(ctx, components.Leaderboard(ranking))
	if err != nil {
		return nil, err
	}
	messages = append(messages, Message{Event: EventLeaderboard, HTML: html, Data: ranking})

	var announcement string
	if payload, ok := event.Payload.(model.MatchFinishedPayload); ok {
		announcement = payload.Announcement
	}
	html, err = components.RenderString(ctx, components.MatchState(m, announcement))
	if err != nil {
		return nil, err
	}
	messages = append(messages, Message{Event: EventState, HTML: html, Data: StateData{
		MatchID:      m.ID,
		Event:        event.Type,
		State:        m.State,
		Round:        m.CurrentRound(),
		Alive:        m.AliveCount(),
		Announcement: announcement,
	}})

	return messages, nil
}
