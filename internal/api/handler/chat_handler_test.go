package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/api/middleware"
	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
)

type stubChatService struct {
	ports.ChatService
	listFn func(ctx context.Context, sess domain.Session, childID string) ([]domain.ChatMessage, error)
	askFn  func(ctx context.Context, sess domain.Session, childID, text string) (*domain.ChatMessage, error)
	sumFn  func(ctx context.Context, sess domain.Session) ([]domain.ChatSummary, error)
}

func (s *stubChatService) List(ctx context.Context, sess domain.Session, childID string) ([]domain.ChatMessage, error) {
	return s.listFn(ctx, sess, childID)
}

func (s *stubChatService) Ask(ctx context.Context, sess domain.Session, childID, text string) (*domain.ChatMessage, error) {
	return s.askFn(ctx, sess, childID, text)
}

func (s *stubChatService) Summaries(ctx context.Context, sess domain.Session) ([]domain.ChatSummary, error) {
	return s.sumFn(ctx, sess)
}

type nopFeed struct{}

func (nopFeed) Subscribe(string) (<-chan domain.ChatMessage, func()) {
	return make(chan domain.ChatMessage), func() {}
}

func TestChatHandler_List(t *testing.T) {
	ts := time.Date(2026, 6, 10, 9, 30, 0, 0, time.UTC)
	stub := &stubChatService{
		listFn: func(ctx context.Context, sess domain.Session, childID string) ([]domain.ChatMessage, error) {
			return []domain.ChatMessage{
				{ID: "m-1", From: domain.SenderTherapist, Text: "hi", TS: ts},
				{ID: "m-2", From: domain.SenderAI, Text: "hello", TS: ts.Add(time.Millisecond)},
			}, nil
		},
	}
	handler := NewChatHandler(stub, nopFeed{}, zerolog.Nop())

	c, rec := newJSONContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("c-1")
	c.Set(middleware.SessionKey, therapistSession)
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0].ID != "m-1" || resp[1].From != domain.SenderAI {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp[1].TS != "2026-06-10T09:30:00.001Z" {
		t.Fatalf("unexpected timestamp format %q", resp[1].TS)
	}
}

func TestChatHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubChatService{
		listFn: func(ctx context.Context, sess domain.Session, childID string) ([]domain.ChatMessage, error) {
			return nil, nil
		},
	}
	handler := NewChatHandler(stub, nopFeed{}, zerolog.Nop())

	c, rec := newJSONContext(http.MethodGet, "/", "")
	c.Set(middleware.SessionKey, therapistSession)
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestChatHandler_Post(t *testing.T) {
	stub := &stubChatService{
		askFn: func(ctx context.Context, sess domain.Session, childID, text string) (*domain.ChatMessage, error) {
			if childID != "c-1" || text != "any tips?" {
				t.Fatalf("unexpected args: %s %s", childID, text)
			}
			return &domain.ChatMessage{ID: "m-1", From: domain.SenderTherapist, Text: text, TS: time.Now()}, nil
		},
	}
	handler := NewChatHandler(stub, nopFeed{}, zerolog.Nop())

	c, rec := newJSONContext(http.MethodPost, "/", `{"text":"any tips?"}`)
	c.SetParamNames("id")
	c.SetParamValues("c-1")
	c.Set(middleware.SessionKey, therapistSession)
	if err := handler.Post(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}

func TestChatHandler_Post_ForbiddenIsReturned(t *testing.T) {
	stub := &stubChatService{
		askFn: func(ctx context.Context, sess domain.Session, childID, text string) (*domain.ChatMessage, error) {
			return nil, domain.ErrForbidden
		},
	}
	handler := NewChatHandler(stub, nopFeed{}, zerolog.Nop())

	c, _ := newJSONContext(http.MethodPost, "/", `{"text":"hi"}`)
	c.Set(middleware.SessionKey, therapistSession)
	if err := handler.Post(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestChatHandler_Post_EmptyText(t *testing.T) {
	stub := &stubChatService{
		askFn: func(ctx context.Context, sess domain.Session, childID, text string) (*domain.ChatMessage, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewChatHandler(stub, nopFeed{}, zerolog.Nop())

	c, _ := newJSONContext(http.MethodPost, "/", `{"text":""}`)
	c.Set(middleware.SessionKey, therapistSession)
	if err := handler.Post(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestChatHandler_Summaries(t *testing.T) {
	ts := time.Date(2026, 6, 10, 9, 30, 0, 0, time.UTC)
	last := domain.ChatMessage{ID: "m-4", From: domain.SenderAI, Text: "try a visual schedule", TS: ts}
	stub := &stubChatService{
		sumFn: func(ctx context.Context, sess domain.Session) ([]domain.ChatSummary, error) {
			if sess.UserID != therapistSession.UserID {
				t.Fatalf("unexpected session %+v", sess)
			}
			return []domain.ChatSummary{{
				Child:        domain.Child{ID: "c-1", Name: "Emma", Category: "Autism Spectrum"},
				MessageCount: 4,
				LastMessage:  last,
				Recent:       []domain.ChatMessage{last},
				More:         true,
			}}, nil
		},
	}
	handler := NewChatHandler(stub, nopFeed{}, zerolog.Nop())

	c, rec := newJSONContext(http.MethodGet, "/", "")
	c.Set(middleware.SessionKey, therapistSession)
	if err := handler.Summaries(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []chatSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].ChildID != "c-1" || resp[0].ChildName != "Emma" || resp[0].MessageCount != 4 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp[0].LastMessage.ID != "m-4" || len(resp[0].Recent) != 1 || !resp[0].More {
		t.Fatalf("unexpected preview: %+v", resp[0])
	}
}

func TestChatHandler_Summaries_EmptyIsArray(t *testing.T) {
	stub := &stubChatService{
		sumFn: func(ctx context.Context, sess domain.Session) ([]domain.ChatSummary, error) {
			return nil, nil
		},
	}
	handler := NewChatHandler(stub, nopFeed{}, zerolog.Nop())

	c, rec := newJSONContext(http.MethodGet, "/", "")
	c.Set(middleware.SessionKey, therapistSession)
	if err := handler.Summaries(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}
