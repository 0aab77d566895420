package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/domain"
	"github.com/therapyai/caseload/internal/core/ports"
)

// ReplyWriter produces the assistant's answer to a prompt about a child.
type ReplyWriter interface {
	Reply(prompt string, child domain.Child) string
}

// ChatService owns the per-child conversation logs. Logs are append-only and
// are removed only together with their child.
type ChatService struct {
	tables    *Tables
	guard     *Guard
	writer    ReplyWriter
	publisher ports.ChatPublisher
	scheduler ports.ReplyScheduler
	log       zerolog.Logger
}

func NewChatService(tables *Tables, guard *Guard, writer ReplyWriter, publisher ports.ChatPublisher, log zerolog.Logger) *ChatService {
	return &ChatService{tables: tables, guard: guard, writer: writer, publisher: publisher, log: log}
}

// SetScheduler wires the queue that delivers delayed assistant replies. The
// scheduler itself calls back into Reply, so it is attached after construction.
func (s *ChatService) SetScheduler(scheduler ports.ReplyScheduler) {
	s.scheduler = scheduler
}

// List returns the child's messages in append order, or an empty slice when
// the child has no log.
func (s *ChatService) List(ctx context.Context, sess domain.Session, childID string) ([]domain.ChatMessage, error) {
	if err := s.authorize(ctx, sess, childID); err != nil {
		return nil, err
	}
	return s.tables.chats(ctx, childID)
}

// Summaries returns an overview of every conversation in the session's
// caseload, in caseload order. Children without messages are left out.
func (s *ChatService) Summaries(ctx context.Context, sess domain.Session) ([]domain.ChatSummary, error) {
	if !sess.IsAuthenticated() {
		return nil, domain.ErrForbidden
	}
	children, err := s.tables.children(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ChatSummary, 0)
	for _, c := range children {
		if !s.guard.owns(sess, &c) {
			continue
		}
		msgs, err := s.tables.chats(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		if len(msgs) == 0 {
			continue
		}
		start := max(len(msgs)-domain.ChatPreviewSize, 0)
		out = append(out, domain.ChatSummary{
			Child:        c,
			MessageCount: len(msgs),
			LastMessage:  msgs[len(msgs)-1],
			Recent:       msgs[start:],
			More:         start > 0,
		})
	}
	return out, nil
}

// Append adds a message to the child's log.
func (s *ChatService) Append(ctx context.Context, sess domain.Session, childID string, from domain.Sender, text string) (*domain.ChatMessage, error) {
	if err := s.authorize(ctx, sess, childID); err != nil {
		return nil, err
	}
	return s.append(ctx, childID, from, text)
}

// Ask records a therapist message and queues the assistant's reply.
func (s *ChatService) Ask(ctx context.Context, sess domain.Session, childID, text string) (*domain.ChatMessage, error) {
	msg, err := s.Append(ctx, sess, childID, domain.SenderTherapist, text)
	if err != nil {
		return nil, err
	}
	if s.scheduler != nil {
		s.scheduler.Enqueue(ports.ReplyRequest{ChildID: childID, Prompt: msg.Text})
	} else if err := s.Reply(ctx, ports.ReplyRequest{ChildID: childID, Prompt: msg.Text}); err != nil {
		return nil, err
	}
	return msg, nil
}

// Reply appends the assistant's answer for req. It runs on behalf of the
// system, not a user session. A child deleted while the reply was pending is
// skipped.
func (s *ChatService) Reply(ctx context.Context, req ports.ReplyRequest) error {
	child, err := s.tables.findChild(ctx, req.ChildID)
	if err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	_, err = s.append(ctx, req.ChildID, domain.SenderAI, s.writer.Reply(req.Prompt, *child))
	return err
}

func (s *ChatService) append(ctx context.Context, childID string, from domain.Sender, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: please enter a message", domain.ErrValidation)
	}
	if !from.Valid() {
		return nil, fmt.Errorf("%w: unknown sender %q", domain.ErrValidation, from)
	}

	s.tables.mu.Lock()
	// The child is re-checked under the lock so a log is never recreated for
	// a child deleted in the meantime.
	if _, err := s.tables.findChild(ctx, childID); err != nil {
		s.tables.mu.Unlock()
		return nil, err
	}
	rows, err := s.tables.chats(ctx, childID)
	if err != nil {
		s.tables.mu.Unlock()
		return nil, err
	}
	msg := domain.ChatMessage{
		ID:   s.tables.newID(),
		From: from,
		Text: text,
		TS:   s.tables.now(),
	}
	op, err := s.tables.chatsOp(childID, append(rows, msg))
	if err == nil {
		err = s.tables.save(ctx, op)
	}
	s.tables.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(childID, msg)
	}
	s.log.Debug().Str("child_id", childID).Str("from", string(from)).Msg("chat message appended")
	return &msg, nil
}

func (s *ChatService) authorize(ctx context.Context, sess domain.Session, childID string) error {
	ok, err := s.guard.CanAccessChild(ctx, sess, childID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}
