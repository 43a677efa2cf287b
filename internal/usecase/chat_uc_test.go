package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mindmate-chat/internal/domain"
	"mindmate-chat/internal/domain/model"
	"mindmate-chat/internal/domain/ports/adapter"
	"mindmate-chat/internal/domain/ports/repository"
)

// ---- Fakes ----

type fakeAI struct {
	mu    sync.Mutex
	reply *adapter.Reply
	err   error
	block bool // when set, wait for ctx expiry and return its error
	calls [][]adapter.Message
}

func (f *fakeAI) Name() string { return "fake" }

func (f *fakeAI) Generate(ctx context.Context, messages []adapter.Message) (*adapter.Reply, error) {
	f.mu.Lock()
	cp := make([]adapter.Message, len(messages))
	copy(cp, messages)
	f.calls = append(f.calls, cp)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func textReply(s string) *adapter.Reply {
	return &adapter.Reply{Candidates: []adapter.Candidate{{Parts: []adapter.Part{{Text: s}}}}}
}

type memMsgRepo struct {
	mu      sync.Mutex
	recs    []*model.MessageRecord
	nextID  int64
	saveErr error
	listErr error
}

var _ repository.MessageRepository = (*memMsgRepo)(nil)

func (m *memMsgRepo) SaveTurn(ctx context.Context, rec *model.MessageRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec.ID = m.nextID
	rec.CreatedAt = time.Now()
	cp := *rec
	m.recs = append(m.recs, &cp)
	return nil
}

func (m *memMsgRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.MessageRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.MessageRecord
	for _, r := range m.recs {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memMsgRepo) bySession(sessionID string) []*model.MessageRecord {
	out, _ := m.ListBySession(context.Background(), sessionID)
	return out
}

type fakeRetriever struct{ result string }

func (f *fakeRetriever) TopMatches(string) string { return f.result }

func newTestUC(ai adapter.AIServiceAdapter, repo repository.MessageRepository, retr ContextRetriever) *chatUC {
	logger := zerolog.Nop()
	return NewChatUseCase(NewSessionRegistry(repo), repo, ai, retr, time.Second, &logger)
}

// ---- Tests ----

func TestSendMessage_TurnAccounting(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{reply: textReply("hi there")}
	repo := &memMsgRepo{}
	uc := newTestUC(ai, repo, nil)
	token := uuid.NewString()

	const n = 3
	for i := 0; i < n; i++ {
		reply, err := uc.SendMessage(ctx, token, fmt.Sprintf("message %d", i), model.ModeMentalHealth)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if reply != "hi there" {
			t.Fatalf("call %d: reply %q", i, reply)
		}
	}

	turns, err := uc.History(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 2*n {
		t.Fatalf("expected %d turns after %d calls, got %d", 2*n, n, len(turns))
	}
	for i, turn := range turns {
		want := model.RoleUser
		if i%2 == 1 {
			want = model.RoleModel
		}
		if turn.Role != want {
			t.Fatalf("turn %d role = %q, want %q", i, turn.Role, want)
		}
	}
	if got := len(repo.bySession(token)); got != n {
		t.Fatalf("expected %d durable records, got %d", n, got)
	}
}

func TestSendMessage_PersonaOnlyOnFirstTurn(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{reply: textReply("hello!")}
	uc := newTestUC(ai, &memMsgRepo{}, nil)
	token := uuid.NewString()

	if _, err := uc.SendMessage(ctx, token, "hi", model.ModeMentalHealth); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.SendMessage(ctx, token, "how about now", model.ModeMentalHealth); err != nil {
		t.Fatal(err)
	}

	first := ai.calls[0]
	if !strings.Contains(first[0].Content, "MindMate") {
		t.Fatalf("first outbound message missing persona: %q", first[0].Content)
	}
	second := ai.calls[1]
	last := second[len(second)-1]
	if strings.Contains(last.Content, "MindMate") {
		t.Fatalf("persona must not repeat on later turns: %q", last.Content)
	}
}

func TestSendMessage_StudyModeWithEmptyCorpus(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{reply: textReply("answer")}
	uc := newTestUC(ai, &memMsgRepo{}, &fakeRetriever{result: ""})
	token := uuid.NewString()

	if _, err := uc.SendMessage(ctx, token, "What is CBT?", model.ModeStudyBuddy); err != nil {
		t.Fatal(err)
	}

	out := ai.calls[0][0].Content
	if strings.Contains(out, "Study Materials Context:") {
		t.Fatalf("empty corpus must not produce a context label: %q", out)
	}
	if !strings.Contains(out, "based on your general knowledge") {
		t.Fatalf("missing fallback instruction: %q", out)
	}
	if !strings.Contains(out, "What is CBT?") {
		t.Fatalf("missing literal question: %q", out)
	}
}

func TestSendMessage_StudyModeWithContext(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{reply: textReply("answer")}
	uc := newTestUC(ai, &memMsgRepo{}, &fakeRetriever{result: "CBT is a therapy."})
	token := uuid.NewString()

	if _, err := uc.SendMessage(ctx, token, "What is CBT?", model.ModeStudyBuddy); err != nil {
		t.Fatal(err)
	}
	out := ai.calls[0][0].Content
	if !strings.Contains(out, "Study Materials Context:\nCBT is a therapy.") {
		t.Fatalf("missing context block: %q", out)
	}
}

func TestSendMessage_RemoteUnavailable(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{err: errors.New("connection refused")}
	repo := &memMsgRepo{}
	uc := newTestUC(ai, repo, nil)
	token := uuid.NewString()

	reply, err := uc.SendMessage(ctx, token, "hello", model.ModeMentalHealth)
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("got %v, want ErrRemoteUnavailable", err)
	}
	if reply != FallbackRemoteUnavailable {
		t.Fatalf("reply %q, want remote-unavailable fallback", reply)
	}

	recs := repo.bySession(token)
	if len(recs) != 1 {
		t.Fatalf("expected exactly one durable record, got %d", len(recs))
	}
	if recs[0].ModelText != FallbackRemoteUnavailable {
		t.Fatalf("record model_text %q, want fallback", recs[0].ModelText)
	}
	if recs[0].UserText != "hello" {
		t.Fatalf("record user_text %q, want raw message", recs[0].UserText)
	}
}

func TestSendMessage_MalformedReplyDistinctFromRemote(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{reply: &adapter.Reply{}} // no candidates
	repo := &memMsgRepo{}
	uc := newTestUC(ai, repo, nil)
	token := uuid.NewString()

	reply, err := uc.SendMessage(ctx, token, "hello", model.ModeMentalHealth)
	if !errors.Is(err, domain.ErrMalformedReply) {
		t.Fatalf("got %v, want ErrMalformedReply", err)
	}
	if reply != FallbackMalformedReply {
		t.Fatalf("reply %q, want malformed-reply fallback", reply)
	}
	if reply == FallbackRemoteUnavailable {
		t.Fatal("malformed fallback must differ from remote-unavailable fallback")
	}
	if recs := repo.bySession(token); len(recs) != 1 || recs[0].ModelText != FallbackMalformedReply {
		t.Fatalf("fallback turn not recorded durably: %+v", recs)
	}
}

func TestSendMessage_TimeoutIsRemoteUnavailable(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{block: true}
	repo := &memMsgRepo{}
	logger := zerolog.Nop()
	uc := NewChatUseCase(NewSessionRegistry(repo), repo, ai, nil, 20*time.Millisecond, &logger)

	reply, err := uc.SendMessage(ctx, uuid.NewString(), "hello", model.ModeMentalHealth)
	if !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("got %v, want ErrRemoteUnavailable on deadline expiry", err)
	}
	if reply != FallbackRemoteUnavailable {
		t.Fatalf("reply %q", reply)
	}
}

func TestSendMessage_EmptyMessageRejected(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{reply: textReply("x")}
	repo := &memMsgRepo{}
	uc := newTestUC(ai, repo, nil)

	for _, msg := range []string{"", "   "} {
		if _, err := uc.SendMessage(ctx, uuid.NewString(), msg, model.ModeMentalHealth); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("message %q: got %v, want ErrInvalidArgument", msg, err)
		}
	}
	if ai.callCount() != 0 {
		t.Fatal("empty messages must not reach the remote API")
	}
	if len(repo.recs) != 0 {
		t.Fatal("empty messages must not be recorded")
	}
}

func TestSendMessage_DurableWriteFailureStillReplies(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{reply: textReply("still here")}
	repo := &memMsgRepo{saveErr: errors.New("disk full")}
	uc := newTestUC(ai, repo, nil)
	token := uuid.NewString()

	reply, err := uc.SendMessage(ctx, token, "hello", model.ModeMentalHealth)
	if err != nil {
		t.Fatalf("durable write failure must not fail the turn: %v", err)
	}
	if reply != "still here" {
		t.Fatalf("reply %q", reply)
	}
	turns, _ := uc.History(ctx, token)
	if len(turns) != 2 {
		t.Fatalf("in-memory turns = %d, want 2", len(turns))
	}
}

func TestSendMessage_ConcurrentSessionsStayOrdered(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{reply: textReply("ok")}
	repo := &memMsgRepo{}
	uc := newTestUC(ai, repo, nil)

	const sessions = 8
	const perSession = 4
	var wg sync.WaitGroup
	tokens := make([]string, sessions)
	for i := range tokens {
		tokens[i] = uuid.NewString()
	}

	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			for i := 0; i < perSession; i++ {
				if _, err := uc.SendMessage(ctx, token, fmt.Sprintf("m%d", i), model.ModeMentalHealth); err != nil {
					t.Errorf("%s: %v", token, err)
					return
				}
			}
		}(token)
	}
	wg.Wait()

	for _, token := range tokens {
		turns, err := uc.History(ctx, token)
		if err != nil {
			t.Fatal(err)
		}
		if len(turns) != 2*perSession {
			t.Fatalf("session %s: %d turns, want %d", token, len(turns), 2*perSession)
		}
		for i, turn := range turns {
			if i%2 == 0 && turn.Role != model.RoleUser {
				t.Fatalf("session %s: turn %d role %q", token, i, turn.Role)
			}
		}
	}
}
