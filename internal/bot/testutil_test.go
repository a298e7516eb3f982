package bot

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	"github.com/cinegram/cinegram/internal/catalog"
	"github.com/cinegram/cinegram/internal/gateway"
	"github.com/cinegram/cinegram/internal/gateway/mocks"
	"github.com/cinegram/cinegram/internal/migrations"
	"github.com/cinegram/cinegram/internal/session"
)

const (
	adminID  = int64(1000)
	userID   = int64(2000)
	testChat = int64(5000)
)

func newTestStore(t *testing.T) (*catalog.Store, *sql.DB) {
	t.Helper()
	// modernc only honors _pragma style DSN parameters.
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)
	return catalog.NewStore(db), db
}

// harness runs the bot against a real in-memory store and a mock
// gateway that records everything sent or edited.
type harness struct {
	bot      *Bot
	gw       *mocks.MockGateway
	store    *catalog.Store
	db       *sql.DB
	sessions *session.Store

	sent        []gateway.Message
	edits       []string
	editButtons [][][]gateway.Button

	// chat ids whose sends should fail, for broadcast tally tests
	failChats map[int64]bool
}

type harnessConfig struct {
	channels []string
	opts     Options

	// keeps finalize on the per-insert path instead of one transaction
	looseFinalize bool
}

func newHarness(t *testing.T, hc harnessConfig) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		gw:        mocks.NewMockGateway(ctrl),
		sessions:  session.NewStore(time.Hour),
		failChats: make(map[int64]bool),
	}
	h.store, h.db = newTestStore(t)

	h.gw.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg gateway.Message) error {
			if h.failChats[msg.ChatID] {
				return context.DeadlineExceeded
			}
			h.sent = append(h.sent, msg)
			return nil
		}).AnyTimes()
	h.gw.EXPECT().EditText(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, _ int, text string, buttons [][]gateway.Button) error {
			h.edits = append(h.edits, text)
			h.editButtons = append(h.editButtons, buttons)
			return nil
		}).AnyTimes()
	h.gw.EXPECT().AnswerCallback(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	opts := hc.opts
	if opts.Admins == nil {
		opts.Admins = []int64{adminID}
	}
	if opts.PageSize == 0 {
		opts.PageSize = 10
	}
	if opts.SearchLimit == 0 {
		opts.SearchLimit = 25
	}
	// Match the production default unless a test asks for loose writes.
	opts.AtomicFinalize = !hc.looseFinalize

	gate := NewGate(h.gw, h.store, hc.channels, 24*time.Hour, logger)
	h.bot = New(h.gw, h.store, h.sessions, gate, opts, logger)
	return h
}

func (h *harness) handle(upd gateway.Update) {
	h.bot.handle(context.Background(), upd)
}

func (h *harness) lastEdit(t *testing.T) (string, [][]gateway.Button) {
	t.Helper()
	require.NotEmpty(t, h.edits, "expected at least one edit")
	return h.edits[len(h.edits)-1], h.editButtons[len(h.editButtons)-1]
}

func (h *harness) lastSent(t *testing.T) gateway.Message {
	t.Helper()
	require.NotEmpty(t, h.sent, "expected at least one outbound message")
	return h.sent[len(h.sent)-1]
}

func textUpdate(chatID, userID int64, text string) gateway.Update {
	return gateway.Update{ChatID: chatID, UserID: userID, FirstName: "Test", Text: text}
}

func videoUpdate(chatID, userID int64, fileRef string, size int64) gateway.Update {
	return gateway.Update{
		ChatID: chatID, UserID: userID, FirstName: "Test",
		Video: &gateway.FileAttachment{FileRef: fileRef, SizeBytes: &size},
	}
}

func callbackUpdate(chatID, userID int64, cb Callback) gateway.Update {
	return gateway.Update{
		ChatID: chatID, UserID: userID, FirstName: "Test",
		Callback: &gateway.CallbackEvent{ID: "cb-1", Data: cb.Encode(), MessageID: 42},
	}
}
