package bot

import (
	"context"
	"errors"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/kinobot/config"
	"github.com/m3rciful/kinobot/conversation"
	"github.com/m3rciful/kinobot/storage"
	"github.com/m3rciful/kinobot/subscription"
)

const (
	testAdminID = int64(99)
	testUserID  = int64(7)
)

// testContext implements just enough of tele.Context for the handlers.
// The embedded interface panics on anything the handlers should never
// touch in these tests.
type testContext struct {
	tele.Context

	user    *tele.User
	chat    *tele.Chat
	text    string
	message *tele.Message

	sent     []sentItem
	videoErr error
	textErr  error
	kv       map[string]interface{}
}

type sentItem struct {
	what interface{}
	opts []interface{}
}

func newTestContext(userID int64, text string) *testContext {
	return &testContext{
		user: &tele.User{ID: userID, FirstName: "Aziz", Username: "aziz"},
		chat: &tele.Chat{ID: userID},
		text: text,
		kv:   map[string]interface{}{},
	}
}

func (t *testContext) Sender() *tele.User      { return t.user }
func (t *testContext) Chat() *tele.Chat        { return t.chat }
func (t *testContext) Text() string            { return t.text }
func (t *testContext) Message() *tele.Message  { return t.message }
func (t *testContext) Update() tele.Update     { return tele.Update{ID: 1} }
func (t *testContext) Get(key string) interface{} {
	return t.kv[key]
}
func (t *testContext) Set(key string, val interface{}) {
	t.kv[key] = val
}

func (t *testContext) Send(what interface{}, opts ...interface{}) error {
	if _, ok := what.(*tele.Video); ok && t.videoErr != nil {
		return t.videoErr
	}
	if _, ok := what.(string); ok && t.textErr != nil {
		return t.textErr
	}
	t.sent = append(t.sent, sentItem{what: what, opts: opts})
	return nil
}

// lastText returns the most recent plain-text reply.
func (t *testContext) lastText() string {
	for i := len(t.sent) - 1; i >= 0; i-- {
		if s, ok := t.sent[i].what.(string); ok {
			return s
		}
	}
	return ""
}

func (t *testContext) texts() []string {
	var out []string
	for _, s := range t.sent {
		if str, ok := s.what.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

type memStore struct {
	users     map[int64]string
	upsertErr error

	channels   []storage.Channel
	channelErr error

	movies    map[string]storage.Movie
	nextID    int64
	createErr error
	findErr   error
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[int64]string{},
		movies: map[string]storage.Movie{},
	}
}

func (m *memStore) Upsert(_ context.Context, telegramID int64, username string) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.users[telegramID] = username
	return nil
}

func (m *memStore) List(_ context.Context) ([]storage.Channel, error) {
	if m.channelErr != nil {
		return nil, m.channelErr
	}
	return m.channels, nil
}

func (m *memStore) Create(_ context.Context, draft storage.DraftMovie) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	fileID := draft.VideoFileID
	m.movies[draft.Code] = storage.Movie{
		ID: m.nextID, Title: draft.Title, Year: draft.Year,
		Genre: draft.Genre, Language: draft.Language,
		Code: draft.Code, VideoFileID: &fileID,
	}
	return m.nextID, nil
}

func (m *memStore) FindByCode(_ context.Context, code string) (*storage.Movie, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	movie, ok := m.movies[code]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &movie, nil
}

func (m *memStore) asStore() storage.Store {
	return storage.Store{Users: m, Channels: m, Movies: m}
}

type staticMembers struct {
	role tele.MemberStatus
	err  error
}

func (s staticMembers) ChatMemberOf(_, _ tele.Recipient) (*tele.ChatMember, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &tele.ChatMember{Role: s.role}, nil
}

type promptSink struct {
	sent    []sentItem
	deleted int
	nextID  int
}

func (p *promptSink) Send(_ tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	p.sent = append(p.sent, sentItem{what: what, opts: opts})
	p.nextID++
	return &tele.Message{ID: p.nextID}, nil
}

func (p *promptSink) Delete(tele.Editable) error {
	p.deleted++
	return nil
}

type fixture struct {
	handlers *Handlers
	store    *memStore
	conv     *conversation.Store
	prompts  *promptSink
}

func newFixture(subscribed bool) *fixture {
	store := newMemStore()
	store.channels = []storage.Channel{{ID: 1, Name: "Kino kanal", ChatRef: "@kino"}}

	role := tele.Member
	if !subscribed {
		role = tele.Left
	}

	cfg := &config.Config{}
	cfg.Telegram.Admins = []int64{testAdminID}

	conv := conversation.NewStore()
	prompts := &promptSink{}
	gate := subscription.NewGate(
		subscription.NewVerifier(store, staticMembers{role: role}),
		store, conv, prompts,
	)

	h := New(cfg, store.asStore(), conv)
	h.BindGate(gate, "kinobot")
	return &fixture{handlers: h, store: store, conv: conv, prompts: prompts}
}

func seedMovie(store *memStore, code string) storage.Movie {
	fileID := "file-" + code
	store.nextID++
	m := storage.Movie{
		ID: store.nextID, Title: "Qasoskorlar", Year: 2019,
		Genre: "Fantastika", Language: "O'zbekcha",
		Code: code, VideoFileID: &fileID,
	}
	store.movies[code] = m
	return m
}

func movieWithTitle(id int64, title, code string, fileID *string) storage.Movie {
	return storage.Movie{
		ID: id, Title: title, Year: 2020,
		Genre: "Drama", Language: "O'zbekcha",
		Code: code, VideoFileID: fileID,
	}
}

var errBoom = errors.New("boom")
