package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"sidequest/internal/app"
	"sidequest/internal/card"
	"sidequest/internal/dice"
	"sidequest/internal/logging"
	"sidequest/internal/undo"
)

// Session is the part of the application context the tools drive.
type Session interface {
	Themes() []string
	QuestTypes(theme string) []string
	GenerateQuest(theme, questType string) (card.View, error)
	GenerateNPC(theme string) (card.View, error)
	ToggleLock(cardID, key string) (bool, error)
	EditTitle(cardID, title string) (card.View, error)
	EditField(cardID, key, value string) (card.View, error)
	AddTag(ctx context.Context, cardID, text string) (card.View, error)
	RemoveTag(ctx context.Context, cardID, text string) (card.View, error)
	Save(ctx context.Context, cardID string) (card.View, error)
	LoadSaved(ctx context.Context, kind card.Kind) ([]card.View, error)
	Search(ctx context.Context, kind card.Kind, query string) ([]app.SearchHit, error)
	Delete(cardID string) (undo.Outcome, error)
	Undo() (card.View, error)
	UndoCard(cardID string) (card.View, error)
	Export(cardID string) (filename, content string, err error)
	Roll(sides, count int) (dice.Roll, error)
	RollNotation(notation string) (dice.Roll, error)
	Notices() []app.Notice
}

var _ Session = (*app.App)(nil)

type Server struct {
	session Session
	log     *logging.Logger
	mcp     *sdk.Server
}

func NewServer(session Session, version string, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	s := &Server{
		session: session,
		log:     log,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "sidequest",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	s.log.Info("mcp server starting")
	return s.mcp.Run(ctx, transport)
}
