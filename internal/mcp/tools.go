package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"sidequest/internal/app"
	"sidequest/internal/card"
	"sidequest/internal/dice"
)

type ListThemesInput struct{}

type GenerateQuestInput struct {
	Theme string `json:"theme,omitempty" jsonschema:"quest theme, defaults to the preferred theme"`
	Type  string `json:"type,omitempty" jsonschema:"quest type or any"`
}

type GenerateNPCInput struct {
	Theme string `json:"theme,omitempty" jsonschema:"NPC theme, defaults to the preferred theme"`
}

type ToggleLockInput struct {
	CardID string `json:"card_id" jsonschema:"generated card id"`
	Key    string `json:"key" jsonschema:"row key to lock or unlock, name locks first and last name"`
}

type EditCardInput struct {
	CardID string `json:"card_id" jsonschema:"card id"`
	Title  string `json:"title,omitempty" jsonschema:"new title"`
	Key    string `json:"key,omitempty" jsonschema:"row key to edit"`
	Value  string `json:"value,omitempty" jsonschema:"new row value"`
}

type TagInput struct {
	CardID string `json:"card_id" jsonschema:"card id"`
	Tag    string `json:"tag" jsonschema:"tag text"`
}

type CardInput struct {
	CardID string `json:"card_id" jsonschema:"card id"`
}

type ListSavedInput struct {
	Kind string `json:"kind" jsonschema:"quest or npc"`
}

type SearchSavedInput struct {
	Kind  string `json:"kind" jsonschema:"quest or npc"`
	Query string `json:"query" jsonschema:"search terms, quotes and -exclusions supported"`
}

type UndoDeleteInput struct {
	CardID string `json:"card_id,omitempty" jsonschema:"pending card id, defaults to the latest deletion"`
}

type RollDiceInput struct {
	Notation string `json:"notation,omitempty" jsonschema:"dice notation such as 3d6"`
	Sides    int    `json:"sides,omitempty" jsonschema:"faces per die"`
	Count    int    `json:"count,omitempty" jsonschema:"number of dice, 1 to 20"`
}

type GetNoticesInput struct{}

type ThemeOutput struct {
	Name       string   `json:"name"`
	QuestTypes []string `json:"quest_types"`
}

type ListThemesOutput struct {
	Themes []ThemeOutput `json:"themes"`
}

type CardOutput struct {
	Card card.View `json:"card"`
	Text string    `json:"text"`
}

type ToggleLockOutput struct {
	Key    string `json:"key"`
	Locked bool   `json:"locked"`
}

type ListSavedOutput struct {
	Cards []card.View `json:"cards"`
}

type SearchResultOutput struct {
	Card    card.View `json:"card"`
	Score   float64   `json:"score"`
	Snippet string    `json:"snippet"`
}

type SearchSavedOutput struct {
	Results []SearchResultOutput `json:"results"`
}

type DeleteOutput struct {
	CardID    string `json:"card_id"`
	Title     string `json:"title"`
	Immediate bool   `json:"immediate"`
	UndoUntil string `json:"undo_until,omitempty"`
}

type ExportOutput struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type RollOutput struct {
	Dice    string `json:"dice"`
	Results []int  `json:"results"`
	Total   int    `json:"total"`
	Text    string `json:"text"`
}

type NoticeOutput struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

type GetNoticesOutput struct {
	Notices []NoticeOutput `json:"notices"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_themes",
		Description: "List loaded themes and their quest types",
	}, s.handleListThemes)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "generate_quest",
		Description: "Generate a side quest card, honoring locked traits",
	}, s.handleGenerateQuest)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "generate_npc",
		Description: "Generate an NPC card, honoring locked traits",
	}, s.handleGenerateNPC)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "toggle_lock",
		Description: "Lock or unlock a trait on a generated card so it survives regeneration",
	}, s.handleToggleLock)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "edit_card",
		Description: "Edit a card title or one of its rows",
	}, s.handleEditCard)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "add_tag",
		Description: "Tag a card; saved cards sync their tags",
	}, s.handleAddTag)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "remove_tag",
		Description: "Remove a tag from a card",
	}, s.handleRemoveTag)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "save_card",
		Description: "Save a card for the signed-in identity",
	}, s.handleSaveCard)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_saved",
		Description: "List saved quests or NPCs, newest first",
	}, s.handleListSaved)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_saved",
		Description: "Full-text search over saved quests or NPCs",
	}, s.handleSearchSaved)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "delete_card",
		Description: "Delete a card; saved cards can be undone during the grace window",
	}, s.handleDeleteCard)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "undo_delete",
		Description: "Restore a card whose deletion is still pending",
	}, s.handleUndoDelete)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "export_card",
		Description: "Render a card as a plain text export",
	}, s.handleExportCard)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "roll_dice",
		Description: "Roll dice by notation or by sides and count",
	}, s.handleRollDice)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_notices",
		Description: "Drain queued notices such as failed background deletions",
	}, s.handleGetNotices)
}

func (s *Server) handleListThemes(ctx context.Context, req *sdk.CallToolRequest, input ListThemesInput) (*sdk.CallToolResult, ListThemesOutput, error) {
	themes := s.session.Themes()
	out := ListThemesOutput{Themes: make([]ThemeOutput, 0, len(themes))}
	for _, theme := range themes {
		out.Themes = append(out.Themes, ThemeOutput{Name: theme, QuestTypes: s.session.QuestTypes(theme)})
	}
	return nil, out, nil
}

func (s *Server) handleGenerateQuest(ctx context.Context, req *sdk.CallToolRequest, input GenerateQuestInput) (*sdk.CallToolResult, CardOutput, error) {
	return cardResult(s.session.GenerateQuest(input.Theme, input.Type))
}

func (s *Server) handleGenerateNPC(ctx context.Context, req *sdk.CallToolRequest, input GenerateNPCInput) (*sdk.CallToolResult, CardOutput, error) {
	return cardResult(s.session.GenerateNPC(input.Theme))
}

func (s *Server) handleToggleLock(ctx context.Context, req *sdk.CallToolRequest, input ToggleLockInput) (*sdk.CallToolResult, ToggleLockOutput, error) {
	if input.CardID == "" || input.Key == "" {
		return nil, ToggleLockOutput{}, fmt.Errorf("card_id and key are required")
	}
	locked, err := s.session.ToggleLock(input.CardID, input.Key)
	if err != nil {
		return nil, ToggleLockOutput{}, err
	}
	return nil, ToggleLockOutput{Key: input.Key, Locked: locked}, nil
}

func (s *Server) handleEditCard(ctx context.Context, req *sdk.CallToolRequest, input EditCardInput) (*sdk.CallToolResult, CardOutput, error) {
	if input.CardID == "" {
		return nil, CardOutput{}, fmt.Errorf("card_id is required")
	}
	if input.Title == "" && input.Key == "" {
		return nil, CardOutput{}, fmt.Errorf("title or key is required")
	}
	var (
		view card.View
		err  error
	)
	if input.Title != "" {
		if view, err = s.session.EditTitle(input.CardID, input.Title); err != nil {
			return nil, CardOutput{}, err
		}
	}
	if input.Key != "" {
		if view, err = s.session.EditField(input.CardID, input.Key, input.Value); err != nil {
			return nil, CardOutput{}, err
		}
	}
	return cardResult(view, nil)
}

func (s *Server) handleAddTag(ctx context.Context, req *sdk.CallToolRequest, input TagInput) (*sdk.CallToolResult, CardOutput, error) {
	if input.CardID == "" {
		return nil, CardOutput{}, fmt.Errorf("card_id is required")
	}
	return cardResult(s.session.AddTag(ctx, input.CardID, input.Tag))
}

func (s *Server) handleRemoveTag(ctx context.Context, req *sdk.CallToolRequest, input TagInput) (*sdk.CallToolResult, CardOutput, error) {
	if input.CardID == "" || input.Tag == "" {
		return nil, CardOutput{}, fmt.Errorf("card_id and tag are required")
	}
	return cardResult(s.session.RemoveTag(ctx, input.CardID, input.Tag))
}

func (s *Server) handleSaveCard(ctx context.Context, req *sdk.CallToolRequest, input CardInput) (*sdk.CallToolResult, CardOutput, error) {
	if input.CardID == "" {
		return nil, CardOutput{}, fmt.Errorf("card_id is required")
	}
	return cardResult(s.session.Save(ctx, input.CardID))
}

func (s *Server) handleListSaved(ctx context.Context, req *sdk.CallToolRequest, input ListSavedInput) (*sdk.CallToolResult, ListSavedOutput, error) {
	kind, err := card.ParseKind(input.Kind)
	if err != nil {
		return nil, ListSavedOutput{}, err
	}
	views, err := s.session.LoadSaved(ctx, kind)
	if err != nil {
		return nil, ListSavedOutput{}, err
	}
	return nil, ListSavedOutput{Cards: views}, nil
}

func (s *Server) handleSearchSaved(ctx context.Context, req *sdk.CallToolRequest, input SearchSavedInput) (*sdk.CallToolResult, SearchSavedOutput, error) {
	if input.Query == "" {
		return nil, SearchSavedOutput{}, fmt.Errorf("query is required")
	}
	kind, err := card.ParseKind(input.Kind)
	if err != nil {
		return nil, SearchSavedOutput{}, err
	}
	hits, err := s.session.Search(ctx, kind, input.Query)
	if err != nil {
		return nil, SearchSavedOutput{}, err
	}
	out := SearchSavedOutput{Results: make([]SearchResultOutput, 0, len(hits))}
	for _, hit := range hits {
		out.Results = append(out.Results, SearchResultOutput{Card: hit.Card, Score: hit.Score, Snippet: hit.Snippet})
	}
	return nil, out, nil
}

func (s *Server) handleDeleteCard(ctx context.Context, req *sdk.CallToolRequest, input CardInput) (*sdk.CallToolResult, DeleteOutput, error) {
	if input.CardID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("card_id is required")
	}
	outcome, err := s.session.Delete(input.CardID)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	out := DeleteOutput{
		CardID:    outcome.Pending.CardID,
		Title:     outcome.Pending.Title,
		Immediate: outcome.Immediate,
	}
	if !outcome.Immediate {
		out.UndoUntil = outcome.Pending.Deadline.UTC().Format(time.RFC3339)
	}
	return nil, out, nil
}

func (s *Server) handleUndoDelete(ctx context.Context, req *sdk.CallToolRequest, input UndoDeleteInput) (*sdk.CallToolResult, CardOutput, error) {
	if input.CardID != "" {
		return cardResult(s.session.UndoCard(input.CardID))
	}
	return cardResult(s.session.Undo())
}

func (s *Server) handleExportCard(ctx context.Context, req *sdk.CallToolRequest, input CardInput) (*sdk.CallToolResult, ExportOutput, error) {
	if input.CardID == "" {
		return nil, ExportOutput{}, fmt.Errorf("card_id is required")
	}
	name, content, err := s.session.Export(input.CardID)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	return nil, ExportOutput{Filename: name, Content: content}, nil
}

func (s *Server) handleRollDice(ctx context.Context, req *sdk.CallToolRequest, input RollDiceInput) (*sdk.CallToolResult, RollOutput, error) {
	var (
		roll dice.Roll
		err  error
	)
	switch {
	case input.Notation != "":
		roll, err = s.session.RollNotation(input.Notation)
	case input.Sides != 0:
		roll, err = s.session.Roll(input.Sides, input.Count)
	default:
		err = errors.New("notation or sides is required")
	}
	if err != nil {
		return nil, RollOutput{}, err
	}
	return nil, RollOutput{
		Dice:    roll.Label(),
		Results: roll.Results,
		Total:   roll.Total(),
		Text:    roll.String(),
	}, nil
}

func (s *Server) handleGetNotices(ctx context.Context, req *sdk.CallToolRequest, input GetNoticesInput) (*sdk.CallToolResult, GetNoticesOutput, error) {
	notices := s.session.Notices()
	out := GetNoticesOutput{Notices: make([]NoticeOutput, 0, len(notices))}
	for _, n := range notices {
		out.Notices = append(out.Notices, noticeOutput(n))
	}
	return nil, out, nil
}

func cardResult(view card.View, err error) (*sdk.CallToolResult, CardOutput, error) {
	if err != nil {
		return nil, CardOutput{}, err
	}
	return nil, CardOutput{Card: view, Text: view.Text()}, nil
}

func noticeOutput(n app.Notice) NoticeOutput {
	return NoticeOutput{
		Level:   string(n.Level),
		Message: n.Message,
		Time:    n.Time.UTC().Format(time.RFC3339),
	}
}
