package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sidequest/internal/app"
	"sidequest/internal/card"
	"sidequest/internal/dice"
	"sidequest/internal/logging"
	"sidequest/internal/templates"
)

type generateRequest struct {
	Theme string `json:"theme"`
	Type  string `json:"type"`
}

type editRequest struct {
	Title  *string           `json:"title"`
	Fields map[string]string `json:"fields"`
}

type tagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

type rollRequest struct {
	Notation string `json:"notation"`
	Sides    int    `json:"sides"`
	Count    int    `json:"count"`
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

type themeInfo struct {
	Name       string   `json:"name"`
	QuestTypes []string `json:"quest_types"`
}

type rollResponse struct {
	Dice    string `json:"dice"`
	Results []int  `json:"results"`
	Total   int    `json:"total"`
	Text    string `json:"text"`
}

type Handlers struct {
	sessions *Sessions
	set      *templates.Set
	log      *logging.Logger
}

func NewHandlers(sessions *Sessions, set *templates.Set, log *logging.Logger) *Handlers {
	return &Handlers{sessions: sessions, set: set, log: log.With("component", "httpapi")}
}

func (h *Handlers) session(c *gin.Context) *app.App {
	return h.sessions.Get(c.GetString(identityKey))
}

func (h *Handlers) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handlers) Themes(c *gin.Context) {
	if h.set == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", fmt.Errorf("template data is not loaded"))
		return
	}
	themes := h.set.Themes()
	out := make([]themeInfo, 0, len(themes))
	for _, theme := range themes {
		out = append(out, themeInfo{Name: theme, QuestTypes: h.set.QuestTypes(theme)})
	}
	c.JSON(http.StatusOK, gin.H{"themes": out})
}

func (h *Handlers) GenerateQuest(c *gin.Context) {
	var req generateRequest
	if !bind(c, &req) {
		return
	}
	view, err := h.session(c).GenerateQuest(req.Theme, req.Type)
	h.respondCard(c, view, err)
}

func (h *Handlers) GenerateNPC(c *gin.Context) {
	var req generateRequest
	if !bind(c, &req) {
		return
	}
	view, err := h.session(c).GenerateNPC(req.Theme)
	h.respondCard(c, view, err)
}

func (h *Handlers) GetCard(c *gin.Context) {
	view, err := h.session(c).Card(c.Param("id"))
	h.respondCard(c, view, err)
}

func (h *Handlers) EditCard(c *gin.Context) {
	var req editRequest
	if !bind(c, &req) {
		return
	}
	session, id := h.session(c), c.Param("id")
	view, err := session.Card(id)
	if err == nil && req.Title != nil {
		view, err = session.EditTitle(id, *req.Title)
	}
	for key, value := range req.Fields {
		if err != nil {
			break
		}
		view, err = session.EditField(id, key, value)
	}
	h.respondCard(c, view, err)
}

func (h *Handlers) ToggleLock(c *gin.Context) {
	locked, err := h.session(c).ToggleLock(c.Param("id"), c.Param("key"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "locked": locked})
}

func (h *Handlers) ToggleCollapse(c *gin.Context) {
	expanded, err := h.session(c).ToggleCollapse(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expanded": expanded})
}

func (h *Handlers) AddTag(c *gin.Context) {
	var req tagRequest
	if !bind(c, &req) {
		return
	}
	view, err := h.session(c).AddTag(c.Request.Context(), c.Param("id"), req.Tag)
	h.respondCard(c, view, err)
}

func (h *Handlers) RemoveTag(c *gin.Context) {
	view, err := h.session(c).RemoveTag(c.Request.Context(), c.Param("id"), c.Param("tag"))
	h.respondCard(c, view, err)
}

func (h *Handlers) SaveCard(c *gin.Context) {
	view, err := h.session(c).Save(c.Request.Context(), c.Param("id"))
	h.respondCard(c, view, err)
}

func (h *Handlers) DeleteCard(c *gin.Context) {
	outcome, err := h.session(c).Delete(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	if outcome.Immediate {
		c.JSON(http.StatusOK, gin.H{"card_id": outcome.Pending.CardID, "immediate": true})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"card_id":    outcome.Pending.CardID,
		"title":      outcome.Pending.Title,
		"immediate":  false,
		"undo_until": outcome.Pending.Deadline.UTC(),
	})
}

func (h *Handlers) ConfirmDelete(c *gin.Context) {
	if err := h.session(c).ConfirmDelete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) UndoCard(c *gin.Context) {
	view, err := h.session(c).UndoCard(c.Param("id"))
	h.respondCard(c, view, err)
}

func (h *Handlers) UndoLatest(c *gin.Context) {
	view, err := h.session(c).Undo()
	h.respondCard(c, view, err)
}

func (h *Handlers) ExportCard(c *gin.Context) {
	name, content, err := h.session(c).Export(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

// Saved lists saved cards of a kind, or searches them when q is set.
func (h *Handlers) Saved(c *gin.Context) {
	kind, err := card.ParseKind(c.Param("kind"))
	if err != nil {
		respondErr(c, err)
		return
	}
	session := h.session(c)
	if q := c.Query("q"); q != "" {
		hits, err := session.Search(c.Request.Context(), kind, q)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": hits})
		return
	}
	views, err := session.LoadSaved(c.Request.Context(), kind)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": views})
}

func (h *Handlers) Roll(c *gin.Context) {
	var req rollRequest
	if !bind(c, &req) {
		return
	}
	var (
		roll dice.Roll
		err  error
	)
	if req.Notation != "" {
		roll, err = h.session(c).RollNotation(req.Notation)
	} else {
		roll, err = h.session(c).Roll(req.Sides, req.Count)
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rollResponse{Dice: roll.Label(), Results: roll.Results, Total: roll.Total(), Text: roll.String()})
}

func (h *Handlers) Notices(c *gin.Context) {
	notices := h.session(c).Notices()
	if notices == nil {
		notices = []app.Notice{}
	}
	c.JSON(http.StatusOK, gin.H{"notices": notices})
}

func (h *Handlers) Preferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.session(c).Preferences())
}

func (h *Handlers) ToggleDisplay(c *gin.Context) {
	display, err := h.session(c).ToggleDisplay()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": display})
}

func (h *Handlers) SetGeneratorTheme(c *gin.Context) {
	var req themeRequest
	if !bind(c, &req) {
		return
	}
	session := h.session(c)
	if err := session.SetGeneratorTheme(req.Theme); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Preferences())
}

func (h *Handlers) respondCard(c *gin.Context, view card.View, err error) {
	if err != nil {
		h.log.Debug("request failed", "path", c.FullPath(), "error", err)
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// bind decodes an optional JSON body. An empty body leaves req zeroed.
func bind(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return false
	}
	return true
}
