package catalog

import (
	"errors"
	"net/http"

	"mehearsal/envelope"
	"mehearsal/model"
	"mehearsal/view"

	"github.com/gin-gonic/gin"
)

// Notices shown on the catalog screen after a redirect.
// Keys are the values of the "notice" query parameter.
var Notices = map[string]string{
	NoticeInvalidSession:   "The studio link was missing or had invalid data. Pick a song and your band again.",
	NoticeInvalidResults:   "The results link was missing or had invalid data.",
	NoticeNoSong:           "Pick a song first.",
	NoticeEmptyEnsemble:    "Add at least one instrument to your band.",
	NoticeEnsembleFull:     "Your band is full.",
	NoticeInvalidSelection: "That selection can't be used. Pick a song and your band again.",
}

const (
	NoticeInvalidSession   = "invalid-session-data"
	NoticeInvalidResults   = "invalid-results-data"
	NoticeNoSong           = "no-song"
	NoticeEmptyEnsemble    = "empty-ensemble"
	NoticeEnsembleFull     = "ensemble-full"
	NoticeInvalidSelection = "invalid-selection"
)

func (c *Catalog) registerRoutes(r gin.IRouter) {
	// catalog screen
	r.GET(envelope.CatalogPath, c.GetCatalogScreen)
	r.POST("/studio/enter", c.PostEnterStudio)

	// json
	api := r.Group("/api/catalog")
	api.GET("/songs", c.GetSongs)
	api.GET("/instruments", GetInstruments)
	api.POST("/confirm", c.PostConfirm)
}

type catalogScreen struct {
	Query       string
	Notice      string
	Songs       []model.Track
	Instruments []model.InstrumentSlot
	MaxEnsemble int
}

// GetCatalogScreen handles: GET /
//
// Query:
//
//   - q: search songs by title or artist
//   - notice: one of the Notices keys
func (c *Catalog) GetCatalogScreen(ctx *gin.Context) {
	q := ctx.Query("q")
	songs, err := c.Search(ctx, q)
	if err != nil {
		ctx.String(http.StatusInternalServerError, "search failed")
		return
	}

	ctx.HTML(http.StatusOK, view.Catalog, catalogScreen{
		Query:       q,
		Notice:      Notices[ctx.Query("notice")],
		Songs:       songs,
		Instruments: Instruments(),
		MaxEnsemble: model.MaxEnsembleSize,
	})
}

// GetSongs handles: GET /api/catalog/songs?q=
//
// Response:
//
//   - 200: OK: {songs: [{song1}, {song2}, ...]}
//   - 500: Internal Server Error: {error: "..."}
func (c *Catalog) GetSongs(ctx *gin.Context) {
	songs, err := c.Search(ctx, ctx.Query("q"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"songs": songs})
}

// GetInstruments handles: GET /api/catalog/instruments
func GetInstruments(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"instruments": Instruments(),
		"maxEnsemble": model.MaxEnsembleSize,
	})
}

type ConfirmRequest struct {
	SongID        string   `json:"songId" form:"songId"`
	InstrumentIDs []string `json:"instrumentIds" form:"instrumentId"`
}

// PostConfirm handles: POST /api/catalog/confirm
//
// Body: {"songId": "1", "instrumentIds": ["bass", "drums"]}
//
// Response:
//
//   - 200: OK: {url: "/studio?..."}
//   - 400: Bad Request: {error: "..."}
//   - 422: Unprocessable Entity: {error: "..."}: unknown ids, empty or full ensemble
func (c *Catalog) PostConfirm(ctx *gin.Context) {
	req := new(ConfirmRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	env, err := c.Select(req.SongID, req.InstrumentIDs)
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"url": env.URL(envelope.StudioPath)})
}

// PostEnterStudio handles: POST /studio/enter
//
// Body: form: songId=1&instrumentId=bass&instrumentId=drums
//
// Redirects (303) to the studio, or back to the catalog with a notice
// when the selection can't be confirmed.
func (c *Catalog) PostEnterStudio(ctx *gin.Context) {
	req := new(ConfirmRequest)
	if err := ctx.ShouldBind(req); err != nil {
		redirectNotice(ctx, NoticeInvalidSelection)
		return
	}

	env, err := c.Select(req.SongID, req.InstrumentIDs)
	if err != nil {
		logger.WithContext(ctx).
			WithField("songId", req.SongID).
			WithField("instrumentIds", req.InstrumentIDs).
			WithError(err).
			Info("PostEnterStudio: selection rejected")

		redirectNotice(ctx, selectionNotice(err))
		return
	}

	ctx.Redirect(http.StatusSeeOther, env.URL(envelope.StudioPath))
}

func selectionNotice(err error) string {
	switch {
	case errors.Is(err, ErrNoSong), errors.Is(err, ErrUnknownSong):
		return NoticeNoSong
	case errors.Is(err, ErrEmptyEnsemble):
		return NoticeEmptyEnsemble
	case errors.Is(err, model.ErrEnsembleFull):
		return NoticeEnsembleFull
	default:
		return NoticeInvalidSelection
	}
}

func redirectNotice(ctx *gin.Context, notice string) {
	ctx.Redirect(http.StatusSeeOther, envelope.CatalogPath+"?notice="+notice)
}

// RedirectInvalid sends the user back to the catalog after a decode failure.
func RedirectInvalid(ctx *gin.Context, notice string, err error) {
	var de *envelope.DecodeError
	if errors.As(err, &de) {
		logger.WithContext(ctx).
			WithField("key", de.Key).
			WithField("path", ctx.Request.URL.Path).
			WithError(err).
			Info("envelope rejected, back to catalog")
	}
	redirectNotice(ctx, notice)
}
