package studio

import (
	"net/http"

	"mehearsal/catalog"
	"mehearsal/envelope"
	"mehearsal/model"
	"mehearsal/view"

	"github.com/gin-gonic/gin"
)

func (s *Studio) registerRoutes(r gin.IRouter) {
	// session screen
	r.GET(envelope.StudioPath, s.GetStudioScreen)

	// controls
	api := r.Group("/api/sessions/:id")
	api.GET("", s.withSession(s.GetSession))
	api.POST("/play", s.withSession(s.PostPlay))
	api.POST("/pause", s.withSession(s.PostPause))
	api.POST("/stop", s.withSession(s.PostStop))
	api.POST("/record", s.withSession(s.PostRecord))
	api.POST("/exit", s.withSession(s.PostExit))

	mixer := api.Group("/mixer/:instrumentId")
	mixer.POST("/volume", s.withSession(s.PostVolume))
	mixer.POST("/mute", s.withSession(s.PostMute))
	mixer.POST("/solo", s.withSession(s.PostSolo))
}

type studioScreen struct {
	SessionID string
	Track     model.Track
	Snapshot  Snapshot
}

// GetStudioScreen handles: GET /studio
//
// Query: the studio envelope (songId, songTitle, songArtist, songTempo, ensemble).
// Every key is required; a bad envelope redirects (303) to the catalog.
func (s *Studio) GetStudioScreen(c *gin.Context) {
	arrival, err := envelope.StudioRequest(envelope.FromValues(c.Request.URL.Query()))
	if err != nil {
		catalog.RedirectInvalid(c, catalog.NoticeInvalidSession, err)
		return
	}

	if s.tracks != nil {
		arrival.Track = s.tracks.Enrich(arrival.Track)
	}

	session := s.registry.Open(arrival)

	c.HTML(http.StatusOK, view.Studio, studioScreen{
		SessionID: session.ID,
		Track:     arrival.Track,
		Snapshot:  session.Snapshot(),
	})
}

type sessionHandler func(c *gin.Context, session *Session)

// withSession resolves :id, answering 404 for unknown (or ended) sessions.
func (s *Studio) withSession(h sessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := s.registry.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such session"})
			return
		}
		h(c, session)
	}
}

// GetSession handles: GET /api/sessions/:id
//
// Response:
//
//   - 200: OK: the session snapshot
//   - 404: Not Found: {error: "no such session"}
func (s *Studio) GetSession(c *gin.Context, session *Session) {
	c.JSON(http.StatusOK, session.Snapshot())
}

// PostPlay handles: POST /api/sessions/:id/play
func (s *Studio) PostPlay(c *gin.Context, session *Session) {
	session.Play()
	c.JSON(http.StatusOK, session.Snapshot())
}

// PostPause handles: POST /api/sessions/:id/pause
func (s *Studio) PostPause(c *gin.Context, session *Session) {
	session.Pause()
	c.JSON(http.StatusOK, session.Snapshot())
}

// PostRecord handles: POST /api/sessions/:id/record (toggle)
func (s *Studio) PostRecord(c *gin.Context, session *Session) {
	session.ToggleRecord()
	c.JSON(http.StatusOK, session.Snapshot())
}

type StopResponse struct {
	Ended   bool                  `json:"ended"`
	Metrics *model.SessionMetrics `json:"metrics,omitempty"`
	URL     string                `json:"url,omitempty"`
	Session *Snapshot             `json:"session,omitempty"`
}

// PostStop handles: POST /api/sessions/:id/stop
//
// Response:
//
//   - 200: OK: {ended: true, metrics: {...}, url: "/results?..."}: the session is over
//   - 200: OK: {ended: false, session: {...}}: it was not playing, nothing happened
//   - 500: Internal Server Error: {error: "..."}
func (s *Studio) PostStop(c *gin.Context, session *Session) {
	metrics, ended := session.Stop()
	if !ended {
		snap := session.Snapshot()
		c.JSON(http.StatusOK, StopResponse{Ended: false, Session: &snap})
		return
	}

	env, err := envelope.ForResults(metrics, session.Track(), session.OriginalEnsemble())
	if err != nil {
		logger.WithContext(c).
			WithField("session", session.ID).
			WithError(err).
			Error("PostStop: ForResults failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, StopResponse{
		Ended:   true,
		Metrics: &metrics,
		URL:     env.URL(envelope.ResultsPath),
	})
}

// PostExit handles: POST /api/sessions/:id/exit
//
// Response: 200: {url: "/"}
func (s *Studio) PostExit(c *gin.Context, session *Session) {
	s.registry.End(session.ID)
	c.JSON(http.StatusOK, gin.H{"url": envelope.CatalogPath})
}

type VolumeRequest struct {
	Value *int `json:"value" binding:"required"`
}

// PostVolume handles: POST /api/sessions/:id/mixer/:instrumentId/volume
//
// Body: {"value": 57}. Out-of-range values are clamped to [0, 100].
//
// Response:
//
//   - 200: OK: the session snapshot (unchanged for an unknown instrument)
//   - 400: Bad Request: {error: "..."}
func (s *Studio) PostVolume(c *gin.Context, session *Session) {
	req := new(VolumeRequest)
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.logUnknownInstrument(c, session,
		session.SetVolume(c.Param("instrumentId"), *req.Value))
	c.JSON(http.StatusOK, session.Snapshot())
}

// PostMute handles: POST /api/sessions/:id/mixer/:instrumentId/mute (toggle)
func (s *Studio) PostMute(c *gin.Context, session *Session) {
	s.logUnknownInstrument(c, session,
		session.ToggleMute(c.Param("instrumentId")))
	c.JSON(http.StatusOK, session.Snapshot())
}

// PostSolo handles: POST /api/sessions/:id/mixer/:instrumentId/solo (toggle)
func (s *Studio) PostSolo(c *gin.Context, session *Session) {
	s.logUnknownInstrument(c, session,
		session.ToggleSolo(c.Param("instrumentId")))
	c.JSON(http.StatusOK, session.Snapshot())
}

func (s *Studio) logUnknownInstrument(c *gin.Context, session *Session, found bool) {
	if found {
		return
	}
	logger.WithContext(c).
		WithField("session", session.ID).
		WithField("instrument", c.Param("instrumentId")).
		Debug("mixer: no such instrument, ignored")
}
