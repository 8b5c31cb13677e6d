// Package results is the last screen: the metrics of a finished session,
// with the way back to the studio (repeat) or to the catalog (save).
package results

import (
	"net/http"

	"mehearsal/catalog"
	"mehearsal/envelope"
	"mehearsal/model"
	"mehearsal/view"

	"github.com/cdfmlr/crud/log"
	"github.com/gin-gonic/gin"
)

var logger = log.ZoneLogger("mehearsal/results")

// Start the results module.
func Start(router gin.IRouter) {
	registerRoutes(router)
}

func registerRoutes(r gin.IRouter) {
	r.GET(envelope.ResultsPath, GetResultsScreen)
	r.GET("/api/results", GetResults)
}

// Score is one line of the breakdown.
type Score struct {
	Label string     `json:"label"`
	Value int        `json:"value"`
	Tier  model.Tier `json:"tier"`
}

// Screen is what the results screen shows.
type Screen struct {
	Metrics     model.SessionMetrics `json:"metrics"`
	Overall     int                  `json:"overall"`
	Grade       string               `json:"grade"`
	Scores      []Score              `json:"scores"`
	Suggestions []string             `json:"suggestions"`
	Track       *model.Track         `json:"track,omitempty"`
	Ensemble    model.Ensemble       `json:"ensemble,omitempty"`
	RepeatURL   string               `json:"repeatUrl"`
	SaveURL     string               `json:"saveUrl"`
}

// NewScreen builds the results screen of an arrival.
//
// Repeat goes back to the studio with the same song and ensemble when the
// arrival has them, else to the catalog. Save always goes to the catalog.
func NewScreen(arrival envelope.ResultsArrival) Screen {
	m := arrival.Metrics
	s := Screen{
		Metrics: m,
		Overall: m.Overall,
		Grade:   model.Grade(m.Overall),
		Scores: []Score{
			{"Tempo", m.Tempo, model.TierOf(m.Tempo)},
			{"Pitch", m.Pitch, model.TierOf(m.Pitch)},
			{"Dynamics", m.Dynamics, model.TierOf(m.Dynamics)},
			{"Timing", m.Timing, model.TierOf(m.Timing)},
		},
		Suggestions: append([]string(nil), model.PracticeSuggestions...),
		RepeatURL:   envelope.CatalogPath,
		SaveURL:     envelope.CatalogPath,
	}

	if !arrival.CanRepeat() {
		return s
	}

	track := arrival.Studio.Track
	s.Track = &track
	s.Ensemble = arrival.Studio.Ensemble.Clone()

	env, err := envelope.ForStudio(track, arrival.Studio.Ensemble)
	if err != nil {
		logger.WithError(err).Warn("NewScreen: ForStudio failed, repeat goes to catalog")
		return s
	}
	s.RepeatURL = env.URL(envelope.StudioPath)
	return s
}

// GetResultsScreen handles: GET /results
//
// Query: the results envelope. metrics is required; songId, songTitle,
// songArtist, songTempo and ensemble are optional together.
// A bad envelope redirects (303) to the catalog.
func GetResultsScreen(c *gin.Context) {
	arrival, err := envelope.ResultsRequest(envelope.FromValues(c.Request.URL.Query()))
	if err != nil {
		catalog.RedirectInvalid(c, catalog.NoticeInvalidResults, err)
		return
	}

	c.HTML(http.StatusOK, view.Results, NewScreen(arrival))
}

// GetResults handles: GET /api/results
//
// Response:
//
//   - 200: OK: the results screen as json
//   - 400: Bad Request: {error: "..."}
func GetResults(c *gin.Context) {
	arrival, err := envelope.ResultsRequest(envelope.FromValues(c.Request.URL.Query()))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, NewScreen(arrival))
}
