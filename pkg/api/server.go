// Package api provides the REST API server for dna2midi
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/james-see/dna2midi/pkg/dna"
	"github.com/james-see/dna2midi/pkg/pipeline"
	"github.com/james-see/dna2midi/pkg/render"
	"github.com/james-see/dna2midi/pkg/score"
	"github.com/james-see/dna2midi/pkg/theory"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title DNA2MIDI API
// @version 1.0
// @description API for turning DNA open reading frames into songs
// @host localhost:8080
// @BasePath /api/v1

// RequestIDHeader carries the id assigned to every request
const RequestIDHeader = "X-Request-ID"

// Server holds the settings shared by all handlers
type Server struct {
	midi render.MIDIOptions
}

// NewServer creates a server rendering MIDI with opts
func NewServer(opts render.MIDIOptions) *Server {
	return &Server{midi: opts}
}

// StartServer starts the API server on the specified port
func StartServer(port int, opts render.MIDIOptions) error {
	return NewServer(opts).Router().Run(fmt.Sprintf(":%d", port))
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.Use(requestID())
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/tonics", listTonics)
		v1.GET("/formats", listFormats)
		v1.POST("/score", s.handleScore)
		v1.POST("/generate", s.handleGenerate)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		if parsed, err := uuid.Parse(c.GetHeader(RequestIDHeader)); err == nil {
			id = parsed.String()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	h := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposedHeaders: []string{"Content-Disposition", RequestIDHeader},
	})
	return func(c *gin.Context) {
		h.HandlerFunc(c.Writer, c.Request)

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dna2midi",
	})
}

// listTonics godoc
// @Summary List supported tonics
// @Description Returns the tonic letters and modes with their tonic chords
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/tonics [get]
func listTonics(c *gin.Context) {
	chords := make(map[theory.Mode]map[theory.Note]theory.Chord)
	for _, mode := range []theory.Mode{theory.Major, theory.Minor} {
		chords[mode] = make(map[theory.Note]theory.Chord)
		for _, tonic := range theory.Tonics {
			chord, err := theory.ChordFor(tonic, mode)
			if err != nil {
				continue
			}
			chords[mode][tonic] = chord
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"tonics": theory.Tonics,
		"modes":  []theory.Mode{theory.Major, theory.Minor},
		"chords": chords,
	})
}

// listFormats godoc
// @Summary List output formats
// @Description Returns the formats /generate can produce
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats": render.GetSupportedFormats(),
	})
}

// handleScore godoc
// @Summary Assemble a score
// @Description Returns the assembled score of a sequence as JSON
// @Tags generate
// @Accept json
// @Produce json
// @Param request body songRequest true "Sequence and musical parameters"
// @Success 200 {object} render.Document
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/score [post]
func (s *Server) handleScore(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}

	sc, err := pipeline.Compose(req.Sequence, req.Tonic, req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	doc, err := render.NewDocument(sc, req.Tempo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// handleGenerate godoc
// @Summary Generate a song
// @Description Renders a sequence as a MIDI file, or as JSON or YAML with ?format=
// @Tags generate
// @Accept json
// @Produce application/octet-stream
// @Param request body songRequest true "Sequence and musical parameters"
// @Param format query string false "Output format: midi, json or yaml (default: midi)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/generate [post]
func (s *Server) handleGenerate(c *gin.Context) {
	format := render.Format(c.DefaultQuery("format", string(render.FormatMIDI)))
	enc, err := render.EncoderFor(format, s.midi)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, ok := bindRequest(c)
	if !ok {
		return
	}

	out := &bufferRenderer{enc: enc}
	if _, err := pipeline.Process(req.Sequence, req.Tonic, req.Mode, req.Tempo, out); err != nil {
		respondError(c, err)
		return
	}

	// Generate output filename
	outputName := "dna-" + c.GetString("request_id") + render.Extension(format)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Data(http.StatusOK, render.ContentType(format), out.data)
}

// bufferRenderer keeps the encoded artifact in memory for the response
type bufferRenderer struct {
	enc  render.Encoder
	data []byte
}

func (b *bufferRenderer) Render(s *score.Score, tempo int) error {
	data, err := b.enc.Encode(s, tempo)
	if err != nil {
		return err
	}
	b.data = data
	return nil
}

// songRequest is the JSON body accepted by /score and /generate
type songRequest struct {
	Sequence string      `json:"sequence" binding:"required"`
	Tonic    theory.Note `json:"tonic"`
	Mode     theory.Mode `json:"mode"`
	Tempo    int         `json:"tempo"`
}

func bindRequest(c *gin.Context) (*pipeline.Request, bool) {
	body := songRequest{
		Tonic: "C",
		Mode:  theory.Major,
		Tempo: 120,
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return nil, false
	}
	req := pipeline.Request{
		Sequence: body.Sequence,
		Tonic:    body.Tonic,
		Mode:     body.Mode,
		Tempo:    body.Tempo,
	}
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return nil, false
	}
	return &req, true
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if pipeline.IsInputError(err) {
		status = http.StatusUnprocessableEntity
	}
	body := gin.H{"error": err.Error()}
	if code := errorCode(err); code != "" {
		body["code"] = code
	}
	c.JSON(status, body)
}

var errorCodes = []struct {
	err  error
	code string
}{
	{dna.ErrSequenceTooLong, "sequence_too_long"},
	{dna.ErrNoStartCodon, "no_start_codon"},
	{dna.ErrNoStopCodonInFrame, "no_stop_codon_in_frame"},
	{dna.ErrOrfTooShort, "orf_too_short"},
	{dna.ErrInvalidBase, "invalid_base"},
	{theory.ErrUnsupportedTonic, "unsupported_tonic"},
	{theory.ErrUnsupportedMode, "unsupported_mode"},
	{pipeline.ErrInvalidTempo, "invalid_tempo"},
}

// errorCode maps a pipeline error to a stable machine readable code
func errorCode(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return ""
}
