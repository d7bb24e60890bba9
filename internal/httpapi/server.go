// Package httpapi serves exports as HTTP downloads.
//
// Routes:
//
//	GET  /healthz      liveness
//	GET  /api/targets  supported preset targets
//	POST /api/export   build an artifact and return it as an attachment
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ironsheep/preset-lut-mcp/internal/config"
	"github.com/ironsheep/preset-lut-mcp/internal/export"
	"github.com/ironsheep/preset-lut-mcp/internal/lut"
	"github.com/ironsheep/preset-lut-mcp/internal/params"
	"github.com/ironsheep/preset-lut-mcp/internal/preset"
)

// Response headers carrying artifact metadata next to the file body.
const (
	HeaderArtifactID    = "X-Artifact-Id"
	HeaderDropped       = "X-Dropped-Fields"
	HeaderParamsWarning = "X-Params-Warning"
	HeaderNonFinite     = "X-Non-Finite-Samples"
)

// Server is an echo instance with the export routes mounted.
type Server struct {
	*echo.Echo
	cfg config.Config
	log *slog.Logger
}

// New builds the HTTP server. A nil cfg means config.Default().
func New(cfg *config.Config, logger *slog.Logger) *Server {
	c := config.Default()
	if cfg != nil {
		c = *cfg
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		Echo: echo.New(),
		cfg:  c,
		log:  logger.With("component", "http"),
	}
	s.setupMiddleware()
	s.routes()
	return s
}

func (s *Server) setupMiddleware() {
	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit("2M"))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			s.log.Info("request", fields...)
			return nil
		},
	}))
}

func (s *Server) routes() {
	s.GET("/healthz", s.handleHealth)
	api := s.Group("/api")
	api.GET("/targets", s.handleTargets)
	api.POST("/export", s.handleExport)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

type targetInfo struct {
	Name      preset.Target `json:"name"`
	Slug      string        `json:"slug"`
	Extension string        `json:"extension"`
	MIMEType  string        `json:"mime_type"`
}

func (s *Server) handleTargets(c echo.Context) error {
	out := make([]targetInfo, 0, len(preset.Targets()))
	for _, t := range preset.Targets() {
		out = append(out, targetInfo{Name: t, Slug: t.Slug(), Extension: t.Extension(), MIMEType: t.MIMEType()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"targets":      out,
		"lut_mime":     export.CubeMIMEType,
		"lut_size":     s.cfg.LUTSize,
		"lut_size_min": lut.MinSize,
		"lut_size_max": lut.MaxSize,
	})
}

// exportBody is the POST /api/export payload. Params may be an object or a
// string holding JSON.
type exportBody struct {
	Params    json.RawMessage `json:"params"`
	Mode      string          `json:"mode"`
	Target    string          `json:"target"`
	ImageName string          `json:"image_name"`
	LUTSize   int             `json:"lut_size"`
}

func (s *Server) handleExport(c echo.Context) error {
	var body exportBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	mode := export.ModePreset
	switch {
	case body.Mode != "":
		m, err := export.ParseMode(body.Mode)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		mode = m
	case body.Target == "":
		mode = export.ModeLUT
	}

	p, warnings := params.Decode(body.Params)
	if len(warnings) > 0 {
		c.Response().Header().Set(HeaderParamsWarning, strings.Join(warnings, "; "))
	}

	// The response is the sink, so each request gets its own controller.
	sink := export.SinkFunc(func(_ context.Context, a *export.Artifact) error {
		h := c.Response().Header()
		h.Set(echo.HeaderContentDisposition, contentDisposition(a.Filename))
		h.Set(HeaderArtifactID, a.ID.String())
		if len(a.Dropped) > 0 {
			h.Set(HeaderDropped, strings.Join(a.Dropped, ","))
		}
		if a.NonFiniteSamples > 0 {
			h.Set(HeaderNonFinite, strconv.Itoa(a.NonFiniteSamples))
		}
		return c.Blob(http.StatusOK, a.MIMEType, a.Content)
	})
	ctl := export.New(sink, export.Options{
		Tool:    s.cfg.ToolName,
		LUTSize: s.cfg.LUTSize,
		Logger:  s.log,
	})

	_, err := ctl.Export(c.Request().Context(), export.Request{
		Params:    p,
		Mode:      mode,
		Target:    preset.Target(body.Target),
		ImageName: body.ImageName,
		LUTSize:   body.LUTSize,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, export.ErrInvalidRequest), errors.Is(err, preset.ErrInvalidTarget):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "request canceled")
	default:
		s.log.Error("export failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "export failed")
	}
}

// contentDisposition names an attachment. A name outside printable ASCII gets
// an ASCII fallback in filename and the exact name in an RFC 5987 filename*.
func contentDisposition(name string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)

	v := fmt.Sprintf("attachment; filename=\"%s\"", fallback)
	if fallback != name {
		v += "; filename*=UTF-8''" + extValue(name)
	}
	return v
}

// extValue percent-encodes every byte outside the RFC 5987 attr-char set.
func extValue(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			strings.IndexByte("!#$&+-.^_`|~", c) >= 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
