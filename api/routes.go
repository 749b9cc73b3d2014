package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/riandyrn/otelchi"
	"github.com/rs/zerolog/log"

	"github.com/GlintPay/gkap/client"
	"github.com/GlintPay/gkap/config"
	gotel "github.com/GlintPay/gkap/otel"
)

const (
	applicationJSON = "application/json"
)

type Routing struct {
	ServerName   string
	ParentRouter chi.Router

	AppConfig config.ApplicationConfiguration
	Client    *client.Client
}

func (rtr *Routing) SetupFunctionalRoutes(r chi.Router) error {
	if e := rtr.enableOTelForRouter(r); e != nil {
		return e
	}

	r.Get("/context", rtr.contextHandler())
	r.Get("/proxy/*", rtr.proxyHandler())
	r.Post("/proxy/*", rtr.proxyHandler())

	return nil
}

func (rtr *Routing) contextHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response := ContextResponse{
			Server:    rtr.Client.Server(),
			Namespace: rtr.Client.Namespace(),
			AuthKind:  string(rtr.Client.Auth().Kind),
		}

		w.Header().Set("Content-Type", applicationJSON)
		if e := json.NewEncoder(w).Encode(response); e != nil {
			log.Error().Err(e).Msg("Response encoding failed")
		}
	}
}

func (rtr *Routing) proxyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upstreamPath := chi.URLParam(r, "*")
		if r.URL.RawQuery != "" {
			upstreamPath += "?" + r.URL.RawQuery
		}

		ctx := r.Context()
		if rtr.AppConfig.Tracing.Enabled {
			tracedCtx, span := gotel.GetTracer(ctx).Start(ctx, "proxyRequest", gotel.ServerOptions)
			defer span.End()
			ctx = tracedCtx
		}

		var req *http.Request
		var err error
		switch r.Method {
		case http.MethodPost:
			req, err = rtr.Client.Post(ctx, upstreamPath, r.Body)
		default:
			req, err = rtr.Client.Get(ctx, upstreamPath)
		}
		if err != nil {
			rtr.writeError(w, http.StatusInternalServerError, err)
			return
		}

		if contentType := r.Header.Get("Content-Type"); contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := rtr.Client.Do(req)
		if err != nil {
			ProxiedRequests.WithLabelValues(r.Method, "error").Inc()
			rtr.writeError(w, http.StatusBadGateway, err)
			return
		}
		defer func() {
			if e := resp.Body.Close(); e != nil {
				log.Error().Err(e).Msg("Closing upstream body failed")
			}
		}()

		ProxiedRequests.WithLabelValues(r.Method, strconv.Itoa(resp.StatusCode)).Inc()

		if contentType := resp.Header.Get("Content-Type"); contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(resp.StatusCode)
		if _, e := io.Copy(w, resp.Body); e != nil {
			log.Error().Err(e).Msg("Streaming upstream response failed")
		}
	}
}

func (rtr *Routing) writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)

	info := map[string]interface{}{"message": err.Error()}
	_ = json.NewEncoder(w).Encode(info)

	log.Error().Err(err).Stack().Msg("Response error")
}

func (rtr *Routing) enableOTelForRouter(r chi.Router) error {
	if !rtr.AppConfig.Tracing.Enabled {
		return nil
	}

	if rtr.ServerName == "" || rtr.ParentRouter == nil {
		return errors.New("OTel not configured")
	}

	r.Use(otelchi.Middleware(rtr.ServerName, otelchi.WithChiRoutes(rtr.ParentRouter)))

	log.Info().Msgf("OpenTelemetry trace is enabled")
	return nil
}
