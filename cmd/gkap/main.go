package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"

	"github.com/GlintPay/gkap/api"
	"github.com/GlintPay/gkap/client"
	"github.com/GlintPay/gkap/config"
	"github.com/GlintPay/gkap/execauth"
	"github.com/GlintPay/gkap/health"
	"github.com/GlintPay/gkap/kubeconfig"
	"github.com/GlintPay/gkap/logging"
)

const serviceName = "gkap"

var envConfig = config.Configuration{}

func main() {
	if err := env.Parse(&envConfig); err != nil {
		log.Fatal().Msgf("Configuration loading failed: %+v", err)
	}

	appConfig := config.ApplicationConfiguration{}
	readConfig(envConfig.ApplicationConfigFileYmlPath, &appConfig)

	logging.Setup(os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	////////////////////////////////////////////

	clusterClient, err := bootstrapClusterClient(appConfig.Kubernetes)
	if err != nil {
		log.Fatal().Stack().Err(err).Msg("Cluster client bootstrap failed")
	}

	////////////////////////////////////////////

	traceShutdown, e := setupTracing(ctx, appConfig)
	if e != nil {
		log.Fatal().Stack().Err(e).Msg("Trace setup failed")
	}
	defer traceShutdown()

	router := setupRouter(appConfig, clusterClient)
	setupHealthCheck(router, clusterClient)

	////////////////////////////////////////////

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		if appConfig.Server.Port == 0 {
			appConfig.Server.Port = 80
		}
		port := fmt.Sprintf(":%d", appConfig.Server.Port)
		log.Info().Msgf("Listening on %s", port)
		if err := http.ListenAndServe(port, router); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	err = g.Wait()
	if err != nil {
		log.Fatal().Stack().Err(err).Msg("startup failed")
	}
}

// bootstrapClusterClient runs the full pipeline: load the document, resolve
// the current context, materialize any exec credential, and build the client.
func bootstrapClusterClient(cfg config.KubernetesConfig) (*client.Client, error) {
	if cfg.Kubeconfig == "" {
		return nil, fmt.Errorf("kubernetes.kubeconfig must be set")
	}

	document, err := kubeconfig.Load(cfg.Kubeconfig)
	if err != nil {
		return nil, err
	}

	resolved, err := document.Resolve()
	if err != nil {
		return nil, err
	}

	auth, invoked, err := execauth.New().Resolve(*resolved.Auth)
	if err != nil {
		return nil, err
	}
	if invoked {
		api.PluginInvocations.Inc()
		log.Info().Str("command", resolved.Auth.Exec.Command).Msg("Exec credential plugin resolved")
		resolved = &kubeconfig.ResolvedContext{
			Namespace: resolved.Namespace,
			Auth:      &auth,
			Cluster:   resolved.Cluster,
		}
	}

	var opts []client.Opt
	if cfg.RequestTimeoutSeconds > 0 {
		opts = append(opts, client.WithTimeout(time.Duration(cfg.RequestTimeoutSeconds)*time.Second))
	}

	clusterClient, err := client.New(resolved, opts...)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("server", clusterClient.Server()).
		Str("namespace", clusterClient.Namespace()).
		Str("authKind", string(clusterClient.Auth().Kind)).
		Msg("Resolved cluster context")

	return clusterClient, nil
}

func readConfig(filePath string, config *config.ApplicationConfiguration) {
	yamlFile, err := os.ReadFile(filePath)
	if err == nil {
		log.Debug().Msgf("Loading YAML config from %s", filePath)
		err = yaml.Unmarshal(yamlFile, config)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("Unmarshal")
		}
	} else {
		log.Printf("No config file found: %s", filePath)
	}
}

var emptyShutdown = func() {}

func setupTracing(ctx context.Context, config config.ApplicationConfiguration) (func(), error) {
	if !config.Tracing.Enabled {
		return emptyShutdown, nil
	}

	if config.Tracing.Endpoint == "" {
		return emptyShutdown, fmt.Errorf("missing tracing endpoint")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		log.Fatal().Stack().Err(err).Msg("failed to create resource")
	}

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(config.Tracing.Endpoint),
	)
	if err != nil {
		return emptyShutdown, fmt.Errorf("failed to create trace exporter %v", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.Tracing.SamplerFraction)),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Info().Msgf("OpenTelemetry export is enabled, to: %s", config.Tracing.Endpoint)

	return func() {
		if err = tracerProvider.Shutdown(ctx); err != nil {
			log.Fatal().Stack().Err(err).Msg("failed to shutdown TracerProvider")
		}
	}, nil
}

func setupRouter(config config.ApplicationConfiguration, clusterClient *client.Client) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)

	routing := api.Routing{
		ServerName:   serviceName,
		ParentRouter: router,

		Client:    clusterClient,
		AppConfig: config,
	}

	router.Route("/", func(r chi.Router) {
		if e := routing.SetupFunctionalRoutes(r); e != nil {
			log.Fatal().Stack().Err(e).Msg("route setup failed")
		}
	})

	if len(config.Prometheus.Path) > 0 {
		log.Info().Msgf("Registering metrics endpoint at: %s", config.Prometheus.Path)
		router.Handle(config.Prometheus.Path, promhttp.Handler())
	}

	return router
}

func setupHealthCheck(router *chi.Mux, clusterClient *client.Client) {
	opts := []health.Opt{health.WithChiMux(router)}

	if addr := dialAddress(clusterClient.Server()); addr != "" {
		opts = append(opts, health.WithReadinessCheck("cluster-reachable", healthcheck.TCPDialCheck(addr, 2*time.Second)))
	}

	healthChk := health.New(opts...)
	healthChk.StartListening()
}

func dialAddress(server string) string {
	parsed, err := url.Parse(server)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Port() != "" {
		return parsed.Host
	}
	if parsed.Scheme == "http" {
		return parsed.Host + ":80"
	}
	return parsed.Host + ":443"
}
