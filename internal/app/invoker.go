package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/netapp-lib/webservice-go/internal/config"
	"github.com/netapp-lib/webservice-go/internal/logger"
	"github.com/netapp-lib/webservice-go/pkg/profiles"
	"github.com/netapp-lib/webservice-go/pkg/webservice"
)

// Invoker performs a single configured web service call. It resolves the
// connection from a named profile or from the ws_* settings, builds the
// client, and writes the raw response to an output stream.
type Invoker struct {
	cfg     *config.Config
	client  *webservice.Client
	headers map[string]string
	log     logger.Logger
}

// NewInvoker builds an invoker runtime from config.
func NewInvoker(cfg *config.Config, log logger.Logger) (*Invoker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	clientCfg := webservice.Config{
		Scheme:      cfg.Scheme,
		Host:        cfg.Host,
		Port:        cfg.Port,
		ServicePath: cfg.ServicePath,
		Username:    cfg.Username,
		Password:    cfg.Password,
	}
	evaluatorName := cfg.ResponseEvaluator
	var headers map[string]string

	if profileID := strings.TrimSpace(cfg.Profile); profileID != "" {
		reg, err := profiles.LoadRegistry(cfg.ProfilesFile)
		if err != nil {
			return nil, fmt.Errorf("load profiles registry: %w", err)
		}
		p, ok := reg.ByID(profileID)
		if !ok {
			return nil, fmt.Errorf("profile %q not found in %s", profileID, cfg.ProfilesFile)
		}
		clientCfg = p.ClientConfig()
		if p.Evaluator != "" {
			evaluatorName = p.Evaluator
		}
		headers = p.Headers
		log.InfoObj("profile loaded", "profile_meta", map[string]any{
			"id":        p.ID,
			"host":      p.Host,
			"evaluator": evaluatorName,
		})
	}

	evaluator, err := webservice.DefaultEvaluators().EvaluatorFor(evaluatorName)
	if err != nil {
		return nil, fmt.Errorf("resolve response evaluator: %w", err)
	}

	client, err := webservice.New(clientCfg,
		webservice.WithLogger(log),
		webservice.WithEvaluator(evaluator),
	)
	if err != nil {
		return nil, fmt.Errorf("init web service client: %w", err)
	}
	log.InfoObj("web service client ready", "client_meta", map[string]any{
		"endpoint":  client.Endpoint(),
		"evaluator": evaluatorName,
	})

	return &Invoker{
		cfg:     cfg,
		client:  client,
		headers: headers,
		log:     log,
	}, nil
}

// Run performs the configured call and writes the status line and body to out.
func (i *Invoker) Run(ctx context.Context, out io.Writer) error {
	if i == nil || i.client == nil {
		return fmt.Errorf("invoker is not initialized")
	}

	start := time.Now()
	resp, err := i.client.Invoke(ctx, webservice.Request{
		Method:    i.cfg.RequestMethod,
		URL:       i.cfg.RequestURL,
		Headers:   i.headers,
		Timeout:   i.cfg.RequestTimeout,
		VerifyTLS: i.cfg.RequestVerifyTLS,
	})
	if err != nil {
		return err
	}
	i.log.InfoObj("invocation completed", "invoke_meta", map[string]any{
		"status":     resp.StatusCode(),
		"bytes":      len(resp.Body()),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if _, err := fmt.Fprintf(out, "%s\n", resp.Status()); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	if _, err := out.Write(resp.Body()); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}
