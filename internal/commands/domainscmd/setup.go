package domainscmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-sitebuilder/internal/commands"
	"github.com/goliatone/go-sitebuilder/internal/domains"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

const (
	setupDomainMessageType  = "sitebuilder.domains.setup"
	verifyDomainMessageType = "sitebuilder.domains.verify"
)

// SetupDomainCommand attaches a custom domain to a deployed site.
type SetupDomainCommand struct {
	SiteID string `json:"site_id"`
	Domain string `json:"domain"`
}

// Type implements command.Message.
func (SetupDomainCommand) Type() string { return setupDomainMessageType }

// Validate ensures the command carries a site and a hostname.
func (m SetupDomainCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.SiteID) == "" {
		errs["site_id"] = validation.NewError("sitebuilder.domains.setup.site_id_required", "site_id is required")
	}
	if strings.TrimSpace(m.Domain) == "" {
		errs["domain"] = validation.NewError("sitebuilder.domains.setup.domain_required", "domain is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetupDomainHandler runs domain setup from dispatched messages.
type SetupDomainHandler struct {
	inner *commands.Handler[SetupDomainCommand]
}

// NewSetupDomainHandler constructs a handler wired to the domain manager.
func NewSetupDomainHandler(service domains.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SetupDomainCommand]) *SetupDomainHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SetupDomainCommand) error {
		result, err := service.SetupDomain(ctx, msg.SiteID, msg.Domain)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"site_id":      msg.SiteID,
			"domain":       result.Domain,
			"strategy":     string(result.Strategy),
			"verification": string(result.Verification),
		}).Info("domains.setup.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SetupDomainCommand]{
		commands.WithLogger[SetupDomainCommand](baseLogger),
		commands.WithOperation[SetupDomainCommand]("domains.setup"),
		commands.WithMessageFields(func(msg SetupDomainCommand) map[string]any {
			fields := map[string]any{}
			if msg.SiteID != "" {
				fields["site_id"] = msg.SiteID
			}
			if msg.Domain != "" {
				fields["domain"] = msg.Domain
			}
			if len(fields) == 0 {
				return nil
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SetupDomainCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SetupDomainHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SetupDomainCommand].Execute.
func (h *SetupDomainHandler) Execute(ctx context.Context, msg SetupDomainCommand) error {
	return h.inner.Execute(ctx, msg)
}

// VerifyDomainCommand checks where a configured domain sits in the
// verification machine.
type VerifyDomainCommand struct {
	SiteID string `json:"site_id"`
	Domain string `json:"domain"`
}

// Type implements command.Message.
func (VerifyDomainCommand) Type() string { return verifyDomainMessageType }

// Validate ensures the command carries a site and a hostname.
func (m VerifyDomainCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.SiteID) == "" {
		errs["site_id"] = validation.NewError("sitebuilder.domains.verify.site_id_required", "site_id is required")
	}
	if strings.TrimSpace(m.Domain) == "" {
		errs["domain"] = validation.NewError("sitebuilder.domains.verify.domain_required", "domain is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// VerifyDomainHandler runs domain verification from dispatched messages.
type VerifyDomainHandler struct {
	inner *commands.Handler[VerifyDomainCommand]
}

// NewVerifyDomainHandler constructs a handler wired to the domain manager.
func NewVerifyDomainHandler(service domains.Service, logger interfaces.Logger, opts ...commands.HandlerOption[VerifyDomainCommand]) *VerifyDomainHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg VerifyDomainCommand) error {
		status, err := service.VerifyDomain(ctx, msg.SiteID, msg.Domain)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"site_id": msg.SiteID,
			"domain":  status.Domain,
			"state":   string(status.State),
		}).Info("domains.verify.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[VerifyDomainCommand]{
		commands.WithLogger[VerifyDomainCommand](baseLogger),
		commands.WithOperation[VerifyDomainCommand]("domains.verify"),
		commands.WithTelemetry(commands.DefaultTelemetry[VerifyDomainCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &VerifyDomainHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[VerifyDomainCommand].Execute.
func (h *VerifyDomainHandler) Execute(ctx context.Context, msg VerifyDomainCommand) error {
	return h.inner.Execute(ctx, msg)
}
