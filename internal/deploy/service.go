package deploy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/assemble"
	"github.com/goliatone/go-sitebuilder/internal/hosting"
	"github.com/goliatone/go-sitebuilder/internal/identity"
	"github.com/goliatone/go-sitebuilder/internal/logging"
	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
	"github.com/goliatone/go-sitebuilder/internal/runtimeconfig"
	"github.com/goliatone/go-sitebuilder/pkg/interfaces"
)

// ErrManualUploadRequired is returned when every remote strategy is
// exhausted. The Result still carries the local archive path so the caller
// can upload by hand.
var ErrManualUploadRequired = errors.New("remote deploy unavailable, upload the archive manually")

// Service publishes pages. One Deploy call owns the whole pipeline: load,
// validate, assemble, resolve the remote site, run the strategy chain, and
// write results back to the store.
type Service interface {
	Deploy(ctx context.Context, pageID uuid.UUID) (*Result, error)
}

// ServiceOption configures the orchestrator.
type ServiceOption func(*service)

// WithLogger sets the orchestrator logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithSleep overrides the backoff/poll sleeper. Tests use this to observe
// waits without real delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) ServiceOption {
	return func(s *service) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// NewService wires the deployment orchestrator.
func NewService(
	client hosting.Client,
	pages pagemodel.Service,
	assembler *assemble.Assembler,
	records RecordRepository,
	cfg runtimeconfig.DeployConfig,
	opts ...ServiceOption,
) Service {
	s := &service{
		client:    client,
		pages:     pages,
		assembler: assembler,
		records:   records,
		cfg:       cfg,
		logger:    logging.NoOp(),
		now:       time.Now,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type service struct {
	client    hosting.Client
	pages     pagemodel.Service
	assembler *assemble.Assembler
	records   RecordRepository
	cfg       runtimeconfig.DeployConfig
	logger    interfaces.Logger
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

// Deploy publishes a page. Generation-time failures abort before any network
// call; remote failures walk the strategy chain. The page's site identifier
// is written only on full success, and status flips to published only then.
func (s *service) Deploy(ctx context.Context, pageID uuid.UUID) (*Result, error) {
	model, err := s.pages.GetPageWithComponents(ctx, pageID)
	if err != nil {
		return nil, err
	}

	assembled, err := s.assembler.Assemble(model)
	if err != nil {
		return nil, err
	}
	manifest := assembled.Manifest

	if err := s.pages.UpdatePageStatus(ctx, pageID, pagemodel.StatusPublishing); err != nil {
		return nil, err
	}

	result, err := s.deployManifest(ctx, model, manifest)
	if err != nil && !errors.Is(err, ErrManualUploadRequired) {
		if statusErr := s.pages.UpdatePageStatus(ctx, pageID, pagemodel.StatusError); statusErr != nil {
			s.logger.Error("status write-back failed", "page_id", pageID, "error", statusErr)
		}
		return nil, err
	}

	if err != nil {
		// Manual fallback: the page is not published, but the caller has an
		// archive and a deployment record.
		if statusErr := s.pages.UpdatePageStatus(ctx, pageID, pagemodel.StatusError); statusErr != nil {
			s.logger.Error("status write-back failed", "page_id", pageID, "error", statusErr)
		}
		return result, err
	}

	info := pagemodel.DeploymentInfo{
		SiteID:     result.SiteID,
		URL:        result.URL,
		DeployedAt: s.now(),
	}
	if err := s.pages.PersistDeploymentInfo(ctx, pageID, info); err != nil {
		return nil, err
	}
	if err := s.pages.UpdatePageStatus(ctx, pageID, pagemodel.StatusPublished); err != nil {
		return nil, err
	}

	s.logger.Info("page published",
		"page_id", pageID,
		"site_id", result.SiteID,
		"url", result.URL,
		"strategy", string(result.Strategy),
	)
	return result, nil
}

// deployManifest resolves the site and runs the remote strategy chain
// against it. When a reused site rejects the publish, the chain runs once
// more against a replacement site under a derived name before the local
// archive fallback. A page must never end undeployed while a fallback
// exists.
func (s *service) deployManifest(ctx context.Context, model *pagemodel.PageModel, manifest *assemble.FileManifest) (*Result, error) {
	retry := newRetryPolicy(s.cfg.MaxRetries, s.cfg.RetryBackoff, s.logger)
	retry.sleep = s.sleep

	site, reused, err := s.resolveSite(ctx, model, retry)
	if err != nil {
		return nil, err
	}

	archive, err := buildArchive(manifest)
	if err != nil {
		return nil, err
	}

	result, remoteErr := s.runRemoteStrategies(ctx, model, site, manifest, archive, retry)
	if remoteErr == nil {
		return result, nil
	}
	if errors.As(remoteErr, new(*TimeoutError)) {
		return nil, remoteErr
	}

	if reused {
		s.logger.Warn("existing site rejected publish, creating replacement",
			"page_id", model.Page.ID,
			"site_id", site.ID,
			"error", remoteErr.Error(),
		)

		attempts, listErr := s.records.ListByPage(ctx, model.Page.ID)
		if listErr != nil {
			return nil, listErr
		}
		replacement, createErr := s.createSite(ctx, derivedName(site.Name, len(attempts)+1, s.cfg.MaxSiteNameLen), retry)
		if createErr != nil {
			return s.manualArchive(ctx, model, site, archive, errors.Join(remoteErr, createErr))
		}
		site = replacement

		result, remoteErr = s.runRemoteStrategies(ctx, model, site, manifest, archive, retry)
		if remoteErr == nil {
			return result, nil
		}
		if errors.As(remoteErr, new(*TimeoutError)) {
			return nil, remoteErr
		}
	}

	return s.manualArchive(ctx, model, site, archive, remoteErr)
}

// resolveSite reuses the page's prior site when it still exists, otherwise
// creates a new one under the page's normalized name. The reused flag tells
// the caller a rejection may be site-specific and worth retrying on a
// replacement.
func (s *service) resolveSite(ctx context.Context, model *pagemodel.PageModel, retry *retryPolicy) (*hosting.Site, bool, error) {
	if model.Page.SiteID != nil && *model.Page.SiteID != "" {
		var site *hosting.Site
		err := retry.Do(ctx, "get site", func() error {
			var getErr error
			site, getErr = s.client.GetSite(ctx, *model.Page.SiteID)
			return getErr
		})
		if err == nil {
			return site, true, nil
		}
		if !hosting.IsNotFound(err) {
			return nil, false, err
		}
		s.logger.Warn("prior site vanished, creating a new one",
			"page_id", model.Page.ID,
			"site_id", *model.Page.SiteID,
		)
	}

	name := siteName(model.Page.Slug, model.Page.ID, s.cfg.MaxSiteNameLen)
	site, err := s.createSite(ctx, name, retry)
	return site, false, err
}

func (s *service) createSite(ctx context.Context, name string, retry *retryPolicy) (*hosting.Site, error) {
	var site *hosting.Site
	err := retry.Do(ctx, "create site", func() error {
		var createErr error
		site, createErr = s.client.CreateSite(ctx, name)
		return createErr
	})
	if err != nil {
		return nil, err
	}
	return site, nil
}

// runRemoteStrategies walks the remote fallback chain: server-side archive
// build, then direct content-addressed upload. Timeouts abort the chain so a
// still-running build is never shadowed by another attempt. Both strategies
// report a DeploymentRecord.
func (s *service) runRemoteStrategies(ctx context.Context, model *pagemodel.PageModel, site *hosting.Site, manifest *assemble.FileManifest, archive []byte, retry *retryPolicy) (*Result, error) {
	result, archiveErr := s.deployArchive(ctx, model, site, archive, retry)
	if archiveErr == nil {
		return result, nil
	}
	if errors.As(archiveErr, new(*TimeoutError)) {
		return nil, archiveErr
	}
	s.logger.Warn("archive build blocked, falling back to direct upload",
		"page_id", model.Page.ID,
		"error", archiveErr.Error(),
	)

	result, directErr := s.deployDirect(ctx, model, site, manifest, retry)
	if directErr == nil {
		return result, nil
	}
	if errors.As(directErr, new(*TimeoutError)) {
		return nil, directErr
	}
	s.logger.Warn("direct upload blocked",
		"page_id", model.Page.ID,
		"error", directErr.Error(),
	)

	return nil, errors.Join(archiveErr, directErr)
}

func (s *service) deployArchive(ctx context.Context, model *pagemodel.PageModel, site *hosting.Site, archive []byte, retry *retryPolicy) (*Result, error) {
	record, err := s.newRecord(ctx, model.Page.ID, site.ID, StrategyArchive)
	if err != nil {
		return nil, err
	}

	var deployment *hosting.Deployment
	err = retry.Do(ctx, "create archive deploy", func() error {
		var deployErr error
		deployment, deployErr = s.client.CreateArchiveDeploy(ctx, site.ID, archive)
		return deployErr
	})
	if err != nil {
		return nil, s.failRecord(ctx, record, err)
	}

	return s.awaitBuild(ctx, site, record, deployment)
}

func (s *service) deployDirect(ctx context.Context, model *pagemodel.PageModel, site *hosting.Site, manifest *assemble.FileManifest, retry *retryPolicy) (*Result, error) {
	record, err := s.newRecord(ctx, model.Page.ID, site.ID, StrategyDirect)
	if err != nil {
		return nil, err
	}

	var deployment *hosting.Deployment
	err = retry.Do(ctx, "create deploy", func() error {
		var deployErr error
		deployment, deployErr = s.client.CreateDeploy(ctx, site.ID, manifest.Digests())
		return deployErr
	})
	if err != nil {
		return nil, s.failRecord(ctx, record, err)
	}

	err = retry.Do(ctx, "upload files", func() error {
		return uploadRequired(ctx, s.client, deployment.ID, manifest, deployment.Required, 4)
	})
	if err != nil {
		return nil, s.failRecord(ctx, record, err)
	}

	s.logger.Debug("required files uploaded",
		"page_id", model.Page.ID,
		"deploy_id", deployment.ID,
		"uploaded", len(deployment.Required),
		"total", manifest.Len(),
	)

	return s.awaitBuild(ctx, site, record, deployment)
}

// awaitBuild advances the record to building, polls to a terminal state, and
// finalizes the record.
func (s *service) awaitBuild(ctx context.Context, site *hosting.Site, record *DeploymentRecord, deployment *hosting.Deployment) (*Result, error) {
	record, err := s.records.Transition(ctx, record.ID, StateBuilding, func(r *DeploymentRecord) {
		r.AttemptedAt = s.now()
	})
	if err != nil {
		return nil, err
	}

	final, err := pollDeploy(ctx, s.client, deployment.ID, s.cfg.PollInterval, s.cfg.PollTimeout, s.sleep)
	if err != nil {
		return nil, s.failRecord(ctx, record, err)
	}

	url := final.URL
	if url == "" {
		url = site.URL
	}

	record, err = s.records.Transition(ctx, record.ID, StateReady, func(r *DeploymentRecord) {
		r.URL = url
		r.AttemptedAt = s.now()
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		URL:      url,
		SiteID:   site.ID,
		RecordID: record.ID,
		Strategy: record.Strategy,
	}, nil
}

func (s *service) manualArchive(ctx context.Context, model *pagemodel.PageModel, site *hosting.Site, archive []byte, cause error) (*Result, error) {
	record, err := s.newRecord(ctx, model.Page.ID, site.ID, StrategyManual)
	if err != nil {
		return nil, err
	}

	path, err := writeArchiveFile(s.cfg.ArchiveDir, model.Page.ID, archive)
	if err != nil {
		return nil, s.failRecord(ctx, record, errors.Join(cause, err))
	}

	if _, err := s.records.Transition(ctx, record.ID, StateError, func(r *DeploymentRecord) {
		r.ErrorMessage = fmt.Sprintf("manual upload required: %v", cause)
		r.AttemptedAt = s.now()
	}); err != nil {
		return nil, err
	}

	return &Result{
		SiteID:      site.ID,
		RecordID:    record.ID,
		Strategy:    StrategyManual,
		ArchivePath: path,
	}, ErrManualUploadRequired
}

func (s *service) newRecord(ctx context.Context, pageID uuid.UUID, siteID string, strategy Strategy) (*DeploymentRecord, error) {
	attempts, err := s.records.ListByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return s.records.Create(ctx, &DeploymentRecord{
		ID:          identity.AttemptUUID(pageID, len(attempts)+1),
		PageID:      pageID,
		SiteID:      siteID,
		State:       StateQueued,
		Strategy:    strategy,
		CreatedAt:   now,
		AttemptedAt: now,
	})
}

// failRecord marks the attempt failed and returns the original error.
func (s *service) failRecord(ctx context.Context, record *DeploymentRecord, cause error) error {
	if _, err := s.records.Transition(ctx, record.ID, StateError, func(r *DeploymentRecord) {
		r.ErrorMessage = cause.Error()
		r.AttemptedAt = s.now()
	}); err != nil {
		s.logger.Error("record write failed", "record_id", record.ID, "error", err)
	}
	return cause
}
