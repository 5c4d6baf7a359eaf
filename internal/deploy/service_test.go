package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitebuilder/internal/assemble"
	"github.com/goliatone/go-sitebuilder/internal/hosting"
	"github.com/goliatone/go-sitebuilder/internal/inject"
	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
	"github.com/goliatone/go-sitebuilder/internal/runtimeconfig"
)

// fakeClient implements hosting.Client in memory. Error fields force specific
// strategies to fail so tests can walk the fallback chain.
type fakeClient struct {
	mu sync.Mutex

	sites        map[string]*hosting.Site
	siteSeq      int
	createdNames []string
	getSiteCalls int

	archiveErrs []error
	deployErr   error
	rejectSites map[string]error
	required    []string
	uploads     []string
	deploySeq   int

	pollStates []hosting.DeployState
	pollCalls  int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		sites:      map[string]*hosting.Site{},
		pollStates: []hosting.DeployState{hosting.DeployBuilding, hosting.DeployReady},
	}
}

func (f *fakeClient) CreateSite(_ context.Context, name string) (*hosting.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.siteSeq++
	site := &hosting.Site{
		ID:   fmt.Sprintf("site-%d", f.siteSeq),
		Name: name,
		URL:  fmt.Sprintf("https://%s.pages.example.app", name),
	}
	f.sites[site.ID] = site
	f.createdNames = append(f.createdNames, name)
	return site, nil
}

func (f *fakeClient) GetSite(_ context.Context, siteID string) (*hosting.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getSiteCalls++
	site, ok := f.sites[siteID]
	if !ok {
		return nil, &hosting.APIError{StatusCode: 404, Status: "404 Not Found", Endpoint: "/sites/" + siteID}
	}
	return site, nil
}

func (f *fakeClient) UpdateSite(_ context.Context, siteID string, update hosting.SiteUpdate) (*hosting.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	site, ok := f.sites[siteID]
	if !ok {
		return nil, &hosting.APIError{StatusCode: 404, Status: "404 Not Found"}
	}
	if update.CustomDomain != nil {
		site.CustomDomain = *update.CustomDomain
	}
	if update.Aliases != nil {
		site.Aliases = update.Aliases
	}
	if update.ForceSSL != nil {
		site.ForceSSL = *update.ForceSSL
	}
	return site, nil
}

func (f *fakeClient) ListSites(context.Context) ([]*hosting.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sites := make([]*hosting.Site, 0, len(f.sites))
	for _, site := range f.sites {
		sites = append(sites, site)
	}
	return sites, nil
}

func (f *fakeClient) CreateDeploy(_ context.Context, siteID string, digests map[string]string) (*hosting.Deployment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.rejectSites[siteID]; err != nil {
		return nil, err
	}
	if f.deployErr != nil {
		return nil, f.deployErr
	}
	if len(digests) == 0 {
		return nil, &hosting.APIError{StatusCode: 400, Status: "400 Bad Request", Message: "files required"}
	}
	// The host asks for uploads by digest, not by path.
	required := make([]string, 0, len(f.required))
	for _, path := range f.required {
		digest, ok := digests[path]
		if !ok {
			return nil, &hosting.APIError{StatusCode: 400, Status: "400 Bad Request", Message: "unknown file " + path}
		}
		required = append(required, digest)
	}
	f.deploySeq++
	return &hosting.Deployment{
		ID:       fmt.Sprintf("deploy-%d", f.deploySeq),
		SiteID:   siteID,
		State:    hosting.DeployQueued,
		Required: required,
	}, nil
}

func (f *fakeClient) CreateArchiveDeploy(_ context.Context, siteID string, archive []byte) (*hosting.Deployment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.rejectSites[siteID]; err != nil {
		return nil, err
	}
	if len(f.archiveErrs) > 0 {
		err := f.archiveErrs[0]
		f.archiveErrs = f.archiveErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(archive) == 0 {
		return nil, &hosting.APIError{StatusCode: 400, Status: "400 Bad Request", Message: "empty archive"}
	}
	f.deploySeq++
	return &hosting.Deployment{
		ID:     fmt.Sprintf("deploy-%d", f.deploySeq),
		SiteID: siteID,
		State:  hosting.DeployQueued,
	}, nil
}

func (f *fakeClient) UploadFile(_ context.Context, deployID, path string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, path)
	return nil
}

func (f *fakeClient) GetDeploy(_ context.Context, deployID string) (*hosting.Deployment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := f.pollStates[len(f.pollStates)-1]
	if f.pollCalls < len(f.pollStates) {
		state = f.pollStates[f.pollCalls]
	}
	f.pollCalls++

	deployment := &hosting.Deployment{ID: deployID, State: state}
	switch state {
	case hosting.DeployReady:
		deployment.URL = "https://deploy-ready.pages.example.app"
	case hosting.DeployError:
		deployment.ErrorMessage = "build command exited 1"
	}
	return deployment, nil
}

func (f *fakeClient) CreateDNSZone(context.Context, string) (*hosting.DNSZone, error) {
	return nil, errors.New("not supported by fake")
}

func (f *fakeClient) CreateDNSRecord(context.Context, string, hosting.DNSRecord) (*hosting.DNSRecord, error) {
	return nil, errors.New("not supported by fake")
}

func (f *fakeClient) ProvisionCertificate(context.Context, string) (*hosting.Certificate, error) {
	return nil, errors.New("not supported by fake")
}

func (f *fakeClient) GetCertificate(context.Context, string) (*hosting.Certificate, error) {
	return nil, errors.New("not supported by fake")
}

type deployHarness struct {
	svc     Service
	pages   pagemodel.Service
	client  *fakeClient
	records RecordRepository
	pageID  uuid.UUID
	cfg     runtimeconfig.DeployConfig
}

func newDeployHarness(t *testing.T) *deployHarness {
	t.Helper()

	clock := func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	pages := pagemodel.NewService(
		pagemodel.NewMemoryPageRepository(),
		pagemodel.NewMemoryComponentRepository(),
		pagemodel.NewMemoryVariationRepository(),
		pagemodel.WithClock(clock),
	)

	ctx := context.Background()
	if _, err := pages.RegisterVariation(ctx, pagemodel.RegisterVariationInput{
		Type:           "hero",
		Variation:      1,
		Template:       `<section class="hero"><h1>{{content.headline}}</h1></section>`,
		RequiredFields: []string{"headline"},
	}); err != nil {
		t.Fatalf("register variation: %v", err)
	}

	page, err := pages.CreatePage(ctx, pagemodel.CreatePageInput{Slug: "spring-launch", Title: "Spring Launch"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if _, err := pages.AddComponent(ctx, pagemodel.AddComponentInput{
		PageID:     page.ID,
		OrderIndex: 1,
		Type:       "hero",
		Variation:  1,
		Content:    map[string]any{"headline": "Spring Launch"},
	}); err != nil {
		t.Fatalf("add component: %v", err)
	}

	client := newFakeClient()
	records := NewMemoryRecordRepository()
	cfg := runtimeconfig.DeployConfig{
		MaxRetries:     3,
		RetryBackoff:   time.Second,
		PollInterval:   5 * time.Second,
		PollTimeout:    30 * time.Second,
		MaxSiteNameLen: 48,
		ArchiveDir:     t.TempDir(),
	}

	assembler := assemble.New(inject.NewEngine(), assemble.WithClock(clock))
	svc := NewService(client, pages, assembler, records, cfg,
		WithClock(clock),
		WithSleep(func(context.Context, time.Duration) error { return nil }),
	)

	return &deployHarness{
		svc:     svc,
		pages:   pages,
		client:  client,
		records: records,
		pageID:  page.ID,
		cfg:     cfg,
	}
}

func (h *deployHarness) pageStatus(t *testing.T) pagemodel.Status {
	t.Helper()
	model, err := h.pages.GetPageWithComponents(context.Background(), h.pageID)
	if err != nil {
		t.Fatalf("reload page: %v", err)
	}
	return model.Page.Status
}

func TestDeployFirstPublishUsesArchiveStrategy(t *testing.T) {
	h := newDeployHarness(t)

	result, err := h.svc.Deploy(context.Background(), h.pageID)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}

	if result.Strategy != StrategyArchive {
		t.Errorf("expected archive strategy, got %q", result.Strategy)
	}
	if result.URL == "" {
		t.Error("expected a deploy URL")
	}
	if len(h.client.createdNames) != 1 {
		t.Fatalf("expected one site creation, got %v", h.client.createdNames)
	}
	if name := h.client.createdNames[0]; !strings.HasPrefix(name, "spring-launch-") {
		t.Errorf("expected site name derived from the slug, got %q", name)
	}
	if got := h.pageStatus(t); got != pagemodel.StatusPublished {
		t.Errorf("expected published status, got %q", got)
	}

	model, err := h.pages.GetPageWithComponents(context.Background(), h.pageID)
	if err != nil {
		t.Fatalf("reload page: %v", err)
	}
	if model.Page.SiteID == nil || *model.Page.SiteID != result.SiteID {
		t.Errorf("expected site id %q persisted on the page, got %v", result.SiteID, model.Page.SiteID)
	}

	attempts, err := h.records.ListByPage(context.Background(), h.pageID)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("expected one deployment record, got %d", len(attempts))
	}
	if attempts[0].State != StateReady || attempts[0].Strategy != StrategyArchive {
		t.Errorf("expected ready archive record, got state=%q strategy=%q", attempts[0].State, attempts[0].Strategy)
	}
}

func TestDeployReusesExistingSite(t *testing.T) {
	h := newDeployHarness(t)
	ctx := context.Background()

	first, err := h.svc.Deploy(ctx, h.pageID)
	if err != nil {
		t.Fatalf("first deploy: %v", err)
	}
	h.client.pollCalls = 0

	second, err := h.svc.Deploy(ctx, h.pageID)
	if err != nil {
		t.Fatalf("second deploy: %v", err)
	}

	if second.SiteID != first.SiteID {
		t.Errorf("expected the same site, got %q then %q", first.SiteID, second.SiteID)
	}
	if len(h.client.createdNames) != 1 {
		t.Errorf("expected no additional site creation, got %v", h.client.createdNames)
	}
	if h.client.getSiteCalls == 0 {
		t.Error("expected the second deploy to look up the existing site")
	}
}

func TestDeployReplacesRejectedSite(t *testing.T) {
	h := newDeployHarness(t)
	ctx := context.Background()

	first, err := h.svc.Deploy(ctx, h.pageID)
	if err != nil {
		t.Fatalf("first deploy: %v", err)
	}

	h.client.rejectSites = map[string]error{
		first.SiteID: &hosting.APIError{StatusCode: 403, Status: "403 Forbidden", Message: "site locked"},
	}
	h.client.pollCalls = 0

	second, err := h.svc.Deploy(ctx, h.pageID)
	if err != nil {
		t.Fatalf("expected the publish to land on a replacement site, got %v", err)
	}
	if second.SiteID == first.SiteID {
		t.Fatalf("expected a fresh site, still on %q", first.SiteID)
	}
	if second.Strategy != StrategyArchive {
		t.Errorf("expected archive strategy on the replacement, got %q", second.Strategy)
	}
	if len(h.client.createdNames) != 2 {
		t.Fatalf("expected a replacement site creation, got %v", h.client.createdNames)
	}
	if name := h.client.createdNames[1]; !strings.Contains(name, "-r") {
		t.Errorf("expected a derived replacement name, got %q", name)
	}

	model, err := h.pages.GetPageWithComponents(ctx, h.pageID)
	if err != nil {
		t.Fatalf("reload page: %v", err)
	}
	if model.Page.SiteID == nil || *model.Page.SiteID != second.SiteID {
		t.Errorf("expected the replacement site id persisted, got %v", model.Page.SiteID)
	}
	if got := h.pageStatus(t); got != pagemodel.StatusPublished {
		t.Errorf("expected published status, got %q", got)
	}

	attempts, err := h.records.ListByPage(ctx, h.pageID)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(attempts) != 4 {
		t.Fatalf("expected four attempts, got %d", len(attempts))
	}
	if attempts[1].State != StateError || attempts[1].Strategy != StrategyArchive {
		t.Errorf("expected the rejected archive attempt recorded, got state=%q strategy=%q", attempts[1].State, attempts[1].Strategy)
	}
	if attempts[2].State != StateError || attempts[2].Strategy != StrategyDirect {
		t.Errorf("expected the rejected direct attempt recorded, got state=%q strategy=%q", attempts[2].State, attempts[2].Strategy)
	}
	if attempts[3].State != StateReady || attempts[3].Strategy != StrategyArchive {
		t.Errorf("expected a ready attempt on the replacement, got state=%q strategy=%q", attempts[3].State, attempts[3].Strategy)
	}
}

func TestDeployFallsBackToDirectUpload(t *testing.T) {
	h := newDeployHarness(t)
	h.client.archiveErrs = []error{
		&hosting.APIError{StatusCode: 422, Status: "422 Unprocessable Entity", Message: "archive builds disabled"},
	}
	h.client.required = []string{"index.html", "styles.css"}

	result, err := h.svc.Deploy(context.Background(), h.pageID)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if result.Strategy != StrategyDirect {
		t.Fatalf("expected direct upload strategy, got %q", result.Strategy)
	}
	if len(h.client.uploads) != 2 {
		t.Errorf("expected only the required files uploaded, got %v", h.client.uploads)
	}

	attempts, err := h.records.ListByPage(context.Background(), h.pageID)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected an attempt per strategy, got %d", len(attempts))
	}
	if attempts[0].State != StateError || attempts[0].Strategy != StrategyArchive {
		t.Errorf("expected failed archive attempt first, got state=%q strategy=%q", attempts[0].State, attempts[0].Strategy)
	}
	if attempts[1].State != StateReady || attempts[1].Strategy != StrategyDirect {
		t.Errorf("expected ready direct attempt second, got state=%q strategy=%q", attempts[1].State, attempts[1].Strategy)
	}
}

func TestDeployUploadsNothingWhenContentUnchanged(t *testing.T) {
	h := newDeployHarness(t)
	h.client.archiveErrs = []error{
		&hosting.APIError{StatusCode: 422, Status: "422 Unprocessable Entity", Message: "archive builds disabled"},
	}
	h.client.required = nil

	result, err := h.svc.Deploy(context.Background(), h.pageID)
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if result.Strategy != StrategyDirect {
		t.Fatalf("expected direct upload strategy, got %q", result.Strategy)
	}
	if len(h.client.uploads) != 0 {
		t.Errorf("expected zero uploads when the host has every digest, got %v", h.client.uploads)
	}
}

func TestDeployManualFallbackWritesArchive(t *testing.T) {
	h := newDeployHarness(t)
	blocked := &hosting.APIError{StatusCode: 403, Status: "403 Forbidden", Message: "cross-origin deploy blocked"}
	h.client.archiveErrs = []error{blocked}
	h.client.deployErr = blocked

	result, err := h.svc.Deploy(context.Background(), h.pageID)
	if !errors.Is(err, ErrManualUploadRequired) {
		t.Fatalf("expected manual upload error, got %v", err)
	}
	if result == nil || result.Strategy != StrategyManual {
		t.Fatalf("expected a manual result, got %+v", result)
	}
	if result.ArchivePath == "" {
		t.Fatal("expected an archive path")
	}
	if _, statErr := os.Stat(result.ArchivePath); statErr != nil {
		t.Fatalf("expected archive on disk: %v", statErr)
	}
	if got := h.pageStatus(t); got != pagemodel.StatusError {
		t.Errorf("expected error status, got %q", got)
	}

	attempts, listErr := h.records.ListByPage(context.Background(), h.pageID)
	if listErr != nil {
		t.Fatalf("list records: %v", listErr)
	}
	if len(attempts) != 3 {
		t.Fatalf("expected three attempts, got %d", len(attempts))
	}
	last := attempts[2]
	if last.Strategy != StrategyManual || last.State != StateError {
		t.Errorf("expected failed manual record, got state=%q strategy=%q", last.State, last.Strategy)
	}
	if !strings.Contains(last.ErrorMessage, "manual upload required") {
		t.Errorf("expected manual upload message, got %q", last.ErrorMessage)
	}
}

func TestDeployBuildFailureFallsBackThenSurfaces(t *testing.T) {
	h := newDeployHarness(t)
	h.client.pollStates = []hosting.DeployState{hosting.DeployError}
	h.client.deployErr = &hosting.APIError{StatusCode: 403, Status: "403 Forbidden"}

	result, err := h.svc.Deploy(context.Background(), h.pageID)
	if !errors.Is(err, ErrManualUploadRequired) {
		t.Fatalf("expected manual fallback after build failure, got %v", err)
	}
	if result == nil || result.ArchivePath == "" {
		t.Fatal("expected the manual archive to be produced")
	}
}

func TestDeployPollTimeoutAborts(t *testing.T) {
	h := newDeployHarness(t)
	h.client.pollStates = []hosting.DeployState{hosting.DeployBuilding}

	_, err := h.svc.Deploy(context.Background(), h.pageID)
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected a timeout error, got %v", err)
	}
	if !strings.Contains(err.Error(), "still running") {
		t.Errorf("expected a check-later message, got %q", err.Error())
	}
	if got := h.pageStatus(t); got != pagemodel.StatusError {
		t.Errorf("expected error status, got %q", got)
	}
}

func TestDeployRetriesTransientArchiveFailures(t *testing.T) {
	h := newDeployHarness(t)
	h.client.archiveErrs = []error{
		&hosting.APIError{StatusCode: 503, Status: "503 Service Unavailable"},
		&hosting.APIError{StatusCode: 502, Status: "502 Bad Gateway"},
		nil,
	}

	result, err := h.svc.Deploy(context.Background(), h.pageID)
	if err != nil {
		t.Fatalf("expected transient failures to be retried, got %v", err)
	}
	if result.Strategy != StrategyArchive {
		t.Errorf("expected the archive strategy to succeed after retries, got %q", result.Strategy)
	}
}

func TestDeployUnknownPage(t *testing.T) {
	h := newDeployHarness(t)

	_, err := h.svc.Deploy(context.Background(), uuid.New())
	var notFound *pagemodel.PageNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected page not found, got %v", err)
	}
	if len(h.client.createdNames) != 0 {
		t.Error("expected no network activity for an unknown page")
	}
}
