package assemble

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-sitebuilder/internal/pagemodel"
)

// canonicalResolver builds absolute URLs for the published site. Deployed
// pages are served from the site root, with the slug route kept for pages
// published under a shared domain.
type canonicalResolver struct {
	manager *urlkit.RouteManager
	baseURL string
}

func newCanonicalResolver(baseURL string) *canonicalResolver {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return &canonicalResolver{}
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "site",
				BaseURL: baseURL,
				Paths: map[string]string{
					"root": "/",
					"page": "/:slug",
				},
			},
		},
	})
	return &canonicalResolver{manager: manager, baseURL: baseURL}
}

// Canonical returns the canonical URL for the page. Each deployed site hosts
// one page at its root.
func (r *canonicalResolver) Canonical(page *pagemodel.PageDefinition) (url string) {
	if r == nil || r.manager == nil {
		return ""
	}
	// Group lookup panics when the group is missing.
	defer func() {
		if rec := recover(); rec != nil {
			url = r.baseURL
		}
	}()

	built, err := r.manager.Group("site").Builder("root").Build()
	if err != nil {
		return r.baseURL
	}
	return built
}

// Absolute resolves a possibly relative asset path against the site base.
func (r *canonicalResolver) Absolute(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if r == nil || r.baseURL == "" {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.baseURL + path
}

// renderHead emits the document head: charset/viewport, SEO meta, canonical
// link, Open Graph and Twitter Card tags, one JSON-LD block, and the
// validated tracking scripts.
func renderHead(page *pagemodel.PageDefinition, resolver *canonicalResolver, tracking pagemodel.TrackingConfig) string {
	var builder strings.Builder

	title := page.SEO.Title
	if strings.TrimSpace(title) == "" {
		title = page.Title
	}
	description := strings.TrimSpace(page.SEO.Description)
	canonical := resolver.Canonical(page)
	ogImage := resolver.Absolute(page.SEO.OGImageURL)

	builder.WriteString("  <meta charset=\"utf-8\"/>\n")
	builder.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>\n")
	fmt.Fprintf(&builder, "  <title>%s</title>\n", html.EscapeString(title))

	if description != "" {
		fmt.Fprintf(&builder, "  <meta name=\"description\" content=\"%s\"/>\n", html.EscapeString(description))
	}
	if keywords := strings.TrimSpace(strings.Join(page.SEO.Keywords, ", ")); keywords != "" {
		fmt.Fprintf(&builder, "  <meta name=\"keywords\" content=\"%s\"/>\n", html.EscapeString(keywords))
	}
	if canonical != "" {
		fmt.Fprintf(&builder, "  <link rel=\"canonical\" href=\"%s\"/>\n", html.EscapeString(canonical))
	}

	// Open Graph
	fmt.Fprintf(&builder, "  <meta property=\"og:title\" content=\"%s\"/>\n", html.EscapeString(title))
	fmt.Fprintf(&builder, "  <meta property=\"og:type\" content=\"website\"/>\n")
	if description != "" {
		fmt.Fprintf(&builder, "  <meta property=\"og:description\" content=\"%s\"/>\n", html.EscapeString(description))
	}
	if canonical != "" {
		fmt.Fprintf(&builder, "  <meta property=\"og:url\" content=\"%s\"/>\n", html.EscapeString(canonical))
	}
	if ogImage != "" {
		fmt.Fprintf(&builder, "  <meta property=\"og:image\" content=\"%s\"/>\n", html.EscapeString(ogImage))
	}

	// Twitter Card
	card := "summary"
	if ogImage != "" {
		card = "summary_large_image"
	}
	fmt.Fprintf(&builder, "  <meta name=\"twitter:card\" content=\"%s\"/>\n", card)
	fmt.Fprintf(&builder, "  <meta name=\"twitter:title\" content=\"%s\"/>\n", html.EscapeString(title))
	if description != "" {
		fmt.Fprintf(&builder, "  <meta name=\"twitter:description\" content=\"%s\"/>\n", html.EscapeString(description))
	}
	if ogImage != "" {
		fmt.Fprintf(&builder, "  <meta name=\"twitter:image\" content=\"%s\"/>\n", html.EscapeString(ogImage))
	}

	builder.WriteString(structuredData(page, canonical, ogImage))

	builder.WriteString("  <link rel=\"stylesheet\" href=\"/styles.css\"/>\n")
	builder.WriteString(trackingScripts(tracking))
	builder.WriteString("  <script defer src=\"/app.js\"></script>\n")

	return builder.String()
}

// structuredData emits a single JSON-LD WebPage block. Keys are marshaled
// from a struct so ordering is stable across builds.
func structuredData(page *pagemodel.PageDefinition, canonical, image string) string {
	payload := struct {
		Context     string `json:"@context"`
		Type        string `json:"@type"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		URL         string `json:"url,omitempty"`
		Image       string `json:"image,omitempty"`
		InLanguage  string `json:"inLanguage,omitempty"`
	}{
		Context:     "https://schema.org",
		Type:        "WebPage",
		Name:        page.Title,
		Description: page.SEO.Description,
		URL:         canonical,
		Image:       image,
		InLanguage:  page.Theme.Language,
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return "  <script type=\"application/ld+json\">" + string(encoded) + "</script>\n"
}
