// Package discovery probes a running service for a machine-readable API
// description. REST services expose OpenAPI documents at inconsistent but
// conventional paths, so probing an ordered candidate list is cheaper and more
// robust than requiring per-target configuration.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ErrSpecNotFound reports that no candidate URL yielded a recognizable
// OpenAPI/Swagger document.
var ErrSpecNotFound = errors.New("no OpenAPI document found")

// Spec is a discovered API description: the URL it was found at plus its raw
// textual content (JSON or YAML). The content is imported as-is; it is never
// parsed as an OpenAPI document here.
type Spec struct {
	URL     string
	Content string
}

// probeTimeout bounds each individual candidate GET. Discovery scans many
// URLs, most of which 404 quickly; a hung endpoint must not stall the scan.
const probeTimeout = 20 * time.Second

// pathSuffixes are tried against both the full base URL and the derived API
// root, in this order.
var pathSuffixes = []string{
	"/v1/openapi/v1.json",
	"/openapi/v1.json",
	"/openapi.json",
	"/openapi.yaml",
	"/swagger.json",
	"/swagger/v1/swagger.json",
	"/v1/swagger.json",
	"/openapi?format=json",
}

// queryVariants are root-only probes appended after all path-suffix candidates.
var queryVariants = []string{
	"?format=openapi",
	"?format=swagger",
	"?format=swagger-link-json",
}

var versionSegmentRE = regexp.MustCompile(`/v\d+$`)

type Prober struct {
	// HTTP is the client used for probes. Probes carry their own per-request
	// timeout regardless of the client's configuration.
	HTTP *http.Client

	// Verbose narrates each probe to w when set.
	Verbose bool
	W       io.Writer
}

func NewProber(client *http.Client) *Prober {
	if client == nil {
		client = http.DefaultClient
	}
	return &Prober{HTTP: client}
}

// CandidateURLs builds the ordered, de-duplicated probe list for baseURL.
// The order is fixed and deterministic: all path suffixes against the full
// base, then against the API root (the base with a trailing /v<digits> segment
// stripped, when present), then the root-only query variants against each.
func CandidateURLs(baseURL string) []string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")

	bases := []string{base}
	if root := versionSegmentRE.ReplaceAllString(base, ""); root != base && root != "" {
		bases = append(bases, root)
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}

	for _, b := range bases {
		for _, suffix := range pathSuffixes {
			add(b + suffix)
		}
	}
	for _, b := range bases {
		for _, q := range queryVariants {
			add(b + q)
		}
	}
	return out
}

// Discover probes candidates in order and returns the first response whose
// body looks like an OpenAPI/Swagger document. Transport and HTTP errors skip
// to the next candidate; the scan only fails once the list is exhausted.
func (p *Prober) Discover(ctx context.Context, baseURL string) (*Spec, error) {
	candidates := CandidateURLs(baseURL)
	for _, candidate := range candidates {
		body, ok := p.probe(ctx, candidate)
		if !ok {
			continue
		}
		if !looksLikeSpec(body) {
			p.logf("probe %s: no OpenAPI markers in body", candidate)
			continue
		}
		p.logf("probe %s: match", candidate)
		return &Spec{URL: candidate, Content: body}, nil
	}
	return nil, fmt.Errorf("%w after probing %d candidate URLs under %s", ErrSpecNotFound, len(candidates), baseURL)
}

func (p *Prober) probe(ctx context.Context, url string) (body string, ok bool) {
	reqCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		p.logf("probe %s: %v", url, err)
		return "", false
	}
	resp, err := p.HTTP.Do(req)
	if err != nil {
		p.logf("probe %s: %v", url, err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logf("probe %s: %s", url, resp.Status)
		return "", false
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logf("probe %s: read body: %v", url, err)
		return "", false
	}
	return string(b), true
}

// looksLikeSpec is a raw-text sniff, not a parsed-document check: the content
// is handed to the governance service verbatim, which does the real parsing.
// The tests are case-sensitive on purpose; OpenAPI marker keys are lowercase.
func looksLikeSpec(body string) bool {
	return strings.Contains(body, `"openapi"`) ||
		strings.Contains(body, `"swagger"`) ||
		strings.HasPrefix(body, "openapi:")
}

func (p *Prober) logf(format string, args ...any) {
	if !p.Verbose || p.W == nil {
		return
	}
	fmt.Fprintf(p.W, "[verbose] discovery: "+format+"\n", args...)
}
