package governance

import "fmt"

// managementEndpoint is the management-plane host all direct REST calls are
// issued against.
const managementEndpoint = "https://management.azure.com"

// Scopes builds management-plane resource URLs for one governance service
// instance. Every URL carries the api-version query parameter the service
// requires.
type Scopes struct {
	Subscription  string
	ResourceGroup string
	ServiceName   string
	APIVersion    string

	// Endpoint overrides managementEndpoint (tests point it at httptest servers).
	Endpoint string
}

func (s Scopes) endpoint() string {
	if s.Endpoint != "" {
		return s.Endpoint
	}
	return managementEndpoint
}

// Service is the root scope of the governance service instance.
func (s Scopes) Service() string {
	return fmt.Sprintf("%s/subscriptions/%s/resourceGroups/%s/providers/Microsoft.ApiCenter/services/%s",
		s.endpoint(), s.Subscription, s.ResourceGroup, s.ServiceName)
}

// Definition is the scope of one imported API definition.
func (s Scopes) Definition(apiID, versionID, definitionID string) string {
	return fmt.Sprintf("%s/workspaces/default/apis/%s/versions/%s/definitions/%s",
		s.Service(), apiID, versionID, definitionID)
}

// AnalysisResults is the primary (definition-scoped) results feed.
func (s Scopes) AnalysisResults(apiID, versionID, definitionID string) string {
	return s.Definition(apiID, versionID, definitionID) + "/analysisResults?api-version=" + s.APIVersion
}

// UpdateAnalysisState is the best-effort analysis refresh endpoint.
func (s Scopes) UpdateAnalysisState(apiID, versionID, definitionID string) string {
	return s.Definition(apiID, versionID, definitionID) + "/updateAnalysisState?api-version=" + s.APIVersion
}

// AnalyzerExecutions is the secondary (analyzer-scoped) results feed.
func (s Scopes) AnalyzerExecutions(analyzer string) string {
	return fmt.Sprintf("%s/workspaces/default/analyzerConfigs/%s/analysisExecutions?api-version=%s",
		s.Service(), analyzer, s.APIVersion)
}
