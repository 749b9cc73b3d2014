package api

// ContextResponse summarises the resolved context the proxy is serving.
// Credential material itself is never exposed, only the kind.
type ContextResponse struct {
	Server    string `json:"server"`
	Namespace string `json:"namespace"`
	AuthKind  string `json:"authKind"`
}
