package docstore

type Document struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// seedDocuments is the fixed corpus served by the local docs server, in output order.
var seedDocuments = []Document{
	{
		ID:    "getting-started",
		Title: "Getting Started",
		Text:  "Run docker compose for local gateway and connect ChatGPT via the tunneled /mcp endpoint.",
	},
	{
		ID:    "deploy",
		Title: "Deploy",
		Text:  "Render manifests with gateway render and apply with gateway apply.",
	},
	{
		ID:    "debug",
		Title: "Debugging",
		Text:  "Set GATEWAY_LOG_BODIES=true to inspect request and response payloads in gateway logs.",
	},
}
