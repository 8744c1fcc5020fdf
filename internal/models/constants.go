package models

const (
	PartitionCount     = 4
	CacheFileName      = "response_cache.json"
	ArtifactPattern    = "chunk_%d%s"
	ManifestFileName   = "partitions.json"
	InteractionsFile   = "interactions.jsonl"
	MimeTypePDF        = "application/pdf"
	MimeTypeText       = "text/plain"
	NoDocumentMsg      = "Error: No document loaded. Please try again later."
	RetrySectionMsg    = "Error processing section %d. Please try again."
	ContinueSectionMsg = "Error processing section %d. Continuing with remaining sections..."
)

var QuarterNames = [PartitionCount]string{
	"First Quarter",
	"Second Quarter",
	"Third Quarter",
	"Fourth Quarter",
}

var (
	SectionPromptTemplate = `%s

Please analyze this section and provide:
1. Key relevant information
2. Brief, factual responses
3. Specific references when applicable

Keep the response clear and concise.`

	SummarySystemPrompt = "Create a brief TL;DR summary of the following text, focusing on the key points and actionable insights:"
)
