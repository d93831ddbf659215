package assistant

// ParseIntent exposes parseIntent for testing
var ParseIntent = parseIntent

// BuildClassifyUserPrompt exposes buildClassifyUserPrompt for testing
var BuildClassifyUserPrompt = buildClassifyUserPrompt
