package slack

// MaxErrorLength is exported for testing
const MaxErrorLength = maxErrorLength
