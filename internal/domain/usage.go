package domain

// ExtractUsage pulls normalized token counts from a terminal response
// snapshot. It returns nil when the snapshot carries no usage object:
// callers must treat that as "unknown", not zero. Legacy field naming
// (prompt_tokens/completion_tokens) is normalized to the current naming
// here, before any rate lookup happens.
func ExtractUsage(snapshot *ResponseSnapshot) *UsageSnapshot {
	if snapshot == nil || snapshot.Usage == nil {
		return nil
	}

	raw := snapshot.Usage
	usage := &UsageSnapshot{
		PromptTokens:     firstOf(raw.InputTokens, raw.PromptTokens),
		CompletionTokens: firstOf(raw.OutputTokens, raw.CompletionTokens),
		TotalTokens:      raw.TotalTokens,
	}

	if raw.InputTokensDetails != nil {
		usage.CachedTokens = raw.InputTokensDetails.CachedTokens
	}
	if raw.OutputTokensDetails != nil {
		usage.ReasoningTokens = raw.OutputTokensDetails.ReasoningTokens
	}

	return usage
}

// ExtractMetadata pulls the optional response-level fields from a terminal
// snapshot. Absent upstream fields stay absent in the result.
func ExtractMetadata(snapshot *ResponseSnapshot) ResponseMetadata {
	if snapshot == nil {
		return ResponseMetadata{}
	}

	meta := ResponseMetadata{
		Status:             snapshot.Status,
		Error:              snapshot.Error,
		IncompleteDetails:  snapshot.IncompleteDetails,
		Background:         snapshot.Background,
		MaxOutputTokens:    snapshot.MaxOutputTokens,
		PreviousResponseID: snapshot.PreviousResponseID,
		PromptCacheKey:     snapshot.PromptCacheKey,
		ServiceTier:        snapshot.ServiceTier,
		Truncation:         snapshot.Truncation,
		SafetyIdentifier:   snapshot.SafetyIdentifier,
		Metadata:           snapshot.Metadata,
	}

	if snapshot.Conversation != nil {
		meta.ConversationID = snapshot.Conversation.ID
	}
	if snapshot.Text != nil {
		meta.TextVerbosity = snapshot.Text.Verbosity
	}

	return meta
}

func firstOf(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
