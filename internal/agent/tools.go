package agent

// Tool names as exposed to the decider.
const (
	toolQueryAvailability = "query_availability"
	toolBookSlot          = "book_slot"
)

// toolCatalog returns the tools offered to the decider on every turn.
func toolCatalog() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        toolQueryAvailability,
			Description: "Look up busy and free meeting slots on the calendar within a time window. Call this before offering any times. Omit both arguments to check the next few days.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"start_time": map[string]any{
						"type":        "string",
						"description": "Window start, as an ISO timestamp or a natural phrase like 'tomorrow morning'.",
					},
					"end_time": map[string]any{
						"type":        "string",
						"description": "Window end, as an ISO timestamp or a natural phrase.",
					},
				},
			},
		},
		{
			Name:        toolBookSlot,
			Description: "Book a meeting at a slot that was listed as free by query_availability and confirmed by the user.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"start_time": map[string]any{
						"type":        "string",
						"description": "Start of the confirmed slot, as an ISO timestamp or a natural phrase.",
					},
				},
				"required": []string{"start_time"},
			},
		},
	}
}
