package assistant

import "github.com/m-mizutani/gollem"

func intentSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "IntentAnalysis",
		Description: "Intent and entities extracted from a user message",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"intent": {
				Type:        gollem.TypeString,
				Required:    true,
				Description: "One of search_restaurants, make_reservation, general_chat, modify_preferences",
			},
			"entities": {
				Type:        gollem.TypeObject,
				Required:    true,
				Description: "Entities mentioned in the message",
				Properties: map[string]*gollem.Parameter{
					"cuisine":    {Type: gollem.TypeString, Description: "Cuisine name"},
					"priceRange": {Type: gollem.TypeString, Description: "One of $, $$, $$$, $$$$"},
					"location":   {Type: gollem.TypeString, Description: "Location named for this request"},
					"partySize":  {Type: gollem.TypeInteger, Description: "Number of diners"},
					"dateTime":   {Type: gollem.TypeString, Description: "Requested date and time"},
					"mood":       {Type: gollem.TypeString, Description: "Desired atmosphere"},
					"dietaryRestrictions": {
						Type:        gollem.TypeArray,
						Description: "Dietary restrictions",
						Items:       &gollem.Parameter{Type: gollem.TypeString},
					},
				},
			},
			"confidence": {
				Type:        gollem.TypeNumber,
				Required:    true,
				Description: "Confidence between 0 and 1",
			},
		},
	}
}

func recommendationSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "RestaurantRecommendation",
		Description: "Restaurant recommendations with reasoning",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"reasoning": {
				Type:        gollem.TypeString,
				Required:    true,
				Description: "Why these restaurants fit the request",
			},
			"recommendations": {
				Type:        gollem.TypeArray,
				Required:    true,
				Description: "2-3 recommended restaurants",
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"name":        {Type: gollem.TypeString, Description: "Restaurant name for search", Required: true},
						"cuisine":     {Type: gollem.TypeString, Description: "Cuisine type", Required: true},
						"priceRange":  {Type: gollem.TypeString, Description: "One of $, $$, $$$, $$$$", Required: true},
						"reason":      {Type: gollem.TypeString, Description: "Why this fits the request", Required: true},
						"searchQuery": {Type: gollem.TypeString, Description: "Query for the restaurant search API", Required: true},
					},
				},
			},
			"followUpQuestions": {
				Type:        gollem.TypeArray,
				Description: "Optional follow-up questions",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
			},
		},
	}
}

func callScriptSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ReservationCallScript",
		Description: "Phone script for a restaurant reservation",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"callScript": {
				Type:        gollem.TypeString,
				Required:    true,
				Description: "Natural conversation script for the voice agent",
			},
			"expectedResponses": {
				Type:        gollem.TypeArray,
				Description: "Likely responses from the restaurant",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
			},
			"fallbackOptions": {
				Type:        gollem.TypeArray,
				Description: "Alternatives if the initial request fails",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
			},
		},
	}
}
