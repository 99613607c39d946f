// Package researchd provides a Go client for the researchd equity research
// API.
//
//	client := researchd.New("http://localhost:8000",
//	    researchd.WithAPIKey("secret"),
//	)
//
//	answer, err := client.ResearchChat(ctx, researchd.ChatRequest{
//	    Ticker:   "WOW",
//	    Question: "What is the bear case?",
//	})
//
// Retrieval without generation is available through Passages, which returns
// the ranked grounding passages for a question.
package researchd
