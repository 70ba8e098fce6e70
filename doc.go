/*
Package concierge is a conversational assistant that helps people discover events and learn
about cities.

Every user message runs one turn through a small directed graph of nodes:

	classify -> resolve_city -> fetch_events -> respond
	    \______________________________________/

The classifier asks the language model for an intent and an optional city. The resolver
turns the city name into a structured record. The fetcher queries upcoming events for the
resolved city. The responder composes the single assistant reply from the accumulated
context. Nodes never mutate the state they receive; they return a domain.Delta that the
engine applies to a working copy, so a failed or cancelled turn leaves the stored session
untouched.

# Usage

	model, err := langchain.NewFromConfig(langchain.ProviderConfig{
		Provider: langchain.ProviderOpenAI,
		Model:    "gpt-4o-mini",
	})
	if err != nil {
		log.Fatal(err)
	}

	fx := lookup.DefaultFixture()
	c, err := concierge.New(model, fx.CityLookup(), fx.EventLookup())
	if err != nil {
		log.Fatal(err)
	}

	id, _ := c.CreateSession(ctx)
	reply, err := c.SubmitMessage(ctx, id, "Show me events in Austin")

Sessions for the same id are processed one at a time. Different sessions run in parallel.
Stores, distributed locks and observability hooks are pluggable through Options.
*/
package concierge
