package concierge_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/pkg/adapters/lookup"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

func Example() {
	// A canned model keeps the example deterministic.
	model := ports.LanguageModelFunc(func(ctx context.Context, system string, turns []domain.Message) (string, error) {
		if strings.Contains(system, `"intent"`) {
			return `{"intent": "event_search", "city": "Lisbon"}`, nil
		}
		return "Fado ao Vivo is playing at Clube de Fado.", nil
	})

	fx := lookup.DefaultFixture()
	c, err := concierge.New(model, fx.CityLookup(), fx.EventLookup())
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	id, err := c.CreateSession(ctx)
	if err != nil {
		panic(err)
	}

	reply, err := c.SubmitMessage(ctx, id, "What's on in Lisbon?")
	if err != nil {
		panic(err)
	}

	fmt.Println(reply.Message)
	fmt.Println(reply.Context.Intent, reply.Context.City.Name, len(reply.Context.Events))
	// Output:
	// Fado ao Vivo is playing at Clube de Fado.
	// event_search Lisbon 2
}
